package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientCredentialsAcquirer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}

		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			t.Errorf("basic auth = %q/%q (%v)", user, pass, ok)
		}

		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "client_credentials" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("scope"); got != "content" {
			t.Errorf("scope = %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"abc","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	acq := NewClientCredentialsAcquirer(ClientCredentialsConfig{
		TokenURL:     srv.URL,
		ClientID:     "client",
		ClientSecret: "secret",
		Scopes:       []string{"content"},
	})

	before := time.Now()
	cred, err := acq.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if cred.Token != "abc" {
		t.Errorf("token = %q, want abc", cred.Token)
	}
	if cred.ExpiresAt.Before(before.Add(59*time.Minute)) || cred.ExpiresAt.After(time.Now().Add(time.Hour)) {
		t.Errorf("expires at %v, want about an hour from now", cred.ExpiresAt)
	}
}

func TestClientCredentialsAcquirerRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	acq := NewClientCredentialsAcquirer(ClientCredentialsConfig{TokenURL: srv.URL, ClientID: "x", ClientSecret: "y"})

	if _, err := acq.Acquire(context.Background()); err == nil {
		t.Fatal("expected an error for a rejected client")
	}
}

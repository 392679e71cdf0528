package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/quran"
	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/service"
)

type fakeResolver struct {
	err error
}

func (f fakeResolver) ResolveContext(_ context.Context, ref entities.VerseRef) (*entities.VerseContext, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &entities.VerseContext{
		Ref:  ref,
		Main: "main",
		Next: []entities.VerseText{{Text: "n1"}, {Text: "n2"}},
		Prev: []entities.VerseText{{Text: "p2"}, {Text: "p1"}},
	}, nil
}

type fakeQuestions struct {
	got []int
}

func (f *fakeQuestions) GenerateQuestions(_ context.Context, selected []int) ([]entities.Question, error) {
	f.got = selected
	for _, j := range selected {
		if j < 1 || j > entities.TotalJuz {
			return nil, fmt.Errorf("%w: %d", service.ErrInvalidSection, j)
		}
	}
	return []entities.Question{{Chapter: 112, Verse: 1, Page: 604}}, nil
}

func newTestServer(t *testing.T, resolver VerseContextResolver, questions QuestionGenerator) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(NewRouter(resolver, questions, []string{"*"}, zap.NewNop()))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetVerse(t *testing.T) {
	srv := newTestServer(t, fakeResolver{}, &fakeQuestions{})

	resp, err := http.Get(srv.URL + "/api/verse?chapter=2&verse=255")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var body verseResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Main != "main" || len(body.Next2) != 2 || body.Prev2[0] != "p2" {
		t.Errorf("body = %+v", body)
	}
}

func TestGetVerseErrors(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		err      error
		wantCode int
	}{
		{"missing params", "", nil, http.StatusBadRequest},
		{"not a number", "chapter=x&verse=1", nil, http.StatusBadRequest},
		{"chapter out of range", "chapter=115&verse=1", nil, http.StatusBadRequest},
		{"zero verse", "chapter=1&verse=0", nil, http.StatusBadRequest},
		{"missing verse", "chapter=1&verse=8", fmt.Errorf("%w: %w", service.ErrVerseResolutionFailed, quran.ErrVerseNotFound), http.StatusNotFound},
		{"upstream failure", "chapter=1&verse=1", fmt.Errorf("%w: %w", service.ErrVerseResolutionFailed, quran.ErrUnexpectedStatus), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, fakeResolver{err: tt.err}, &fakeQuestions{})

			resp, err := http.Get(srv.URL + "/api/verse?" + tt.query)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantCode {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
			var body errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
				t.Errorf("error body = %+v, %v", body, err)
			}
		})
	}
}

func TestGetQuestions(t *testing.T) {
	questions := &fakeQuestions{}
	srv := newTestServer(t, fakeResolver{}, questions)

	resp, err := http.Get(srv.URL + "/api/questions?juz=1,%202,30")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if fmt.Sprint(questions.got) != "[1 2 30]" {
		t.Errorf("selection = %v", questions.got)
	}

	var body questionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Questions) != 1 || body.Questions[0] != (questionResponse{Chapter: 112, Verse: 1, Page: 604}) {
		t.Errorf("body = %+v", body)
	}
}

func TestGetQuestionsBadSelection(t *testing.T) {
	for _, query := range []string{"", "juz=", "juz=a", "juz=31"} {
		t.Run(query, func(t *testing.T) {
			srv := newTestServer(t, fakeResolver{}, &fakeQuestions{})

			resp, err := http.Get(srv.URL + "/api/questions?" + query)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestHealthzAndCORS(t *testing.T) {
	srv := newTestServer(t, fakeResolver{}, &fakeQuestions{})

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("Origin", "https://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestParseJuzList(t *testing.T) {
	got, err := parseJuzList(" 3, ,1")
	if err != nil || fmt.Sprint(got) != "[3 1]" {
		t.Errorf("parseJuzList = %v, %v", got, err)
	}
	if _, err := parseJuzList(","); !errors.Is(err, service.ErrNoSectionsSelected) {
		t.Errorf("empty list error = %v", err)
	}
}

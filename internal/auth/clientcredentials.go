package auth

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

// ClientCredentialsConfig describes the OAuth2 client of the bot.
type ClientCredentialsConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Timeout      time.Duration
}

// ClientCredentialsAcquirer exchanges the client id and secret for an access
// token using the client_credentials grant. The secret travels in the
// Authorization header.
type ClientCredentialsAcquirer struct {
	cfg        clientcredentials.Config
	httpClient *http.Client
}

func NewClientCredentialsAcquirer(cfg ClientCredentialsConfig) *ClientCredentialsAcquirer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ClientCredentialsAcquirer{
		cfg: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (a *ClientCredentialsAcquirer) Acquire(ctx context.Context) (entities.Credential, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	// Token always hits the issuer; caching belongs to TokenCache.
	tok, err := a.cfg.Token(ctx)
	if err != nil {
		return entities.Credential{}, err
	}

	return entities.Credential{
		Token:     tok.AccessToken,
		ExpiresAt: tok.Expiry,
	}, nil
}

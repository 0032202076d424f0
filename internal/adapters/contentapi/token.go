package contentapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"hotellink/internal/adapters/observability"
)

// TokenProvider hands out bearer tokens for the content API.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
	// Refresh replaces stale with a new token. Concurrent callers that saw the
	// same stale token share one refresh.
	Refresh(ctx context.Context, stale string) (string, error)
}

// StaticToken is a server-injected token that never changes.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error)           { return string(s), nil }
func (s StaticToken) Refresh(context.Context, string) (string, error) { return string(s), nil }

// Tokens caches one OAuth2 token and refreshes it single-flight.
type Tokens struct {
	fetch func(ctx context.Context) (*oauth2.Token, error)

	mu  sync.Mutex
	tok *oauth2.Token

	group singleflight.Group
}

// NewClientCredentials builds a provider backed by the client-credentials grant.
func NewClientCredentials(clientID, clientSecret, tokenURL string) *Tokens {
	cfg := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return NewTokens(cfg.Token)
}

func NewTokens(fetch func(ctx context.Context) (*oauth2.Token, error)) *Tokens {
	return &Tokens{fetch: fetch}
}

func (t *Tokens) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	tok := t.tok
	t.mu.Unlock()
	if tok.Valid() {
		return tok.AccessToken, nil
	}
	return t.Refresh(ctx, "")
}

func (t *Tokens) Refresh(ctx context.Context, stale string) (string, error) {
	ch := t.group.DoChan("token", func() (any, error) {
		t.mu.Lock()
		cur := t.tok
		t.mu.Unlock()
		// someone already replaced the token the caller saw
		if cur.Valid() && cur.AccessToken != stale {
			return cur.AccessToken, nil
		}

		// detached so one caller's cancellation does not fail the waiters
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
		defer cancel()
		tok, err := t.fetch(fctx)
		if err != nil {
			observability.ObserveTokenRefresh("error")
			return "", err
		}
		if tok == nil || tok.AccessToken == "" {
			observability.ObserveTokenRefresh("error")
			return "", errors.New("token endpoint returned an empty token")
		}
		observability.ObserveTokenRefresh("ok")
		t.mu.Lock()
		t.tok = tok
		t.mu.Unlock()
		return tok.AccessToken, nil
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

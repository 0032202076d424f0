package contentapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"hotellink/internal/adapters/contentapi"
)

func TestClientCredentials_CachesUntilRefresh(t *testing.T) {
	var issued int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		n := atomic.AddInt32(&issued, 1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(`{"access_token":"t1","token_type":"bearer","expires_in":3600}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"t2","token_type":"bearer","expires_in":3600}`))
	}))
	defer ts.Close()

	tokens := contentapi.NewClientCredentials("site", "secret", ts.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		tok, err := tokens.Token(ctx)
		if err != nil {
			t.Fatalf("Token: %v", err)
		}
		if tok != "t1" {
			t.Fatalf("expected cached t1, got %s", tok)
		}
	}
	if atomic.LoadInt32(&issued) != 1 {
		t.Fatalf("expected a single token request, got %d", issued)
	}

	tok, err := tokens.Refresh(ctx, "t1")
	if err != nil || tok != "t2" {
		t.Fatalf("Refresh: %q %v", tok, err)
	}
	// a late caller still holding t1 gets t2 without another request
	tok, err = tokens.Refresh(ctx, "t1")
	if err != nil || tok != "t2" {
		t.Fatalf("late Refresh: %q %v", tok, err)
	}
	if atomic.LoadInt32(&issued) != 2 {
		t.Fatalf("expected two token requests, got %d", issued)
	}
}

func TestStaticToken(t *testing.T) {
	s := contentapi.StaticToken("abc")
	tok, _ := s.Token(context.Background())
	if tok != "abc" {
		t.Fatalf("got %q", tok)
	}
}

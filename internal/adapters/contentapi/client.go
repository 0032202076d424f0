// internal/adapters/contentapi/client.go
package contentapi

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"hotellink/internal/adapters/observability"
	"hotellink/internal/domain"
)

type Options struct {
	BaseURL    string
	TenantCode string
	PropertyID int64
	RPS        int
	Tokens     TokenProvider // nil: requests go out without Authorization
	HTTPClient *http.Client
}

type Client struct {
	base     string
	tenant   string
	property int64
	hc       *http.Client
	rl       *rate.Limiter
	tokens   TokenProvider
}

func New(o Options) (*Client, error) {
	if o.BaseURL == "" {
		return nil, fmt.Errorf("content API base URL is required")
	}
	if o.TenantCode == "" {
		return nil, fmt.Errorf("tenant code is required")
	}
	rps := o.RPS
	if rps <= 0 {
		rps = 10
	}
	hc := o.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	return &Client{
		base:     strings.TrimRight(o.BaseURL, "/"),
		tenant:   o.TenantCode,
		property: o.PropertyID,
		hc:       hc,
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
		tokens:   o.Tokens,
	}, nil
}

// ---- Public API ----

func (c *Client) Property(ctx context.Context, propertyID int64) (domain.Property, error) {
	var out domain.Property
	return out, c.get(ctx, "property", fmt.Sprintf("/properties/%d", propertyID), nil, "", &out)
}

func (c *Client) Locales(ctx context.Context, propertyID int64) ([]domain.Locale, error) {
	var out []domain.Locale
	return out, c.get(ctx, "locales", fmt.Sprintf("/properties/%d/locales", propertyID), nil, "", &out)
}

func (c *Client) Settings(ctx context.Context, propertyID int64) (domain.Settings, error) {
	var out domain.Settings
	return out, c.get(ctx, "settings", fmt.Sprintf("/properties/%d/settings", propertyID), nil, "", &out)
}

func (c *Client) VR360Settings(ctx context.Context, propertyID int64) ([]domain.PageVR, error) {
	var out []domain.PageVR
	return out, c.get(ctx, "vr360_settings", fmt.Sprintf("/properties/%d/vr360-settings", propertyID), nil, "", &out)
}

func (c *Client) Entities(ctx context.Context, kind domain.Kind, propertyID int64, locale string) ([]domain.Entity, error) {
	q := url.Values{}
	q.Set("property_id", strconv.FormatInt(propertyID, 10))
	q.Set("locale", locale)
	var out []domain.Entity
	return out, c.get(ctx, string(kind), "/"+string(kind), q, locale, &out)
}

func (c *Client) EntityByCode(ctx context.Context, kind domain.Kind, propertyID int64, code, locale string) (domain.Entity, error) {
	q := url.Values{}
	q.Set("property_id", strconv.FormatInt(propertyID, 10))
	q.Set("locale", locale)
	var out domain.Entity
	err := c.get(ctx, string(kind)+"_by_code", "/"+string(kind)+"/code/"+url.PathEscape(code), q, locale, &out)
	if err == nil && out.ID == 0 && out.Code == "" {
		// some deployments answer 200 with an empty object
		return domain.Entity{}, fmt.Errorf("%s %q: %w", kind, code, domain.ErrNotFound)
	}
	return out, err
}

func (c *Client) EntityByID(ctx context.Context, kind domain.Kind, id int64, locale string) (domain.Entity, error) {
	q := url.Values{}
	q.Set("locale", locale)
	var out domain.Entity
	return out, c.get(ctx, string(kind)+"_by_id", fmt.Sprintf("/%s/%d", kind, id), q, locale, &out)
}

func (c *Client) Page(ctx context.Context, kind domain.PageKind, propertyID int64, locale string) (domain.Page, error) {
	q := url.Values{}
	q.Set("locale", locale)
	var out domain.Page
	return out, c.get(ctx, string(kind), fmt.Sprintf("/properties/%d/%s", propertyID, kind), q, locale, &out)
}

func (c *Client) Posts(ctx context.Context, propertyID int64, locale string) ([]domain.Post, error) {
	q := url.Values{}
	q.Set("locale", locale)
	var out []domain.Post
	return out, c.get(ctx, "posts", fmt.Sprintf("/properties/%d/posts", propertyID), q, locale, &out)
}

func (c *Client) Contact(ctx context.Context, propertyID int64, locale string) (domain.Contact, error) {
	q := url.Values{}
	q.Set("locale", locale)
	var out domain.Contact
	return out, c.get(ctx, "contact", fmt.Sprintf("/properties/%d/contact", propertyID), q, locale, &out)
}

func (c *Client) Gallery(ctx context.Context, propertyID int64) ([]domain.MediaItem, error) {
	q := url.Values{}
	q.Set("type", "gallery")
	var out []domain.MediaItem
	return out, c.get(ctx, "gallery", fmt.Sprintf("/properties/%d/media", propertyID), q, "", &out)
}

func (c *Client) Media(ctx context.Context, id int64) (domain.MediaItem, error) {
	var out domain.MediaItem
	return out, c.get(ctx, "media", fmt.Sprintf("/media/%d", id), nil, "", &out)
}

// ---- Internals ----

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided. A 401 drops
// the current token and replays the request once with a refreshed one.
func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, locale string, out any) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	reauthed := false
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "hotellink/1.0")
		req.Header.Set("X-Tenant-Code", c.tenant)
		if c.property != 0 {
			req.Header.Set("X-Property-Id", strconv.FormatInt(c.property, 10))
		}
		if locale != "" {
			req.Header.Set("Accept-Language", locale)
		}
		var token string
		if c.tokens != nil {
			token, err = c.tokens.Token(ctx)
			if err != nil {
				return fmt.Errorf("content api token: %w", err)
			}
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("content_api", endpoint, 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("content_api", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated, http.StatusAccepted:
			b, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return err
			}
			return decodeData(b, out)

		case http.StatusNoContent:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return fmt.Errorf("%s: %w", endpoint, domain.ErrNotFound)

		case http.StatusUnauthorized:
			resp.Body.Close()
			if c.tokens != nil && !reauthed {
				reauthed = true
				if _, err := c.tokens.Refresh(ctx, token); err != nil {
					return fmt.Errorf("content api token refresh: %w", err)
				}
				i-- // the replay does not count as a retry
				continue
			}
			return fmt.Errorf("%s: %w", endpoint, domain.ErrUnauthorized)

		case http.StatusForbidden:
			resp.Body.Close()
			return fmt.Errorf("%s: %w", endpoint, domain.ErrForbidden)

		case http.StatusUnprocessableEntity:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%s: %w: %s", endpoint, domain.ErrValidation, strings.TrimSpace(string(b)))

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%s: remote %d", endpoint, resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%s: bad status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// decodeData accepts both bare payloads and {"data": ...} envelopes.
func decodeData(b []byte, out any) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	if b[0] == '{' {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(b, &env); err == nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
			b = env.Data
		}
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode content api payload: %w", err)
	}
	return nil
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff: 200ms, 400ms, 800ms... plus up to 50% jitter from crypto/rand.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}

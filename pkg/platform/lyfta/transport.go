package lyfta

import (
	"context"
	"fmt"
	"net/http"
)

// CookieSource supplies the session cookie sent with every request.
type CookieSource interface {
	Cookie(ctx context.Context) (string, error)
}

// StaticCookie is a CookieSource for a cookie known up front.
type StaticCookie string

func (s StaticCookie) Cookie(context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("lyfta: empty session cookie")
	}
	return string(s), nil
}

// Transport is an http.RoundTripper that authenticates requests with the
// platform session cookie and sets the browser headers the API expects.
type Transport struct {
	Source CookieSource

	// Base is the base RoundTripper used to make the actual HTTP requests.
	// If nil, http.DefaultTransport is used.
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	cookie, err := t.Source.Cookie(req.Context())
	if err != nil {
		return nil, fmt.Errorf("lyfta: cannot get session cookie: %w", err)
	}

	req2 := cloneRequest(req)
	req2.Header.Set("Cookie", cookie)
	req2.Header.Set("Accept", "*/*")
	req2.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req2.Header.Set("Origin", originOf(req2))
	if req2.Header.Get("User-Agent") == "" {
		req2.Header.Set("User-Agent", userAgent)
	}
	if req2.Body != nil && req2.Header.Get("Content-Type") == "" {
		req2.Header.Set("Content-Type", "application/json")
	}

	return base.RoundTrip(req2)
}

const userAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:134.0) Gecko/20100101 Firefox/134.0"

func originOf(r *http.Request) string {
	return r.URL.Scheme + "://" + r.URL.Host
}

// cloneRequest returns a shallow copy of r with its own Header map.
func cloneRequest(r *http.Request) *http.Request {
	r2 := new(http.Request)
	*r2 = *r
	r2.Header = make(http.Header, len(r.Header))
	for k, s := range r.Header {
		r2.Header[k] = append([]string(nil), s...)
	}
	return r2
}

package classify

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/Keksclan/goNutHoard/origins"
)

func newReq(t *testing.T, method, rawurl string, hdr map[string]string) *http.Request {
	t.Helper()
	u, err := url.Parse(rawurl)
	if err != nil {
		t.Fatalf("parse %q: %v", rawurl, err)
	}
	req := &http.Request{Method: method, URL: u, Header: make(http.Header)}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	return req
}

func newClassifier(t *testing.T, trusted ...string) *Classifier {
	t.Helper()
	set, err := origins.New(trusted...)
	if err != nil {
		t.Fatalf("origins.New: %v", err)
	}
	return &Classifier{Trusted: set}
}

func TestClassifyDecisionOrder(t *testing.T) {
	c := newClassifier(t, "https://fonts.example")

	tests := []struct {
		name   string
		method string
		url    string
		hdr    map[string]string
		want   Disposition
	}{
		{"post ignored", http.MethodPost, "https://app.example/api", nil, Ignore},
		{"put ignored", http.MethodPut, "https://app.example/api", nil, Ignore},
		{"delete ignored", http.MethodDelete, "https://app.example/api", nil, Ignore},
		{"head ignored despite asset dest", http.MethodHead, "https://app.example/a.css",
			map[string]string{"Sec-Fetch-Dest": "style"}, Ignore},
		{"options ignored", http.MethodOptions, "https://app.example/api", nil, Ignore},
		{"extension scheme ignored", http.MethodGet, "chrome-extension://abcdef/page.html", nil, Ignore},
		{"data scheme ignored", http.MethodGet, "data:text/plain,hi", nil, Ignore},

		{"trusted origin cache-first", http.MethodGet, "https://fonts.example/roboto.woff2", nil, CacheFirst},
		{"trusted origin beats navigation", http.MethodGet, "https://fonts.example/",
			map[string]string{"Sec-Fetch-Mode": "navigate"}, CacheFirst},
		{"stylesheet cache-first", http.MethodGet, "https://app.example/a.css",
			map[string]string{"Sec-Fetch-Dest": "style"}, CacheFirst},
		{"script cache-first", http.MethodGet, "https://app.example/a.js",
			map[string]string{"Sec-Fetch-Dest": "script"}, CacheFirst},
		{"font cache-first", http.MethodGet, "https://app.example/a.woff2",
			map[string]string{"Sec-Fetch-Dest": "font"}, CacheFirst},
		{"image cache-first", http.MethodGet, "https://app.example/a.png",
			map[string]string{"Sec-Fetch-Dest": "image"}, CacheFirst},
		{"extension fallback cache-first", http.MethodGet, "https://app.example/a.css", nil, CacheFirst},

		{"navigation network-first", http.MethodGet, "https://app.example/",
			map[string]string{"Sec-Fetch-Mode": "navigate"}, NetworkFirst},
		{"document dest network-first", http.MethodGet, "https://app.example/about",
			map[string]string{"Sec-Fetch-Dest": "document"}, NetworkFirst},

		{"api default swr", http.MethodGet, "https://app.example/api/expenses", nil, StaleWhileRevalidate},
		{"json fetch default swr", http.MethodGet, "https://app.example/data.json",
			map[string]string{"Sec-Fetch-Dest": "empty"}, StaleWhileRevalidate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(newReq(t, tt.method, tt.url, tt.hdr))
			if got != tt.want {
				t.Fatalf("Classify: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyZeroValue(t *testing.T) {
	var c Classifier
	got := c.Classify(newReq(t, http.MethodGet, "https://app.example/data", nil))
	if got != StaleWhileRevalidate {
		t.Fatalf("got %v, want StaleWhileRevalidate", got)
	}
}

func TestPredicates(t *testing.T) {
	if IsReadOnly(newReq(t, http.MethodHead, "https://a.example/", nil)) {
		t.Fatal("HEAD must not count as read-only for caching purposes")
	}
	if !IsReadOnly(newReq(t, http.MethodGet, "https://a.example/", nil)) {
		t.Fatal("GET is read-only")
	}
	if !IsInternalScheme(newReq(t, http.MethodGet, "about:blank", nil)) {
		t.Fatal("about: is internal")
	}
	if IsInternalScheme(newReq(t, http.MethodGet, "http://a.example/", nil)) {
		t.Fatal("http is not internal")
	}
	if !IsNavigation(newReq(t, http.MethodGet, "https://a.example/", map[string]string{"Sec-Fetch-Mode": "navigate"})) {
		t.Fatal("navigate mode is a navigation")
	}
	if IsNavigation(newReq(t, http.MethodGet, "https://a.example/", nil)) {
		t.Fatal("plain GET is not a navigation")
	}
	if !IsAsset(newReq(t, http.MethodGet, "https://a.example/logo.svg", nil)) {
		t.Fatal("svg extension is an asset")
	}
	if IsAsset(newReq(t, http.MethodGet, "https://a.example/page.html", map[string]string{"Sec-Fetch-Dest": "document"})) {
		t.Fatal("document dest is not an asset")
	}
}

func TestDispositionString(t *testing.T) {
	want := map[Disposition]string{
		Ignore:               "ignore",
		CacheFirst:           "cache_first",
		NetworkFirst:         "network_first",
		StaleWhileRevalidate: "stale_while_revalidate",
	}
	for d, s := range want {
		if d.String() != s {
			t.Fatalf("String(%d): got %q, want %q", d, d.String(), s)
		}
	}
}

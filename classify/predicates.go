package classify

import (
	"net/http"
	"path"
	"strings"
)

// assetDests are the Sec-Fetch-Dest values treated as static assets.
var assetDests = map[string]struct{}{
	"style":  {},
	"script": {},
	"font":   {},
	"image":  {},
}

// assetExts maps file extensions to asset-ness when no Sec-Fetch-Dest header
// is present (non-browser clients).
var assetExts = map[string]struct{}{
	".css":   {},
	".js":    {},
	".mjs":   {},
	".woff":  {},
	".woff2": {},
	".ttf":   {},
	".otf":   {},
	".png":   {},
	".jpg":   {},
	".jpeg":  {},
	".gif":   {},
	".webp":  {},
	".svg":   {},
	".ico":   {},
}

// IsReadOnly reports whether req is a plain GET. HEAD and OPTIONS are
// deliberately excluded: only GET participates in caching, every other method
// passes through untouched.
func IsReadOnly(req *http.Request) bool {
	return req.Method == http.MethodGet
}

// IsInternalScheme reports whether req targets a scheme other than http or
// https (extension pages, about:, data:, …). Such requests are never cached.
func IsInternalScheme(req *http.Request) bool {
	if req.URL == nil {
		return true
	}
	switch strings.ToLower(req.URL.Scheme) {
	case "http", "https":
		return false
	default:
		return true
	}
}

// IsAsset reports whether req's declared resource kind is a static asset
// (stylesheet, script, font or image). The kind is read from Sec-Fetch-Dest;
// when the header is absent the URL's file extension is consulted instead.
func IsAsset(req *http.Request) bool {
	if dest := req.Header.Get("Sec-Fetch-Dest"); dest != "" {
		_, ok := assetDests[strings.ToLower(dest)]
		return ok
	}
	if req.URL == nil {
		return false
	}
	_, ok := assetExts[strings.ToLower(path.Ext(req.URL.Path))]
	return ok
}

// IsNavigation reports whether req is a top-level page navigation.
func IsNavigation(req *http.Request) bool {
	if strings.EqualFold(req.Header.Get("Sec-Fetch-Mode"), "navigate") {
		return true
	}
	return strings.EqualFold(req.Header.Get("Sec-Fetch-Dest"), "document")
}

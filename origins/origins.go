// Package origins tracks trusted external origins: third-party hosts (font
// CDNs and the like) whose requests are eligible for cache-first handling
// even though they are not part of the local precache manifest.
package origins

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Set holds the configured candidate origins and records which of them have
// actually served a successful fetch. Candidates are fixed at construction;
// the seen set is populated lazily as traffic arrives.
type Set struct {
	candidates []string

	mu   sync.RWMutex
	seen map[string]struct{}
}

// New creates a Set from the given origin strings. Each entry must be an
// absolute origin of the form scheme://host[:port]; paths, queries and
// fragments are rejected.
func New(candidates ...string) (*Set, error) {
	normalized := make([]string, 0, len(candidates))
	for _, c := range candidates {
		o, err := normalize(c)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, o)
	}
	return &Set{
		candidates: normalized,
		seen:       make(map[string]struct{}),
	}, nil
}

// normalize validates and canonicalizes an origin string.
func normalize(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("origins: invalid origin %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" || u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		return "", fmt.Errorf("origins: %q is not a bare origin", raw)
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), nil
}

// Match reports whether u's URL begins with one of the candidate origins.
func (s *Set) Match(u *url.URL) (origin string, ok bool) {
	if u == nil {
		return "", false
	}
	target := strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
	for _, c := range s.candidates {
		if target == c {
			return c, true
		}
	}
	return "", false
}

// MarkSeen records that origin has served a successful fetch. Unknown origins
// are ignored.
func (s *Set) MarkSeen(origin string) {
	for _, c := range s.candidates {
		if c != origin {
			continue
		}
		s.mu.Lock()
		s.seen[origin] = struct{}{}
		s.mu.Unlock()
		return
	}
}

// Seen reports whether origin has served at least one successful fetch since
// process start.
func (s *Set) Seen(origin string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[origin]
	return ok
}

// Candidates returns the configured origins in registration order.
func (s *Set) Candidates() []string {
	out := make([]string, len(s.candidates))
	copy(out, s.candidates)
	return out
}

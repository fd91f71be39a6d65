package origins

import (
	"net/url"
	"testing"
)

func TestNewNormalizes(t *testing.T) {
	s, err := New("HTTPS://Fonts.Example.COM", "http://cdn.example.org:8080")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := s.Candidates()
	want := []string{"https://fonts.example.com", "http://cdn.example.org:8080"}
	if len(got) != len(want) {
		t.Fatalf("Candidates: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Candidates[%d]: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewRejectsNonOrigins(t *testing.T) {
	for _, raw := range []string{
		"fonts.example.com",
		"https://fonts.example.com/css",
		"https://fonts.example.com?x=1",
		"https://fonts.example.com#frag",
		"",
	} {
		if _, err := New(raw); err == nil {
			t.Fatalf("New(%q): expected error", raw)
		}
	}
}

func TestMatch(t *testing.T) {
	s, err := New("https://fonts.example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	u, _ := url.Parse("HTTPS://FONTS.EXAMPLE.COM/css2?family=Inter")
	origin, ok := s.Match(u)
	if !ok || origin != "https://fonts.example.com" {
		t.Fatalf("Match: got (%q, %v), want trusted origin", origin, ok)
	}

	other, _ := url.Parse("https://evil.example.com/css2")
	if _, ok := s.Match(other); ok {
		t.Fatal("Match: unknown host matched")
	}
	if _, ok := s.Match(nil); ok {
		t.Fatal("Match: nil URL matched")
	}
}

func TestMarkSeen(t *testing.T) {
	s, err := New("https://fonts.example.com")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if s.Seen("https://fonts.example.com") {
		t.Fatal("Seen: true before any traffic")
	}
	s.MarkSeen("https://fonts.example.com")
	if !s.Seen("https://fonts.example.com") {
		t.Fatal("Seen: false after MarkSeen")
	}

	s.MarkSeen("https://unknown.example.com")
	if s.Seen("https://unknown.example.com") {
		t.Fatal("MarkSeen: recorded an origin outside the candidate set")
	}
}

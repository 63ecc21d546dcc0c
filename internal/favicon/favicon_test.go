package favicon

import (
	"strings"
	"testing"
)

func TestHue(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"", 0},
		{"A", 65},                  // 'A' = 65
		{"AB", 131},                // 65 + 66
		{"GitHub", (71 + 105 + 116 + 72 + 117 + 98) % 360},
	}
	for _, tt := range tests {
		if got := Hue(tt.name); got != tt.want {
			t.Errorf("Hue(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestHue_Stable(t *testing.T) {
	first := Hue("Example Account")
	for i := 0; i < 10; i++ {
		if got := Hue("Example Account"); got != first {
			t.Fatalf("Hue changed between calls: %d then %d", first, got)
		}
	}
}

func TestDomain(t *testing.T) {
	tests := []struct {
		website string
		want    string
	}{
		{"https://github.com/login", "github.com"},
		{"http://example.com", "example.com"},
		{"example.com", "example.com"},
		{"  Example.COM  ", "example.com"},
		{"sub.domain.co.uk/path?q=1", "sub.domain.co.uk"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Domain(tt.website); got != tt.want {
			t.Errorf("Domain(%q) = %q, want %q", tt.website, got, tt.want)
		}
	}
}

func TestURLForDomain(t *testing.T) {
	if got := URLForDomain("gmail.com"); !strings.Contains(got, "logo-gmail") {
		t.Errorf("gmail.com not routed to fixed logo: %q", got)
	}
	if got := URLForDomain("google.com"); !strings.Contains(got, "googleg") {
		t.Errorf("google.com not routed to fixed logo: %q", got)
	}
	if got := URLForDomain("github.com"); got != "https://icons.duckduckgo.com/ip3/github.com.ico" {
		t.Errorf("unexpected icon service URL: %q", got)
	}
	if got := URLForDomain(""); got != "" {
		t.Errorf("empty domain produced URL %q", got)
	}
}

func TestResolve_NoWebsiteIsAlwaysMonogram(t *testing.T) {
	icon := Resolve("GitHub", "")
	if !icon.Monogram {
		t.Fatalf("expected monogram for record without website, got %q", icon.URL)
	}
	if !strings.HasPrefix(icon.URL, "data:image/svg+xml,") {
		t.Errorf("monogram is not a data URL: %q", icon.URL)
	}
	if strings.Contains(icon.URL, "duckduckgo") {
		t.Errorf("monogram must never reference the icon service: %q", icon.URL)
	}
}

func TestResolve_WebsiteIsFavicon(t *testing.T) {
	icon := Resolve("GitHub", "github.com")
	if icon.Monogram {
		t.Fatal("expected favicon for record with website")
	}
	if !strings.Contains(icon.URL, "github.com.ico") {
		t.Errorf("unexpected favicon URL: %q", icon.URL)
	}
}

func TestMonogram_Deterministic(t *testing.T) {
	a := Monogram("GitHub")
	b := Monogram("GitHub")
	if a != b {
		t.Error("monogram differs between calls for the same name")
	}
	if !strings.Contains(a, "GI") {
		t.Errorf("monogram missing initials: %q", a)
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"GitHub", "GI"},
		{"x", "X"},
		{"", "??"},
	}
	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

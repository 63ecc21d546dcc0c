package passgen

import (
	"strings"
	"testing"
)

func TestGenerate_Length(t *testing.T) {
	for i := 0; i < 100; i++ {
		if p := Generate(); len(p) != Length {
			t.Fatalf("generated password %q has length %d, want %d", p, len(p), Length)
		}
	}
}

func TestGenerate_RequiredClasses(t *testing.T) {
	for i := 0; i < 100; i++ {
		p := Generate()
		if !strings.ContainsAny(p, lower) {
			t.Fatalf("password %q missing lowercase", p)
		}
		if !strings.ContainsAny(p, upper) {
			t.Fatalf("password %q missing uppercase", p)
		}
		if !strings.ContainsAny(p, digits) {
			t.Fatalf("password %q missing digit", p)
		}
		if !strings.ContainsAny(p, symbols) {
			t.Fatalf("password %q missing symbol", p)
		}
	}
}

func TestGenerate_CharsetOnly(t *testing.T) {
	p := Generate()
	for _, c := range p {
		if !strings.ContainsRune(charset, c) {
			t.Fatalf("password %q contains %q outside the charset", p, c)
		}
	}
}

func TestHasRequiredClasses(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"aB3!aB3!aB3!aB3!", true},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigitsHere!!", false},
		{"NoSymbols12345", false},
	}
	for _, tt := range tests {
		if got := HasRequiredClasses(tt.password); got != tt.want {
			t.Errorf("HasRequiredClasses(%q) = %v, want %v", tt.password, got, tt.want)
		}
	}
}

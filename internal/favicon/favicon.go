// Package favicon resolves the icon shown for an account record: a
// favicon fetched from a third-party icon service when the record has a
// website, or a deterministic generated monogram otherwise. Resolution
// is a pure two-step function evaluated before render; there is no
// runtime fallback hook.
package favicon

import (
	"fmt"
	"net/url"
	"strings"
)

const iconService = "https://icons.duckduckgo.com/ip3/%s.ico"

// Fixed logos for services whose favicons the icon service resolves badly.
const (
	gmailLogo  = "https://www.google.com/gmail/about/static/images/logo-gmail.png?cache=1adba63"
	googleLogo = "https://www.google.com/images/branding/googleg/1x/googleg_standard_color_128dp.png"
)

// Icon is the resolved icon for one record.
type Icon struct {
	// URL points at the image to display: either a remote favicon or a
	// data: URL holding the generated monogram.
	URL string
	// Monogram is true when URL is the generated fallback.
	Monogram bool
}

// Domain extracts the hostname from a website string. The scheme may be
// omitted; https is assumed. Returns "" when no hostname can be derived.
func Domain(website string) string {
	website = strings.ToLower(strings.TrimSpace(website))
	if website == "" {
		return ""
	}
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		website = "https://" + website
	}
	u, err := url.Parse(website)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// URLForDomain returns the favicon URL for a domain, routing known
// services to fixed logos. Returns "" for an empty domain.
func URLForDomain(domain string) string {
	if domain == "" {
		return ""
	}
	if strings.Contains(domain, "gmail.com") {
		return gmailLogo
	}
	if strings.Contains(domain, "google.com") {
		return googleLogo
	}
	return fmt.Sprintf(iconService, domain)
}

// URLForWebsite derives a favicon URL straight from a website string.
// Returns "" when the website yields no domain.
func URLForWebsite(website string) string {
	return URLForDomain(Domain(website))
}

// Hue maps a record name onto 0..359 by summing its character codes.
// Stable across calls so a record always renders the same color.
func Hue(name string) int {
	sum := 0
	for _, r := range name {
		sum += int(r)
	}
	return sum % 360
}

// Color returns the monogram background as an HSL color string at fixed
// saturation and lightness.
func Color(name string) string {
	return fmt.Sprintf("hsl(%d, 65%%, 45%%)", Hue(name))
}

// Initials returns the first two letters of the name, upper-cased.
// Empty names render as "??".
func Initials(name string) string {
	if name == "" {
		return "??"
	}
	r := []rune(name)
	if len(r) > 2 {
		r = r[:2]
	}
	return strings.ToUpper(string(r))
}

// Monogram builds the generated fallback icon for a name: a small
// colored square carrying the initials, encoded as an SVG data URL.
func Monogram(name string) string {
	svg := fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 40">`+
			`<rect width="40" height="40" fill="%s" rx="4"/>`+
			`<text x="50%%" y="50%%" font-family="Arial" font-size="20" fill="white" text-anchor="middle" dy=".3em" font-weight="bold">%s</text>`+
			`</svg>`,
		Color(name), Initials(name),
	)
	return "data:image/svg+xml," + url.PathEscape(svg)
}

// Resolve picks the icon for a record: favicon when a domain can be
// derived from the website, generated monogram otherwise.
func Resolve(name, website string) Icon {
	if u := URLForWebsite(website); u != "" {
		return Icon{URL: u}
	}
	return Icon{URL: Monogram(name), Monogram: true}
}

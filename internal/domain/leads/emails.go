package leads

import (
	"errors"
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
)

// ErrNoDomain is returned when no registrable domain can be derived.
var ErrNoDomain = errors.New("no registrable domain")

// DomainFromWebsite reduces a website URL to its registrable domain, so
// "https://www.shop.acme.co.uk/about" becomes "acme.co.uk".
func DomainFromWebsite(website string) (string, error) {
	website = strings.TrimSpace(website)
	if website == "" {
		return "", ErrNoDomain
	}
	if !strings.Contains(website, "://") {
		website = "http://" + website
	}
	u, err := url.Parse(website)
	if err != nil {
		return "", ErrNoDomain
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" || !strings.Contains(host, ".") {
		return "", ErrNoDomain
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", ErrNoDomain
	}
	return domain, nil
}

// DomainFromEmail returns the part after "@".
func DomainFromEmail(email string) string {
	_, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok {
		return ""
	}
	return strings.ToLower(domain)
}

// GuessEmails returns common mailbox patterns for a person at domain, most
// specific first: first.last, first, flast, info.
func GuessEmails(first, last, domain string) []string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil
	}
	first = localPart(first)
	last = localPart(last)

	var locals []string
	if first != "" && last != "" {
		locals = append(locals, first+"."+last)
	}
	if first != "" {
		locals = append(locals, first)
	}
	if first != "" && last != "" {
		locals = append(locals, first[:1]+last)
	}
	locals = append(locals, "info")

	out := make([]string, 0, len(locals))
	seen := make(map[string]struct{}, len(locals))
	for _, l := range locals {
		addr := l + "@" + domain
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		out = append(out, addr)
	}
	return out
}

func localPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

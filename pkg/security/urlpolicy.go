// Package security implements the URL access policy applied before the
// browser is allowed to navigate. Patterns are globs matched against the
// full URL; denied patterns take precedence over allowed ones, and an empty
// allow list permits everything not denied.
package security

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// URLPolicy handles glob pattern matching for navigation access control.
type URLPolicy struct {
	allowedPatterns []glob.Glob
	deniedPatterns  []glob.Glob
}

// NewURLPolicy compiles allowed and denied URL patterns into a policy.
func NewURLPolicy(allowed, denied []string) (*URLPolicy, error) {
	p := &URLPolicy{}

	for _, pattern := range allowed {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed pattern '%s': %w", pattern, err)
		}
		p.allowedPatterns = append(p.allowedPatterns, g)
	}

	for _, pattern := range denied {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid denied pattern '%s': %w", pattern, err)
		}
		p.deniedPatterns = append(p.deniedPatterns, g)
	}

	return p, nil
}

// Check returns an error when rawURL must not be navigated to. Only http and
// https URLs are ever permitted.
func (p *URLPolicy) Check(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("scheme %q is not allowed: only http and https URLs can be opened", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL %q has no host", rawURL)
	}

	if !p.isAllowed(rawURL) {
		return fmt.Errorf("URL %q is blocked by the configured access policy", rawURL)
	}
	return nil
}

// isAllowed applies the pattern rules. Denied patterns take precedence; an
// empty allow list allows all.
func (p *URLPolicy) isAllowed(rawURL string) bool {
	for _, pattern := range p.deniedPatterns {
		if pattern.Match(rawURL) {
			return false
		}
	}

	if len(p.allowedPatterns) == 0 {
		return true
	}

	for _, pattern := range p.allowedPatterns {
		if pattern.Match(rawURL) {
			return true
		}
	}

	return false
}

package config

import (
	"fmt"
	"sync"

	"github.com/gobwas/glob"
)

// SectionIDSecurity is the identifier for the security settings section
const SectionIDSecurity = "security"

// SecuritySection manages the URL access policy settings. The patterns are
// compiled and enforced by the security package; this section only stores
// and validates them.
type SecuritySection struct {
	AllowedURLs []string
	DeniedURLs  []string
	mu          sync.RWMutex
}

// NewSecuritySection creates a security section with default settings:
// no allow list (everything permitted) and no deny list.
func NewSecuritySection() *SecuritySection {
	return &SecuritySection{}
}

// ID returns the section identifier.
func (s *SecuritySection) ID() string {
	return SectionIDSecurity
}

// Data returns the current configuration data.
func (s *SecuritySection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"allowed_urls": append([]string(nil), s.AllowedURLs...),
		"denied_urls":  append([]string(nil), s.DeniedURLs...),
	}
}

// SetData updates the configuration from the provided data.
func (s *SecuritySection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "allowed_urls":
			patterns, err := asStringSlice(key, value)
			if err != nil {
				return err
			}
			s.AllowedURLs = patterns

		case "denied_urls":
			patterns, err := asStringSlice(key, value)
			if err != nil {
				return err
			}
			s.DeniedURLs = patterns
		}
	}

	return nil
}

// Validate checks that every configured pattern compiles.
func (s *SecuritySection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pattern := range s.AllowedURLs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid allowed_urls pattern '%s': %w", pattern, err)
		}
	}
	for _, pattern := range s.DeniedURLs {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid denied_urls pattern '%s': %w", pattern, err)
		}
	}
	return nil
}

// Patterns returns copies of the allowed and denied pattern lists.
func (s *SecuritySection) Patterns() (allowed, denied []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.AllowedURLs...), append([]string(nil), s.DeniedURLs...)
}

// asStringSlice converts YAML list representations to []string.
func asStringSlice(key string, value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("invalid value in %s: expected string, got %T", key, item)
			}
			out = append(out, str)
		}
		return out, nil
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid value type for %s: expected list of strings, got %T", key, value)
	}
}

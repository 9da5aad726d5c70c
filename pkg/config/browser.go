package config

import (
	"fmt"
	"sync"
	"time"
)

const (
	// SectionIDBrowser is the identifier for the browser settings section
	SectionIDBrowser = "browser"

	// Default values for browser settings
	defaultHeadless       = true
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
	defaultTimeoutMs      = 30000
	defaultMaxSessions    = 5
	defaultIdleTimeout    = 5 * time.Minute
	defaultConsoleBuffer  = 500
	defaultMaxScreenshots = 50

	minViewportDimension = 100
	maxViewportDimension = 5000
)

// BrowserSection manages browser runtime configuration. Persistence goes
// through the Data/SetData map round-trip, not struct marshalling.
type BrowserSection struct {
	Headless       bool
	ViewportWidth  int
	ViewportHeight int
	TimeoutMs      int
	MaxSessions    int
	IdleTimeout    time.Duration
	ScreenshotDir  string
	ConsoleBuffer  int
	MaxScreenshots int
	mu             sync.RWMutex
}

// NewBrowserSection creates a browser section with default settings.
func NewBrowserSection() *BrowserSection {
	return &BrowserSection{
		Headless:       defaultHeadless,
		ViewportWidth:  defaultViewportWidth,
		ViewportHeight: defaultViewportHeight,
		TimeoutMs:      defaultTimeoutMs,
		MaxSessions:    defaultMaxSessions,
		IdleTimeout:    defaultIdleTimeout,
		ConsoleBuffer:  defaultConsoleBuffer,
		MaxScreenshots: defaultMaxScreenshots,
	}
}

// ID returns the section identifier.
func (s *BrowserSection) ID() string {
	return SectionIDBrowser
}

// Data returns the current configuration data.
func (s *BrowserSection) Data() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]any{
		"headless":        s.Headless,
		"viewport_width":  s.ViewportWidth,
		"viewport_height": s.ViewportHeight,
		"timeout_ms":      s.TimeoutMs,
		"max_sessions":    s.MaxSessions,
		"idle_timeout":    s.IdleTimeout.String(),
		"screenshot_dir":  s.ScreenshotDir,
		"console_buffer":  s.ConsoleBuffer,
		"max_screenshots": s.MaxScreenshots,
	}
}

// SetData updates the configuration from the provided data.
func (s *BrowserSection) SetData(data map[string]any) error {
	if data == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, value := range data {
		switch key {
		case "headless":
			enabled, ok := value.(bool)
			if !ok {
				return fmt.Errorf("invalid value type for headless: expected bool, got %T", value)
			}
			s.Headless = enabled

		case "viewport_width":
			n, err := asInt(key, value)
			if err != nil {
				return err
			}
			s.ViewportWidth = n

		case "viewport_height":
			n, err := asInt(key, value)
			if err != nil {
				return err
			}
			s.ViewportHeight = n

		case "timeout_ms":
			n, err := asInt(key, value)
			if err != nil {
				return err
			}
			s.TimeoutMs = n

		case "max_sessions":
			n, err := asInt(key, value)
			if err != nil {
				return err
			}
			s.MaxSessions = n

		case "idle_timeout":
			d, err := asDuration(key, value)
			if err != nil {
				return err
			}
			s.IdleTimeout = d

		case "screenshot_dir":
			dir, ok := value.(string)
			if !ok {
				return fmt.Errorf("invalid value type for screenshot_dir: expected string, got %T", value)
			}
			s.ScreenshotDir = dir

		case "console_buffer":
			n, err := asInt(key, value)
			if err != nil {
				return err
			}
			s.ConsoleBuffer = n

		case "max_screenshots":
			n, err := asInt(key, value)
			if err != nil {
				return err
			}
			s.MaxScreenshots = n
		}
	}

	return nil
}

// Validate checks the browser settings for consistency.
func (s *BrowserSection) Validate() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ViewportWidth < minViewportDimension || s.ViewportWidth > maxViewportDimension {
		return fmt.Errorf("viewport_width must be between %d and %d pixels", minViewportDimension, maxViewportDimension)
	}
	if s.ViewportHeight < minViewportDimension || s.ViewportHeight > maxViewportDimension {
		return fmt.Errorf("viewport_height must be between %d and %d pixels", minViewportDimension, maxViewportDimension)
	}
	if s.TimeoutMs <= 0 {
		return fmt.Errorf("timeout_ms must be positive")
	}
	if s.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive")
	}
	if s.IdleTimeout <= 0 {
		return fmt.Errorf("idle_timeout must be positive")
	}
	if s.ConsoleBuffer <= 0 {
		return fmt.Errorf("console_buffer must be positive")
	}
	if s.MaxScreenshots <= 0 {
		return fmt.Errorf("max_screenshots must be positive")
	}
	return nil
}

// IsHeadless returns the default headless mode for new sessions.
func (s *BrowserSection) IsHeadless() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Headless
}

// Viewport returns the configured viewport dimensions.
func (s *BrowserSection) Viewport() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ViewportWidth, s.ViewportHeight
}

// Timeout returns the default operation timeout.
func (s *BrowserSection) Timeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// asInt converts YAML scalar representations to int.
func asInt(key string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected int, got %T", key, value)
	}
}

// asDuration accepts duration strings ("5m") and raw nanosecond counts.
func asDuration(key string, value any) (time.Duration, error) {
	switch v := value.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("invalid duration string for %s: %w", key, err)
		}
		return d, nil
	case int:
		return time.Duration(v), nil
	case int64:
		return time.Duration(v), nil
	case float64:
		return time.Duration(v), nil
	default:
		return 0, fmt.Errorf("invalid value type for %s: expected duration, got %T", key, value)
	}
}

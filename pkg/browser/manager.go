package browser

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// SessionManager manages all active browser sessions. It owns the shared
// Playwright driver and enforces the session cap and idle timeout.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	maxSessions int
	idleTimeout time.Duration
	defaults    SessionOptions
	initialized bool
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
		idleTimeout: time.Duration(DefaultIdleTimeout) * time.Second,
		defaults: SessionOptions{
			Headless: true,
			Viewport: &Viewport{
				Width:  DefaultViewportWidth,
				Height: DefaultViewportHeight,
			},
			Timeout:         DefaultTimeout,
			ConsoleCapacity: DefaultConsoleCapacity,
		},
	}
}

// Initialize installs and starts the Playwright driver. It must be called
// before any session is created. Driver output is discarded so it cannot
// corrupt the stdio transport.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// StartSession creates a new browser session with the given name and options.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startSessionLocked(name, opts)
}

func (m *SessionManager) startSessionLocked(name string, opts SessionOptions) (*Session, error) {
	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}

	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}

	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}

	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ConsoleCapacity == 0 {
		opts.ConsoleCapacity = DefaultConsoleCapacity
	}

	browser, err := m.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(opts.Timeout)

	now := time.Now()
	session := &Session{
		Name:       name,
		Browser:    browser,
		Context:    browserCtx,
		Page:       page,
		Headless:   opts.Headless,
		CreatedAt:  now,
		Console:    NewConsoleBuffer(opts.ConsoleCapacity),
		lastUsedAt: now,
		currentURL: "about:blank",
	}

	// Mirror page console output into the session buffer so it can be
	// served as a resource after the fact.
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		session.Console.Append(ConsoleEntry{
			Level:     msg.Type(),
			Text:      msg.Text(),
			URL:       page.URL(),
			Timestamp: time.Now(),
		})
	})

	m.sessions[name] = session
	return session, nil
}

// EnsureSession returns the named session. An empty name resolves to the
// default session, which is created lazily with the manager defaults on
// first use (initializing the Playwright driver if needed). Any other name
// must refer to a session opened explicitly with OpenSession; unknown names
// are an error rather than a silent browser launch.
func (m *SessionManager) EnsureSession(name string) (*Session, error) {
	if name == "" {
		name = DefaultSessionName
	}

	m.mu.RLock()
	session, exists := m.sessions[name]
	m.mu.RUnlock()
	if exists {
		return session, nil
	}

	if name != DefaultSessionName {
		return nil, fmt.Errorf("session %q not found", name)
	}

	if err := m.Initialize(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if session, exists = m.sessions[name]; exists {
		return session, nil
	}
	return m.startSessionLocked(name, m.defaults)
}

// OpenSession explicitly creates a named session, initializing the
// Playwright driver if needed. An empty name resolves to the default
// session name.
func (m *SessionManager) OpenSession(name string, opts SessionOptions) (*Session, error) {
	if name == "" {
		name = DefaultSessionName
	}

	if err := m.Initialize(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startSessionLocked(name, opts)
}

// GetSession retrieves an active session by name. An empty name resolves to
// the default session.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	if name == "" {
		name = DefaultSessionName
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}

	return session, nil
}

// CloseSession closes and removes a browser session. It waits for any
// in-flight operation on the session to finish before releasing resources.
func (m *SessionManager) CloseSession(name string) error {
	if name == "" {
		name = DefaultSessionName
	}

	m.mu.Lock()
	session, exists := m.sessions[name]
	if !exists {
		m.mu.Unlock()
		return fmt.Errorf("session %q not found", name)
	}
	delete(m.sessions, name)
	m.mu.Unlock()

	session.close()
	return nil
}

// SessionInfo contains metadata about a browser session.
type SessionInfo struct {
	Name       string
	CurrentURL string
	Headless   bool
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// ListSessions returns information about all active sessions.
func (m *SessionManager) ListSessions() []SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(m.sessions))
	for _, session := range m.sessions {
		infos = append(infos, SessionInfo{
			Name:       session.Name,
			CurrentURL: session.CurrentURL(),
			Headless:   session.Headless,
			CreatedAt:  session.CreatedAt,
			LastUsedAt: session.LastUsed(),
		})
	}

	return infos
}

// HasSessions returns true if there are any active sessions.
func (m *SessionManager) HasSessions() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions) > 0
}

// CleanupIdleSessions closes sessions that have been idle for longer than
// the configured timeout. Sessions with an operation in flight are left
// alone and picked up on a later sweep.
func (m *SessionManager) CleanupIdleSessions() {
	m.mu.RLock()
	cutoff := time.Now().Add(-m.idleTimeout)
	candidates := make(map[string]*Session, len(m.sessions))
	for name, session := range m.sessions {
		candidates[name] = session
	}
	m.mu.RUnlock()

	for name, session := range candidates {
		if !session.tryCloseIfIdleSince(cutoff) {
			continue
		}
		m.mu.Lock()
		if m.sessions[name] == session {
			delete(m.sessions, name)
		}
		m.mu.Unlock()
	}
}

// RunIdleSweep periodically closes idle sessions until ctx is cancelled.
func (m *SessionManager) RunIdleSweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CleanupIdleSessions()
		}
	}
}

// Shutdown closes all sessions and stops the Playwright driver. Sessions
// with an operation in flight are closed once the operation finishes.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	pw := m.playwright
	initialized := m.initialized
	m.playwright = nil
	m.initialized = false
	m.mu.Unlock()

	for _, session := range sessions {
		session.close()
	}

	if initialized && pw != nil {
		if err := pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
	}

	return nil
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if max > 0 {
		m.maxSessions = max
	}
}

// SetIdleTimeout sets the idle timeout duration.
func (m *SessionManager) SetIdleTimeout(timeout time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if timeout > 0 {
		m.idleTimeout = timeout
	}
}

// SetSessionDefaults sets the options applied to lazily created sessions.
func (m *SessionManager) SetSessionDefaults(opts SessionOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaults = opts
}

// SessionDefaults returns a copy of the options applied to lazily created
// sessions.
func (m *SessionManager) SessionDefaults() SessionOptions {
	m.mu.RLock()
	defer m.mu.RUnlock()

	opts := m.defaults
	if opts.Viewport != nil {
		viewport := *opts.Viewport
		opts.Viewport = &viewport
	}
	return opts
}

package browser

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// beginOp acquires the operation lock and stamps the session as used.
// Callers must invoke the returned release function when the operation
// finishes. Fails if the session has already been closed.
func (s *Session) beginOp() (func(), error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("session %q is closed", s.Name)
	}
	s.UpdateLastUsed()
	return s.mu.Unlock, nil
}

// UpdateLastUsed updates the last-used timestamp to the current time.
func (s *Session) UpdateLastUsed() {
	s.stateMu.Lock()
	s.lastUsedAt = time.Now()
	s.stateMu.Unlock()
}

// LastUsed returns the timestamp of the last operation on this session.
func (s *Session) LastUsed() time.Time {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.lastUsedAt
}

// CurrentURL returns the URL of the current page as of the last operation.
func (s *Session) CurrentURL() string {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.currentURL
}

func (s *Session) setCurrentURL(url string) {
	s.stateMu.Lock()
	s.currentURL = url
	s.stateMu.Unlock()
}

// close releases the session's browser resources, waiting for any in-flight
// operation to finish first. Safe to call more than once.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.releaseLocked()
}

// tryCloseIfIdleSince closes the session if no operation is in flight and it
// has not been used after cutoff. Returns true when the session is closed
// (now or previously) and may be removed from the manager.
func (s *Session) tryCloseIfIdleSince(cutoff time.Time) bool {
	if !s.mu.TryLock() {
		// Operation in flight; not idle.
		return false
	}
	defer s.mu.Unlock()
	if s.closed {
		return true
	}
	if s.LastUsed().After(cutoff) {
		return false
	}
	s.closed = true
	s.releaseLocked()
	return true
}

func (s *Session) releaseLocked() {
	if s.Page != nil {
		_ = s.Page.Close()
	}
	if s.Context != nil {
		_ = s.Context.Close()
	}
	if s.Browser != nil {
		_ = s.Browser.Close()
	}
}

// Navigate navigates the session's page to the specified URL.
func (s *Session) Navigate(url string, opts NavigateOptions) error {
	done, err := s.beginOp()
	if err != nil {
		return err
	}
	defer done()

	playwrightOpts := playwright.PageGotoOptions{}

	if opts.WaitUntil != "" {
		waitUntil := playwright.WaitUntilState(opts.WaitUntil)
		playwrightOpts.WaitUntil = &waitUntil
	}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.Goto(url, playwrightOpts); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}

	s.setCurrentURL(s.Page.URL())
	return nil
}

// Click clicks an element matching the selector.
func (s *Session) Click(opts ClickOptions) error {
	done, err := s.beginOp()
	if err != nil {
		return err
	}
	defer done()

	playwrightOpts := playwright.PageClickOptions{}

	if opts.Button != "" {
		button := playwright.MouseButton(opts.Button)
		playwrightOpts.Button = &button
	}

	if opts.ClickCount > 0 {
		playwrightOpts.ClickCount = &opts.ClickCount
	}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Click(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}

	// Clicks can trigger navigation
	s.setCurrentURL(s.Page.URL())
	return nil
}

// Fill fills an input element with the specified value.
func (s *Session) Fill(opts FillOptions) error {
	done, err := s.beginOp()
	if err != nil {
		return err
	}
	defer done()

	playwrightOpts := playwright.PageFillOptions{}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Fill(opts.Selector, opts.Value, playwrightOpts); err != nil {
		return fmt.Errorf("fill failed: %w", err)
	}

	return nil
}

// Hover moves the mouse over an element matching the selector.
func (s *Session) Hover(opts HoverOptions) error {
	done, err := s.beginOp()
	if err != nil {
		return err
	}
	defer done()

	playwrightOpts := playwright.PageHoverOptions{}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if err := s.Page.Hover(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("hover failed: %w", err)
	}

	return nil
}

// SelectOption selects options in a <select> element and returns the values
// that were actually selected.
func (s *Session) SelectOption(opts SelectOptions) ([]string, error) {
	done, err := s.beginOp()
	if err != nil {
		return nil, err
	}
	defer done()

	playwrightOpts := playwright.PageSelectOptionOptions{}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	selected, err := s.Page.SelectOption(opts.Selector, playwright.SelectOptionValues{
		Values: &opts.Values,
	}, playwrightOpts)
	if err != nil {
		return nil, fmt.Errorf("select option failed: %w", err)
	}

	return selected, nil
}

// Evaluate executes JavaScript in the page and returns the result rendered
// as a string (JSON for structured values).
func (s *Session) Evaluate(code string, timeout float64) (string, error) {
	done, err := s.beginOp()
	if err != nil {
		return "", err
	}
	defer done()

	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	result, err := s.Page.Evaluate(code, nil, timeout)
	if err != nil {
		return "", fmt.Errorf("JavaScript execution failed: %w", err)
	}

	if result == nil {
		return "undefined", nil
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", result), nil
	}
	return string(jsonBytes), nil
}

// Screenshot captures the page (or a single element) as PNG bytes.
func (s *Session) Screenshot(opts ScreenshotOptions) ([]byte, error) {
	done, err := s.beginOp()
	if err != nil {
		return nil, err
	}
	defer done()

	if opts.Selector != "" {
		element, err := s.Page.QuerySelector(opts.Selector)
		if err != nil {
			return nil, fmt.Errorf("selector query failed: %w", err)
		}
		if element == nil {
			return nil, fmt.Errorf("no element found matching selector: %s", opts.Selector)
		}

		elementOpts := playwright.ElementHandleScreenshotOptions{}
		if opts.Timeout > 0 {
			elementOpts.Timeout = &opts.Timeout
		}

		data, err := element.Screenshot(elementOpts)
		if err != nil {
			return nil, fmt.Errorf("element screenshot failed: %w", err)
		}
		return data, nil
	}

	data, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: &opts.FullPage,
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return data, nil
}

// Wait waits for an element to reach the requested state.
func (s *Session) Wait(opts WaitOptions) error {
	if opts.Selector == "" {
		return fmt.Errorf("selector is required for wait")
	}

	done, err := s.beginOp()
	if err != nil {
		return err
	}
	defer done()

	playwrightOpts := playwright.PageWaitForSelectorOptions{}

	if opts.State != "" {
		state := playwright.WaitForSelectorState(opts.State)
		playwrightOpts.State = &state
	}

	if opts.Timeout > 0 {
		playwrightOpts.Timeout = &opts.Timeout
	}

	if _, err := s.Page.WaitForSelector(opts.Selector, playwrightOpts); err != nil {
		return fmt.Errorf("wait failed: %w", err)
	}

	return nil
}

// GetMetadata returns current page metadata.
func (s *Session) GetMetadata() (map[string]string, error) {
	done, err := s.beginOp()
	if err != nil {
		return nil, err
	}
	defer done()

	title, err := s.Page.Title()
	if err != nil {
		title = ""
	}

	return map[string]string{
		"title": title,
		"url":   s.Page.URL(),
	}, nil
}

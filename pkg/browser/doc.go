// Package browser provides web browser automation through Playwright.
//
// The package is built around three core concepts:
//
//  1. Session: a Playwright browser instance with its context and page,
//     plus a console buffer mirroring the page's console output
//  2. SessionManager: registry of named sessions with lazy driver startup,
//     a session cap, and idle-timeout cleanup
//  3. ScreenshotStore: bounded, name-addressed store of captured PNGs
//
// # Session lifecycle
//
// The default session is created lazily: the first operation that names no
// session creates it with the manager's configured defaults. Any other
// session must be opened explicitly with OpenSession before use. Sessions
// idle past the timeout are closed by the sweep, which skips sessions with
// an operation in flight; Shutdown closes everything and stops the driver.
//
// # Resource limits
//
// The manager enforces a maximum session count, each console buffer is a
// bounded ring, and the screenshot store evicts its oldest entry when full.
//
// # Example usage
//
//	manager := browser.NewSessionManager()
//	session, err := manager.OpenSession("research", manager.SessionDefaults())
//	if err != nil { ... }
//
//	err = session.Navigate("https://example.com", browser.NavigateOptions{
//	    WaitUntil: "networkidle",
//	})
//	data, err := session.Screenshot(browser.ScreenshotOptions{
//	    Name:     "landing",
//	    FullPage: true,
//	})
//
//	manager.Shutdown()
package browser

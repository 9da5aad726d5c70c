package browser

import (
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated resources.
//
// Page operations and session close are serialized through an internal
// operation lock, so the idle sweep can never tear down a browser while a
// navigation or click is in flight.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated session)
	Context playwright.BrowserContext

	// Page is the current active page
	Page playwright.Page

	// Headless indicates if the browser is running in headless mode
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time

	// Console collects console output emitted by pages in this session
	Console *ConsoleBuffer

	// mu serializes page operations with each other and with close
	mu sync.Mutex

	// closed is set once the session's resources have been released;
	// guarded by mu
	closed bool

	// stateMu guards the fields below so the manager can read them
	// without waiting on a long-running page operation
	stateMu    sync.Mutex
	lastUsedAt time.Time
	currentURL string
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64

	// ConsoleCapacity bounds the per-session console buffer (entries)
	ConsoleCapacity int
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// NavigateOptions configures page navigation behavior.
type NavigateOptions struct {
	// WaitUntil specifies when to consider navigation successful
	// Valid values: "load", "domcontentloaded", "networkidle"
	WaitUntil string

	// Timeout in milliseconds (0 means default)
	Timeout float64
}

// ClickOptions configures element clicking behavior.
type ClickOptions struct {
	// Selector identifies the element to click
	Selector string

	// Button specifies which mouse button to use (left, right, middle)
	Button string

	// ClickCount is the number of times to click (1 for single, 2 for double)
	ClickCount int

	// Timeout in milliseconds
	Timeout float64
}

// FillOptions configures form input filling.
type FillOptions struct {
	// Selector identifies the input element
	Selector string

	// Value is the text to fill
	Value string

	// Timeout in milliseconds
	Timeout float64
}

// HoverOptions configures element hovering.
type HoverOptions struct {
	// Selector identifies the element to hover over
	Selector string

	// Timeout in milliseconds
	Timeout float64
}

// SelectOptions configures dropdown option selection.
type SelectOptions struct {
	// Selector identifies the select element
	Selector string

	// Values are the option values to select
	Values []string

	// Timeout in milliseconds
	Timeout float64
}

// ScreenshotOptions configures screenshot capture.
type ScreenshotOptions struct {
	// Name identifies the screenshot in the store
	Name string

	// Selector optionally limits the capture to a single element
	Selector string

	// FullPage captures the entire scrollable page instead of the viewport
	FullPage bool

	// Timeout in milliseconds (element screenshots only)
	Timeout float64
}

// WaitOptions configures waiting behavior.
type WaitOptions struct {
	// Selector to wait for
	Selector string

	// State to wait for: "attached", "detached", "visible", "hidden"
	State string

	// Timeout in milliseconds
	Timeout float64
}

// ExtractFormat specifies the format for content extraction.
type ExtractFormat string

const (
	// FormatMarkdown extracts content as Markdown (default)
	FormatMarkdown ExtractFormat = "markdown"

	// FormatText extracts plain text only
	FormatText ExtractFormat = "text"

	// FormatHTML extracts cleaned HTML with scripts and styles removed
	FormatHTML ExtractFormat = "html"
)

// ExtractOptions configures content extraction.
type ExtractOptions struct {
	// Format specifies the extraction format
	Format ExtractFormat

	// Selector optionally limits extraction to matching elements
	Selector string

	// MaxLength limits the extracted content length (characters)
	MaxLength int
}

// Default values for various operations
const (
	DefaultTimeout         = 30000.0 // 30 seconds in milliseconds
	DefaultMaxLength       = 10000   // 10,000 characters
	DefaultViewportWidth   = 1280
	DefaultViewportHeight  = 720
	DefaultMaxSessions     = 5
	DefaultIdleTimeout     = 300 // 5 minutes in seconds
	DefaultConsoleCapacity = 500
	DefaultSessionName     = "default"
)

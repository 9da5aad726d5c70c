// Package mcpserver exposes browser automation over the Model Context
// Protocol. Tools cover page interaction (navigate, click, fill, hover,
// select, evaluate, screenshot, wait, extract) and session lifecycle (open,
// list, close); captured console output and
// screenshots are published as resources. The server speaks stdio transport,
// so nothing in this package may write to stdout.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/pilot/pkg/browser"
	"github.com/entrhq/pilot/pkg/logging"
	"github.com/entrhq/pilot/pkg/security"
)

// ServerName identifies this implementation to MCP clients.
const ServerName = "pilot-browser-server"

// Server wires the browser session manager, screenshot store, and URL
// policy into an MCP server instance.
type Server struct {
	mcp     *mcp.Server
	manager *browser.SessionManager
	shots   *browser.ScreenshotStore
	policy  *security.URLPolicy
	log     *logging.Logger
}

// Options carries the dependencies for a Server.
type Options struct {
	Version string
	Manager *browser.SessionManager
	Shots   *browser.ScreenshotStore
	Policy  *security.URLPolicy
	Logger  *logging.Logger
}

// New builds a Server and registers all tools and resources.
func New(opts Options) *Server {
	s := &Server{
		manager: opts.Manager,
		shots:   opts.Shots,
		policy:  opts.Policy,
		log:     opts.Logger,
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: opts.Version,
	}, nil)

	s.registerTools()
	s.registerResources()
	return s
}

// registerTools registers the browser tool set.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_navigate",
		Description: "Navigate the browser to a URL and wait for the page to load.",
	}, s.handleNavigate)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_screenshot",
		Description: "Capture a screenshot of the current page or a single element. The image is returned and also stored under the given name, retrievable later via the screenshot:// resource.",
	}, s.handleScreenshot)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_click",
		Description: "Click an element matching a CSS selector.",
	}, s.handleClick)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_fill",
		Description: "Fill an input, textarea, or contenteditable element with a value.",
	}, s.handleFill)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_hover",
		Description: "Move the mouse over an element matching a CSS selector.",
	}, s.handleHover)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_select_option",
		Description: "Select one or more options in a <select> element by value.",
	}, s.handleSelectOption)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_evaluate",
		Description: "Execute JavaScript in the page and return the result. For complex operations, wrap the code in an IIFE: (function() { /* code */ })();",
	}, s.handleEvaluate)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_wait",
		Description: "Wait for an element matching a CSS selector to reach a state (attached, detached, visible, hidden).",
	}, s.handleWait)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_extract",
		Description: "Extract cleaned page content as markdown, plain text, or stripped HTML.",
	}, s.handleExtract)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_open_session",
		Description: "Open a named browser session. Only the default session is created automatically; any other session must be opened with this tool before use.",
	}, s.handleOpenSession)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_list_sessions",
		Description: "List active browser sessions with their current URL and last-used time.",
	}, s.handleListSessions)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "browser_close_session",
		Description: "Close a browser session and release its browser resources.",
	}, s.handleCloseSession)
}

// Run serves MCP over stdio until ctx is cancelled, then shuts the browser
// manager down.
func (s *Server) Run(ctx context.Context) error {
	s.log.Infof("serving MCP on stdio transport")
	err := s.mcp.Run(ctx, &mcp.StdioTransport{})
	if shutdownErr := s.manager.Shutdown(); shutdownErr != nil {
		s.log.Errorf("browser shutdown: %v", shutdownErr)
	}
	return err
}

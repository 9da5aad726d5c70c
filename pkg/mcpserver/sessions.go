package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

const (
	minViewportDimension = 100
	maxViewportDimension = 5000
)

// OpenSessionParams are the arguments for browser_open_session.
type OpenSessionParams struct {
	Name     string `json:"name" jsonschema:"Name for the new browser session"`
	Headless *bool  `json:"headless,omitempty" jsonschema:"Run the browser headless; defaults to the configured mode"`
	Width    int    `json:"width,omitempty" jsonschema:"Viewport width in pixels"`
	Height   int    `json:"height,omitempty" jsonschema:"Viewport height in pixels"`
}

func (s *Server) handleOpenSession(ctx context.Context, req *mcp.CallToolRequest, params OpenSessionParams) (*mcp.CallToolResult, any, error) {
	if params.Name == "" {
		return nil, nil, fmt.Errorf("name is required")
	}
	if err := validateViewportDimension("width", params.Width); err != nil {
		return nil, nil, err
	}
	if err := validateViewportDimension("height", params.Height); err != nil {
		return nil, nil, err
	}

	opts := s.manager.SessionDefaults()
	if opts.Viewport == nil {
		opts.Viewport = &browser.Viewport{
			Width:  browser.DefaultViewportWidth,
			Height: browser.DefaultViewportHeight,
		}
	}
	if params.Headless != nil {
		opts.Headless = *params.Headless
	}
	if params.Width > 0 {
		opts.Viewport.Width = params.Width
	}
	if params.Height > 0 {
		opts.Viewport.Height = params.Height
	}

	session, err := s.manager.OpenSession(params.Name, opts)
	if err != nil {
		s.log.Errorf("open session %q: %v", params.Name, err)
		return errorResult(err), nil, nil
	}

	mode := "headless"
	if !session.Headless {
		mode = "headed"
	}
	s.log.Infof("opened session %q (%s, %dx%d)", session.Name, mode, opts.Viewport.Width, opts.Viewport.Height)
	return textResult(fmt.Sprintf("Opened session %q (%s, viewport %dx%d)", session.Name, mode, opts.Viewport.Width, opts.Viewport.Height)), nil, nil
}

func validateViewportDimension(name string, value int) error {
	if value == 0 {
		return nil
	}
	if value < minViewportDimension || value > maxViewportDimension {
		return fmt.Errorf("%s must be between %d and %d pixels", name, minViewportDimension, maxViewportDimension)
	}
	return nil
}

// ListSessionsParams are the arguments for browser_list_sessions.
type ListSessionsParams struct{}

func (s *Server) handleListSessions(ctx context.Context, req *mcp.CallToolRequest, params ListSessionsParams) (*mcp.CallToolResult, any, error) {
	infos := s.manager.ListSessions()
	if len(infos) == 0 {
		return textResult("No active sessions."), nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Active sessions (%d):\n", len(infos))
	for _, info := range infos {
		mode := "headless"
		if !info.Headless {
			mode = "headed"
		}
		fmt.Fprintf(&sb, "- %s: %s (%s, last used %s)\n",
			info.Name, info.CurrentURL, mode, info.LastUsedAt.Format("15:04:05"))
	}
	return textResult(sb.String()), nil, nil
}

// CloseSessionParams are the arguments for browser_close_session.
type CloseSessionParams struct {
	Name string `json:"name" jsonschema:"Name of the session to close"`
}

func (s *Server) handleCloseSession(ctx context.Context, req *mcp.CallToolRequest, params CloseSessionParams) (*mcp.CallToolResult, any, error) {
	if params.Name == "" {
		return nil, nil, fmt.Errorf("name is required")
	}

	if err := s.manager.CloseSession(params.Name); err != nil {
		return errorResult(err), nil, nil
	}

	s.log.Infof("closed session %q", params.Name)
	return textResult(fmt.Sprintf("Closed session %q", params.Name)), nil, nil
}

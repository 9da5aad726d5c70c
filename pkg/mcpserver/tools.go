package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/entrhq/pilot/pkg/browser"
)

// validWaitUntil are the navigation completion states Playwright accepts.
var validWaitUntil = map[string]bool{
	"load":             true,
	"domcontentloaded": true,
	"networkidle":      true,
}

// validWaitStates are the element states browser_wait accepts.
var validWaitStates = map[string]bool{
	"attached": true,
	"detached": true,
	"visible":  true,
	"hidden":   true,
}

// errorResult renders an operational failure as a tool result, as opposed to
// a protocol-level error for invalid parameters.
func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)},
		},
		IsError: true,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

// NavigateParams are the arguments for browser_navigate.
type NavigateParams struct {
	URL       string  `json:"url" jsonschema:"URL to navigate to (must include protocol, e.g. https://example.com)"`
	Session   string  `json:"session,omitempty" jsonschema:"Browser session name; omit for the default session"`
	WaitUntil string  `json:"wait_until,omitempty" jsonschema:"When navigation counts as complete: load (default), domcontentloaded, or networkidle"`
	TimeoutMs float64 `json:"timeout_ms,omitempty" jsonschema:"Navigation timeout in milliseconds"`
}

func (s *Server) handleNavigate(ctx context.Context, req *mcp.CallToolRequest, params NavigateParams) (*mcp.CallToolResult, any, error) {
	if params.URL == "" {
		return nil, nil, fmt.Errorf("url is required")
	}

	waitUntil := params.WaitUntil
	if waitUntil == "" {
		waitUntil = "load"
	}
	if !validWaitUntil[waitUntil] {
		return nil, nil, fmt.Errorf("invalid wait_until value: %s (must be 'load', 'domcontentloaded', or 'networkidle')", waitUntil)
	}

	if err := s.policy.Check(params.URL); err != nil {
		s.log.Warnf("navigation refused: %v", err)
		return errorResult(err), nil, nil
	}

	session, err := s.manager.EnsureSession(params.Session)
	if err != nil {
		return errorResult(err), nil, nil
	}

	if err := session.Navigate(params.URL, browser.NavigateOptions{
		WaitUntil: waitUntil,
		Timeout:   params.TimeoutMs,
	}); err != nil {
		s.log.Errorf("navigate %s: %v", params.URL, err)
		return errorResult(err), nil, nil
	}

	meta, _ := session.GetMetadata()
	s.log.Infof("navigated session %q to %s", session.Name, session.CurrentURL())
	return textResult(fmt.Sprintf("Navigated to %s\nTitle: %s\nSession: %s", session.CurrentURL(), meta["title"], session.Name)), nil, nil
}

// ScreenshotParams are the arguments for browser_screenshot.
type ScreenshotParams struct {
	Name      string  `json:"name" jsonschema:"Name to store the screenshot under"`
	Session   string  `json:"session,omitempty" jsonschema:"Browser session name; omit for the default session"`
	Selector  string  `json:"selector,omitempty" jsonschema:"CSS selector to capture a single element instead of the page"`
	FullPage  bool    `json:"full_page,omitempty" jsonschema:"Capture the entire scrollable page instead of the viewport"`
	TimeoutMs float64 `json:"timeout_ms,omitempty" jsonschema:"Capture timeout in milliseconds"`
}

func (s *Server) handleScreenshot(ctx context.Context, req *mcp.CallToolRequest, params ScreenshotParams) (*mcp.CallToolResult, any, error) {
	if err := browser.ValidateScreenshotName(params.Name); err != nil {
		return nil, nil, err
	}

	session, err := s.manager.EnsureSession(params.Session)
	if err != nil {
		return errorResult(err), nil, nil
	}

	data, err := session.Screenshot(browser.ScreenshotOptions{
		Name:     params.Name,
		Selector: params.Selector,
		FullPage: params.FullPage,
		Timeout:  params.TimeoutMs,
	})
	if err != nil {
		s.log.Errorf("screenshot %q: %v", params.Name, err)
		return errorResult(err), nil, nil
	}

	if err := s.shots.Put(&browser.Screenshot{
		Name:    params.Name,
		Data:    data,
		Session: session.Name,
		URL:     session.CurrentURL(),
	}); err != nil {
		return errorResult(err), nil, nil
	}

	s.log.Infof("captured screenshot %q (%d bytes) from %s", params.Name, len(data), session.CurrentURL())
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Screenshot %q captured (%d bytes). Retrievable as resource screenshot://%s", params.Name, len(data), params.Name)},
			&mcp.ImageContent{Data: data, MIMEType: "image/png"},
		},
	}, nil, nil
}

// ClickParams are the arguments for browser_click.
type ClickParams struct {
	Selector   string  `json:"selector" jsonschema:"CSS selector of the element to click"`
	Session    string  `json:"session,omitempty" jsonschema:"Browser session name; omit for the default session"`
	Button     string  `json:"button,omitempty" jsonschema:"Mouse button: left (default), right, or middle"`
	ClickCount int     `json:"click_count,omitempty" jsonschema:"Number of clicks (2 for double-click)"`
	TimeoutMs  float64 `json:"timeout_ms,omitempty" jsonschema:"Click timeout in milliseconds"`
}

func (s *Server) handleClick(ctx context.Context, req *mcp.CallToolRequest, params ClickParams) (*mcp.CallToolResult, any, error) {
	if params.Selector == "" {
		return nil, nil, fmt.Errorf("selector is required")
	}
	switch params.Button {
	case "", "left", "right", "middle":
	default:
		return nil, nil, fmt.Errorf("invalid button: %s (must be 'left', 'right', or 'middle')", params.Button)
	}

	session, err := s.manager.EnsureSession(params.Session)
	if err != nil {
		return errorResult(err), nil, nil
	}

	if err := session.Click(browser.ClickOptions{
		Selector:   params.Selector,
		Button:     params.Button,
		ClickCount: params.ClickCount,
		Timeout:    params.TimeoutMs,
	}); err != nil {
		s.log.Errorf("click %q: %v", params.Selector, err)
		return errorResult(err), nil, nil
	}

	return textResult(fmt.Sprintf("Clicked %s\nCurrent URL: %s", params.Selector, session.CurrentURL())), nil, nil
}

// FillParams are the arguments for browser_fill.
type FillParams struct {
	Selector  string  `json:"selector" jsonschema:"CSS selector of the input element"`
	Value     string  `json:"value" jsonschema:"Text to fill into the element"`
	Session   string  `json:"session,omitempty" jsonschema:"Browser session name; omit for the default session"`
	TimeoutMs float64 `json:"timeout_ms,omitempty" jsonschema:"Fill timeout in milliseconds"`
}

func (s *Server) handleFill(ctx context.Context, req *mcp.CallToolRequest, params FillParams) (*mcp.CallToolResult, any, error) {
	if params.Selector == "" {
		return nil, nil, fmt.Errorf("selector is required")
	}

	session, err := s.manager.EnsureSession(params.Session)
	if err != nil {
		return errorResult(err), nil, nil
	}

	if err := session.Fill(browser.FillOptions{
		Selector: params.Selector,
		Value:    params.Value,
		Timeout:  params.TimeoutMs,
	}); err != nil {
		s.log.Errorf("fill %q: %v", params.Selector, err)
		return errorResult(err), nil, nil
	}

	return textResult(fmt.Sprintf("Filled %s with %d characters", params.Selector, len(params.Value))), nil, nil
}

// HoverParams are the arguments for browser_hover.
type HoverParams struct {
	Selector  string  `json:"selector" jsonschema:"CSS selector of the element to hover over"`
	Session   string  `json:"session,omitempty" jsonschema:"Browser session name; omit for the default session"`
	TimeoutMs float64 `json:"timeout_ms,omitempty" jsonschema:"Hover timeout in milliseconds"`
}

func (s *Server) handleHover(ctx context.Context, req *mcp.CallToolRequest, params HoverParams) (*mcp.CallToolResult, any, error) {
	if params.Selector == "" {
		return nil, nil, fmt.Errorf("selector is required")
	}

	session, err := s.manager.EnsureSession(params.Session)
	if err != nil {
		return errorResult(err), nil, nil
	}

	if err := session.Hover(browser.HoverOptions{
		Selector: params.Selector,
		Timeout:  params.TimeoutMs,
	}); err != nil {
		s.log.Errorf("hover %q: %v", params.Selector, err)
		return errorResult(err), nil, nil
	}

	return textResult(fmt.Sprintf("Hovering over %s", params.Selector)), nil, nil
}

// SelectOptionParams are the arguments for browser_select_option.
type SelectOptionParams struct {
	Selector  string   `json:"selector" jsonschema:"CSS selector of the select element"`
	Values    []string `json:"values" jsonschema:"Option values to select"`
	Session   string   `json:"session,omitempty" jsonschema:"Browser session name; omit for the default session"`
	TimeoutMs float64  `json:"timeout_ms,omitempty" jsonschema:"Selection timeout in milliseconds"`
}

func (s *Server) handleSelectOption(ctx context.Context, req *mcp.CallToolRequest, params SelectOptionParams) (*mcp.CallToolResult, any, error) {
	if params.Selector == "" {
		return nil, nil, fmt.Errorf("selector is required")
	}
	if len(params.Values) == 0 {
		return nil, nil, fmt.Errorf("at least one value is required")
	}

	session, err := s.manager.EnsureSession(params.Session)
	if err != nil {
		return errorResult(err), nil, nil
	}

	selected, err := session.SelectOption(browser.SelectOptions{
		Selector: params.Selector,
		Values:   params.Values,
		Timeout:  params.TimeoutMs,
	})
	if err != nil {
		s.log.Errorf("select option %q: %v", params.Selector, err)
		return errorResult(err), nil, nil
	}

	return textResult(fmt.Sprintf("Selected [%s] in %s", strings.Join(selected, ", "), params.Selector)), nil, nil
}

// EvaluateParams are the arguments for browser_evaluate.
type EvaluateParams struct {
	Code      string  `json:"code" jsonschema:"JavaScript code to execute in the page"`
	Session   string  `json:"session,omitempty" jsonschema:"Browser session name; omit for the default session"`
	TimeoutMs float64 `json:"timeout_ms,omitempty" jsonschema:"Execution timeout in milliseconds"`
}

func (s *Server) handleEvaluate(ctx context.Context, req *mcp.CallToolRequest, params EvaluateParams) (*mcp.CallToolResult, any, error) {
	if params.Code == "" {
		return nil, nil, fmt.Errorf("code is required")
	}

	session, err := s.manager.EnsureSession(params.Session)
	if err != nil {
		return errorResult(err), nil, nil
	}

	result, err := session.Evaluate(params.Code, params.TimeoutMs)
	if err != nil {
		s.log.Errorf("evaluate: %v", err)
		return errorResult(err), nil, nil
	}

	return textResult(result), nil, nil
}

// WaitParams are the arguments for browser_wait.
type WaitParams struct {
	Selector  string  `json:"selector" jsonschema:"CSS selector to wait for"`
	Session   string  `json:"session,omitempty" jsonschema:"Browser session name; omit for the default session"`
	State     string  `json:"state,omitempty" jsonschema:"State to wait for: visible (default), attached, detached, or hidden"`
	TimeoutMs float64 `json:"timeout_ms,omitempty" jsonschema:"Wait timeout in milliseconds"`
}

func (s *Server) handleWait(ctx context.Context, req *mcp.CallToolRequest, params WaitParams) (*mcp.CallToolResult, any, error) {
	if params.Selector == "" {
		return nil, nil, fmt.Errorf("selector is required")
	}

	state := params.State
	if state == "" {
		state = "visible"
	}
	if !validWaitStates[state] {
		return nil, nil, fmt.Errorf("invalid state: %s (must be 'attached', 'detached', 'visible', or 'hidden')", state)
	}

	session, err := s.manager.EnsureSession(params.Session)
	if err != nil {
		return errorResult(err), nil, nil
	}

	if err := session.Wait(browser.WaitOptions{
		Selector: params.Selector,
		State:    state,
		Timeout:  params.TimeoutMs,
	}); err != nil {
		return errorResult(err), nil, nil
	}

	return textResult(fmt.Sprintf("Element %s is %s", params.Selector, state)), nil, nil
}

// ExtractParams are the arguments for browser_extract.
type ExtractParams struct {
	Session   string `json:"session,omitempty" jsonschema:"Browser session name; omit for the default session"`
	Format    string `json:"format,omitempty" jsonschema:"Output format: markdown (default), text, or html"`
	Selector  string `json:"selector,omitempty" jsonschema:"CSS selector to limit extraction to one element"`
	MaxLength int    `json:"max_length,omitempty" jsonschema:"Maximum number of characters to return"`
}

func (s *Server) handleExtract(ctx context.Context, req *mcp.CallToolRequest, params ExtractParams) (*mcp.CallToolResult, any, error) {
	format := browser.ExtractFormat(params.Format)
	switch format {
	case "", browser.FormatMarkdown, browser.FormatText, browser.FormatHTML:
	default:
		return nil, nil, fmt.Errorf("invalid format: %s (must be 'markdown', 'text', or 'html')", params.Format)
	}

	session, err := s.manager.EnsureSession(params.Session)
	if err != nil {
		return errorResult(err), nil, nil
	}

	content, err := session.ExtractContent(browser.ExtractOptions{
		Format:    format,
		Selector:  params.Selector,
		MaxLength: params.MaxLength,
	})
	if err != nil {
		s.log.Errorf("extract: %v", err)
		return errorResult(err), nil, nil
	}

	return textResult(content), nil, nil
}

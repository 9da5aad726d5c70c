package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pilot/pkg/browser"
	"github.com/entrhq/pilot/pkg/logging"
	"github.com/entrhq/pilot/pkg/security"
)

// newTestServer builds a server with no active browser. The deny list blocks
// anything under blocked.test so policy refusal can be exercised without a
// running browser.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	policy, err := security.NewURLPolicy(nil, []string{"*blocked.test*"})
	require.NoError(t, err)

	logger, _ := logging.NewLogger("test")
	t.Cleanup(func() { logger.Close() })

	return New(Options{
		Version: "test",
		Manager: browser.NewSessionManager(),
		Shots:   browser.NewScreenshotStore(10, ""),
		Policy:  policy,
		Logger:  logger,
	})
}

func TestHandleNavigate_Validation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleNavigate(ctx, nil, NavigateParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "url is required")

	_, _, err = s.handleNavigate(ctx, nil, NavigateParams{
		URL:       "https://example.com",
		WaitUntil: "eventually",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid wait_until")
}

func TestHandleNavigate_PolicyRefusal(t *testing.T) {
	s := newTestServer(t)

	result, _, err := s.handleNavigate(context.Background(), nil, NavigateParams{
		URL: "https://blocked.test/login",
	})
	require.NoError(t, err, "policy refusal is an operational failure, not a protocol error")
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	text := result.Content[0].(*mcp.TextContent).Text
	assert.Contains(t, text, "blocked by the configured access policy")

	// The browser must never have been touched
	assert.False(t, s.manager.HasSessions())
}

func TestHandleNavigate_SchemeRefusal(t *testing.T) {
	s := newTestServer(t)

	result, _, err := s.handleNavigate(context.Background(), nil, NavigateParams{
		URL: "file:///etc/passwd",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.False(t, s.manager.HasSessions())
}

func TestHandleScreenshot_Validation(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleScreenshot(context.Background(), nil, ScreenshotParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "screenshot name is required")

	_, _, err = s.handleScreenshot(context.Background(), nil, ScreenshotParams{Name: "../evil"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid screenshot name")
}

func TestHandleClick_Validation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleClick(ctx, nil, ClickParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector is required")

	_, _, err = s.handleClick(ctx, nil, ClickParams{Selector: "button", Button: "side"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid button")
}

func TestHandleFill_Validation(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleFill(context.Background(), nil, FillParams{Value: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector is required")
}

func TestHandleHover_Validation(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleHover(context.Background(), nil, HoverParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector is required")
}

func TestHandleSelectOption_Validation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleSelectOption(ctx, nil, SelectOptionParams{Values: []string{"a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector is required")

	_, _, err = s.handleSelectOption(ctx, nil, SelectOptionParams{Selector: "select#country"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one value is required")
}

func TestHandleEvaluate_Validation(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleEvaluate(context.Background(), nil, EvaluateParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code is required")
}

func TestHandleWait_Validation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleWait(ctx, nil, WaitParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector is required")

	_, _, err = s.handleWait(ctx, nil, WaitParams{Selector: "#spinner", State: "gone"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid state")
}

func TestHandleExtract_Validation(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleExtract(context.Background(), nil, ExtractParams{Format: "pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestErrorResultShape(t *testing.T) {
	result := errorResult(assert.AnError)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "Error:")
}

package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleOpenSession_Validation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, _, err := s.handleOpenSession(ctx, nil, OpenSessionParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	_, _, err = s.handleOpenSession(ctx, nil, OpenSessionParams{Name: "tiny", Width: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "width must be between")

	_, _, err = s.handleOpenSession(ctx, nil, OpenSessionParams{Name: "tall", Height: 99999})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "height must be between")
}

func TestHandleCloseSession_Validation(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.handleCloseSession(context.Background(), nil, CloseSessionParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestHandleCloseSession_UnknownSession(t *testing.T) {
	s := newTestServer(t)

	result, _, err := s.handleCloseSession(context.Background(), nil, CloseSessionParams{Name: "ghost"})
	require.NoError(t, err, "closing an unknown session is an operational failure, not a protocol error")
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, `session "ghost" not found`)
}

func TestHandleListSessions_Empty(t *testing.T) {
	s := newTestServer(t)

	result, _, err := s.handleListSessions(context.Background(), nil, ListSessionsParams{})
	require.NoError(t, err)
	assert.Equal(t, "No active sessions.", result.Content[0].(*mcp.TextContent).Text)
}

// Tools that target a session by name must refuse unknown names instead of
// launching a browser for them. Only the default session is created lazily.
func TestHandlers_UnknownSessionName(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, _, err := s.handleClick(ctx, nil, ClickParams{
		Selector: "#go",
		Session:  "defualt",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, `session "defualt" not found`)

	result, _, err = s.handleEvaluate(ctx, nil, EvaluateParams{
		Code:    "document.title",
		Session: "defualt",
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	// No browser was launched for the bad name
	assert.False(t, s.manager.HasSessions())
}

package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/pilot/pkg/browser"
)

func TestHandleConsoleLogs_NoSessions(t *testing.T) {
	s := newTestServer(t)

	result, err := s.handleConsoleLogs(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: ConsoleLogURI},
	})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, ConsoleLogURI, result.Contents[0].URI)
	assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, "No active browser sessions")
}

func TestHandleScreenshotResource(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	require.NoError(t, s.shots.Put(&browser.Screenshot{
		Name: "landing",
		Data: []byte("png-data"),
	}))

	result, err := s.handleScreenshotResource(ctx, &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "screenshot://landing"},
	})
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "screenshot://landing", result.Contents[0].URI)
	assert.Equal(t, "image/png", result.Contents[0].MIMEType)
	assert.Equal(t, []byte("png-data"), result.Contents[0].Blob)
}

func TestHandleScreenshotResource_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleScreenshotResource(ctx, &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "wrong://thing"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid screenshot URI")

	_, err = s.handleScreenshotResource(ctx, &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "screenshot://missing"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

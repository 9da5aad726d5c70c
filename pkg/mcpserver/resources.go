package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// ConsoleLogURI is the resource URI for captured console output.
	ConsoleLogURI = "console://logs"

	// screenshotURIPrefix prefixes per-name screenshot resource URIs.
	screenshotURIPrefix = "screenshot://"
)

// registerResources registers the console log resource and the screenshot
// resource template.
func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         ConsoleLogURI,
		Name:        "Browser console logs",
		Description: "Console output captured from all active browser sessions, oldest first.",
		MIMEType:    "text/plain",
	}, s.handleConsoleLogs)

	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: screenshotURIPrefix + "{name}",
		Name:        "Captured screenshot",
		Description: "PNG screenshot previously captured with the browser_screenshot tool.",
		MIMEType:    "image/png",
	}, s.handleScreenshotResource)
}

// handleConsoleLogs renders the console buffers of all active sessions.
func (s *Server) handleConsoleLogs(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	infos := s.manager.ListSessions()
	if len(infos) == 0 {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      ConsoleLogURI,
				MIMEType: "text/plain",
				Text:     "No active browser sessions.",
			}},
		}, nil
	}

	var sb strings.Builder
	for _, info := range infos {
		session, err := s.manager.GetSession(info.Name)
		if err != nil {
			continue
		}
		if len(infos) > 1 {
			fmt.Fprintf(&sb, "=== session %s (%s) ===\n", info.Name, info.CurrentURL)
		}
		sb.WriteString(session.Console.Render())
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      ConsoleLogURI,
			MIMEType: "text/plain",
			Text:     sb.String(),
		}},
	}, nil
}

// handleScreenshotResource serves a stored screenshot by name.
func (s *Server) handleScreenshotResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	name := strings.TrimPrefix(uri, screenshotURIPrefix)
	if name == "" || name == uri {
		return nil, fmt.Errorf("invalid screenshot URI: %s", uri)
	}

	shot, err := s.shots.Get(name)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "image/png",
			Blob:     shot.Data,
		}},
	}, nil
}

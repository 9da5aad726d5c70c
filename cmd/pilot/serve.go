package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/entrhq/pilot/pkg/browser"
	"github.com/entrhq/pilot/pkg/config"
	"github.com/entrhq/pilot/pkg/logging"
	"github.com/entrhq/pilot/pkg/mcpserver"
	"github.com/entrhq/pilot/pkg/security"
)

// idleSweepDivisor determines how often the idle sweep runs relative to the
// idle timeout.
const idleSweepDivisor = 4

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio",
	Long:  "Starts the MCP server on stdin/stdout. Intended to be spawned by an MCP client; all diagnostics go to the log file, never stdout.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("debug", false, "Enable debug logging (also via PILOT_DEBUG=1)")
}

func runServe(cmd *cobra.Command, args []string) error {
	debug, _ := cmd.Flags().GetBool("debug")
	if os.Getenv("PILOT_DEBUG") == "1" {
		debug = true
	}
	logging.SetDebug(debug)

	logger, logErr := logging.NewLogger("server")
	defer logger.Close()
	if logErr != nil {
		logger.Warnf("file logging unavailable, using stderr")
	}

	configPath, _ := cmd.Flags().GetString("config")
	if err := config.Initialize(configPath); err != nil {
		logger.Errorf("configuration error: %v", err)
		return fmt.Errorf("configuration error: %w", err)
	}

	browserCfg := config.GetBrowser()
	securityCfg := config.GetSecurity()

	allowed, denied := securityCfg.Patterns()
	policy, err := security.NewURLPolicy(allowed, denied)
	if err != nil {
		return fmt.Errorf("invalid URL policy: %w", err)
	}

	width, height := browserCfg.Viewport()
	manager := browser.NewSessionManager()
	manager.SetMaxSessions(browserCfg.MaxSessions)
	manager.SetIdleTimeout(browserCfg.IdleTimeout)
	manager.SetSessionDefaults(browser.SessionOptions{
		Headless:        browserCfg.IsHeadless(),
		Viewport:        &browser.Viewport{Width: width, Height: height},
		Timeout:         float64(browserCfg.TimeoutMs),
		ConsoleCapacity: browserCfg.ConsoleBuffer,
	})

	shots := browser.NewScreenshotStore(browserCfg.MaxScreenshots, browserCfg.ScreenshotDir)

	server := mcpserver.New(mcpserver.Options{
		Version: version,
		Manager: manager,
		Shots:   shots,
		Policy:  policy,
		Logger:  logger,
	})

	ctx := cmd.Context()
	go manager.RunIdleSweep(ctx, browserCfg.IdleTimeout/idleSweepDivisor)

	logger.Infof("pilot v%s starting (debug=%v, config=%s)", version, debug, configPath)
	if err := server.Run(ctx); err != nil {
		logger.Errorf("server error: %v", err)
		return err
	}
	logger.Infof("server stopped")
	return nil
}

package main

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/entrhq/pilot/pkg/config"
	"github.com/entrhq/pilot/pkg/security"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and browser readiness",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("install", false, "Install browsers and the Playwright driver if missing")
}

func runCheck(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	if err := config.Initialize(configPath); err != nil {
		pterm.Error.Printfln("Configuration invalid: %v", err)
		return fmt.Errorf("configuration invalid: %w", err)
	}
	pterm.Success.Printfln("Configuration loaded from %s", config.Global().Store().Path())

	browserCfg := config.GetBrowser()
	width, height := browserCfg.Viewport()
	mode := "headed"
	if browserCfg.IsHeadless() {
		mode = "headless"
	}
	pterm.Info.Printfln("Browser defaults: %s, %dx%d, timeout %s, max %d sessions",
		mode, width, height, browserCfg.Timeout(), browserCfg.MaxSessions)

	allowed, denied := config.GetSecurity().Patterns()
	if _, err := security.NewURLPolicy(allowed, denied); err != nil {
		pterm.Error.Printfln("URL policy invalid: %v", err)
		return fmt.Errorf("URL policy invalid: %w", err)
	}
	if len(allowed) == 0 && len(denied) == 0 {
		pterm.Info.Println("URL policy: all http(s) URLs allowed")
	} else {
		pterm.Info.Printfln("URL policy: %d allowed pattern(s), %d denied pattern(s)", len(allowed), len(denied))
	}

	install, _ := cmd.Flags().GetBool("install")
	if install {
		spinner, _ := pterm.DefaultSpinner.Start("Installing Playwright driver and browsers...")
		if err := playwright.Install(&playwright.RunOptions{Verbose: false}); err != nil {
			spinner.Fail(fmt.Sprintf("Playwright install failed: %v", err))
			return fmt.Errorf("playwright install failed: %w", err)
		}
		spinner.Success("Playwright driver and browsers installed")
	} else {
		pterm.Info.Println("Run with --install to download the Playwright driver and browsers")
	}

	pterm.Success.Println("All checks passed")
	return nil
}

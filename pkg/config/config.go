// Package config provides section-based configuration for the pilot server,
// persisted as a YAML file. Each section owns its defaults, marshalling, and
// validation; the Manager ties sections to the on-disk store.
package config

import (
	"os"
	"sync"
)

// EnvConfigPath overrides the default config file location when set.
const EnvConfigPath = "PILOT_CONFIG"

var (
	// globalManager is the singleton configuration manager instance
	globalManager *Manager
	globalMu      sync.Mutex
)

// ResolvePath returns the config file path to use: the explicit argument,
// then the PILOT_CONFIG environment variable, then the built-in default.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(EnvConfigPath)
}

// Initialize creates and initializes the global configuration manager.
// This should be called once at application startup.
func Initialize(configPath string) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	store, err := NewFileStore(ResolvePath(configPath))
	if err != nil {
		return err
	}

	manager := NewManager(store)

	if err := manager.RegisterSection(NewBrowserSection()); err != nil {
		return err
	}
	if err := manager.RegisterSection(NewSecuritySection()); err != nil {
		return err
	}

	if err := manager.LoadAll(); err != nil {
		return err
	}

	globalManager = manager
	return nil
}

// Global returns the global configuration manager.
// Panics if Initialize has not been called.
func Global() *Manager {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalManager == nil {
		panic("config not initialized: call config.Initialize first")
	}

	return globalManager
}

// IsInitialized returns true if the global configuration has been initialized.
func IsInitialized() bool {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalManager != nil
}

// Reset clears the global manager. Intended for tests.
func Reset() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = nil
}

// GetBrowser returns the browser section from global config.
// Returns nil if config is not initialized.
func GetBrowser() *BrowserSection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection(SectionIDBrowser)
	if !ok {
		return nil
	}

	browser, ok := section.(*BrowserSection)
	if !ok {
		return nil
	}

	return browser
}

// GetSecurity returns the security section from global config.
// Returns nil if config is not initialized.
func GetSecurity() *SecuritySection {
	if !IsInitialized() {
		return nil
	}

	section, ok := Global().GetSection(SectionIDSecurity)
	if !ok {
		return nil
	}

	security, ok := section.(*SecuritySection)
	if !ok {
		return nil
	}

	return security
}

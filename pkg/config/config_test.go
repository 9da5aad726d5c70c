package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserSection_Defaults(t *testing.T) {
	s := NewBrowserSection()

	assert.True(t, s.IsHeadless())
	w, h := s.Viewport()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
	assert.Equal(t, 30*time.Second, s.Timeout())
	assert.NoError(t, s.Validate())
}

func TestBrowserSection_SetData(t *testing.T) {
	s := NewBrowserSection()

	err := s.SetData(map[string]any{
		"headless":        false,
		"viewport_width":  1920,
		"viewport_height": 1080,
		"timeout_ms":      10000,
		"max_sessions":    3,
		"idle_timeout":    "2m",
		"screenshot_dir":  "/tmp/shots",
		"console_buffer":  100,
	})
	require.NoError(t, err)

	assert.False(t, s.IsHeadless())
	w, h := s.Viewport()
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
	assert.Equal(t, 10*time.Second, s.Timeout())
	assert.Equal(t, 2*time.Minute, s.IdleTimeout)
	assert.Equal(t, "/tmp/shots", s.ScreenshotDir)
	assert.NoError(t, s.Validate())
}

func TestBrowserSection_SetDataTypeErrors(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
	}{
		{name: "headless not bool", data: map[string]any{"headless": "yes"}},
		{name: "width not int", data: map[string]any{"viewport_width": "wide"}},
		{name: "idle_timeout not duration", data: map[string]any{"idle_timeout": true}},
		{name: "bad duration string", data: map[string]any{"idle_timeout": "soon"}},
		{name: "screenshot_dir not string", data: map[string]any{"screenshot_dir": 42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			assert.Error(t, s.SetData(tt.data))
		})
	}
}

func TestBrowserSection_ValidateBounds(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BrowserSection)
	}{
		{name: "width too small", mutate: func(s *BrowserSection) { s.ViewportWidth = 10 }},
		{name: "height too large", mutate: func(s *BrowserSection) { s.ViewportHeight = 9000 }},
		{name: "zero timeout", mutate: func(s *BrowserSection) { s.TimeoutMs = 0 }},
		{name: "zero sessions", mutate: func(s *BrowserSection) { s.MaxSessions = 0 }},
		{name: "negative idle", mutate: func(s *BrowserSection) { s.IdleTimeout = -time.Second }},
		{name: "zero console buffer", mutate: func(s *BrowserSection) { s.ConsoleBuffer = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBrowserSection()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestSecuritySection_SetDataAndValidate(t *testing.T) {
	s := NewSecuritySection()
	require.NoError(t, s.Validate(), "empty policy is valid")

	err := s.SetData(map[string]any{
		"allowed_urls": []any{"https://*.example.com/*"},
		"denied_urls":  []any{"*tracker*"},
	})
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	allowed, denied := s.Patterns()
	assert.Equal(t, []string{"https://*.example.com/*"}, allowed)
	assert.Equal(t, []string{"*tracker*"}, denied)
}

func TestSecuritySection_RejectsBadValues(t *testing.T) {
	s := NewSecuritySection()

	assert.Error(t, s.SetData(map[string]any{"allowed_urls": "not-a-list"}))
	assert.Error(t, s.SetData(map[string]any{"denied_urls": []any{42}}))

	require.NoError(t, s.SetData(map[string]any{"allowed_urls": []any{"https://[oops"}}))
	assert.Error(t, s.Validate(), "uncompilable pattern fails validation")
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.SetSection("browser", map[string]any{
		"headless":       false,
		"viewport_width": 1600,
	}))
	require.NoError(t, store.Save())

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)

	data, err := reloaded.GetSection("browser")
	require.NoError(t, err)
	assert.Equal(t, false, data["headless"])
	assert.Equal(t, 1600, data["viewport_width"])
}

func TestFileStore_MissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "config.yaml")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	data, err := store.GetSection("browser")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml: ["), 0600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestManager_RegisterAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	manager := NewManager(store)
	require.NoError(t, manager.RegisterSection(NewBrowserSection()))
	require.NoError(t, manager.RegisterSection(NewSecuritySection()))

	// Duplicate registration fails
	assert.Error(t, manager.RegisterSection(NewBrowserSection()))

	// Loading with no stored data keeps defaults and validates
	require.NoError(t, manager.LoadAll())

	section, ok := manager.GetSection(SectionIDBrowser)
	require.True(t, ok)
	assert.True(t, section.(*BrowserSection).IsHeadless())
}

func TestManager_SaveAllPersistsSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	manager := NewManager(store)
	browserSection := NewBrowserSection()
	browserSection.Headless = false
	require.NoError(t, manager.RegisterSection(browserSection))
	require.NoError(t, manager.SaveAll())

	// Fresh manager sees the persisted value
	store2, err := NewFileStore(path)
	require.NoError(t, err)
	manager2 := NewManager(store2)
	require.NoError(t, manager2.RegisterSection(NewBrowserSection()))
	require.NoError(t, manager2.LoadAll())

	section, _ := manager2.GetSection(SectionIDBrowser)
	assert.False(t, section.(*BrowserSection).IsHeadless())
}

func TestManager_LoadAllRejectsInvalidStoredData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetSection(SectionIDBrowser, map[string]any{"viewport_width": 1}))

	manager := NewManager(store)
	require.NoError(t, manager.RegisterSection(NewBrowserSection()))
	assert.Error(t, manager.LoadAll())
}

func TestGlobalInitialize(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	assert.False(t, IsInitialized())
	assert.Nil(t, GetBrowser())
	assert.Nil(t, GetSecurity())

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Initialize(path))

	assert.True(t, IsInitialized())
	require.NotNil(t, GetBrowser())
	require.NotNil(t, GetSecurity())
	assert.Equal(t, path, Global().Store().Path())
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvConfigPath, "/from/env.yaml")
	assert.Equal(t, "/explicit.yaml", ResolvePath("/explicit.yaml"))
	assert.Equal(t, "/from/env.yaml", ResolvePath(""))
}

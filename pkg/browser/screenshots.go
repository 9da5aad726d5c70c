package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"
	"time"
)

// DefaultMaxScreenshots bounds the in-memory screenshot store.
const DefaultMaxScreenshots = 50

var screenshotNameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidateScreenshotName checks that a name is safe to use as a store key
// and as a filename.
func ValidateScreenshotName(name string) error {
	if name == "" {
		return fmt.Errorf("screenshot name is required")
	}
	if !screenshotNameRe.MatchString(name) {
		return fmt.Errorf("invalid screenshot name %q: only letters, digits, '.', '_' and '-' are allowed", name)
	}
	return nil
}

// Screenshot is a captured page image held by the store.
type Screenshot struct {
	Name       string
	Data       []byte
	Session    string
	URL        string
	CapturedAt time.Time
}

// ScreenshotStore keeps captured screenshots addressable by name so they can
// be served as resources. The store is bounded; when full, the oldest
// screenshot is evicted. Captures can optionally be mirrored to a directory
// on disk.
type ScreenshotStore struct {
	mu         sync.RWMutex
	shots      map[string]*Screenshot
	maxEntries int
	persistDir string
}

// NewScreenshotStore creates a store bounded at maxEntries. persistDir, when
// non-empty, receives a PNG file per capture.
func NewScreenshotStore(maxEntries int, persistDir string) *ScreenshotStore {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxScreenshots
	}
	return &ScreenshotStore{
		shots:      make(map[string]*Screenshot),
		maxEntries: maxEntries,
		persistDir: persistDir,
	}
}

// Put stores a screenshot under its name, replacing any previous capture
// with the same name. The disk mirror is written under the store lock and
// before the in-memory entry is published, so the file on disk always
// matches whatever Get returns and a failed write stores nothing.
func (s *ScreenshotStore) Put(shot *Screenshot) error {
	if err := ValidateScreenshotName(shot.Name); err != nil {
		return err
	}
	if shot.CapturedAt.IsZero() {
		shot.CapturedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persistDir != "" {
		if err := os.MkdirAll(s.persistDir, 0750); err != nil {
			return fmt.Errorf("failed to create screenshot directory: %w", err)
		}
		path := filepath.Join(s.persistDir, shot.Name+".png")
		if err := os.WriteFile(path, shot.Data, 0600); err != nil {
			return fmt.Errorf("failed to write screenshot file: %w", err)
		}
	}

	if _, replacing := s.shots[shot.Name]; !replacing && len(s.shots) >= s.maxEntries {
		s.evictOldestLocked()
	}
	s.shots[shot.Name] = shot
	return nil
}

// evictOldestLocked removes the screenshot with the oldest capture time.
// Caller must hold the lock.
func (s *ScreenshotStore) evictOldestLocked() {
	var oldest string
	var oldestAt time.Time
	for name, shot := range s.shots {
		if oldest == "" || shot.CapturedAt.Before(oldestAt) {
			oldest = name
			oldestAt = shot.CapturedAt
		}
	}
	if oldest != "" {
		delete(s.shots, oldest)
	}
}

// Get returns the named screenshot.
func (s *ScreenshotStore) Get(name string) (*Screenshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shot, exists := s.shots[name]
	if !exists {
		return nil, fmt.Errorf("screenshot %q not found", name)
	}
	return shot, nil
}

// Names returns the stored screenshot names, sorted.
func (s *ScreenshotStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.shots))
	for name := range s.shots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored screenshots.
func (s *ScreenshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.shots)
}

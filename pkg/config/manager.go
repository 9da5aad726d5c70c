package config

import (
	"fmt"
	"sync"
)

// Section is a self-describing group of related settings. Sections marshal
// themselves to and from the generic store representation and validate their
// own contents.
type Section interface {
	// ID returns the unique section identifier
	ID() string

	// Data returns the current configuration data
	Data() map[string]any

	// SetData updates the configuration from the provided data
	SetData(data map[string]any) error

	// Validate checks the section contents for consistency
	Validate() error
}

// Manager coordinates configuration sections with the backing store.
type Manager struct {
	mu       sync.RWMutex
	store    Store
	sections map[string]Section
}

// NewManager creates a manager backed by the given store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sections: make(map[string]Section),
	}
}

// RegisterSection adds a section to the manager. Registering the same ID
// twice is an error.
func (m *Manager) RegisterSection(section Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := section.ID()
	if _, exists := m.sections[id]; exists {
		return fmt.Errorf("section %q already registered", id)
	}
	m.sections[id] = section
	return nil
}

// GetSection returns a registered section by ID.
func (m *Manager) GetSection(id string) (Section, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	section, ok := m.sections[id]
	return section, ok
}

// LoadAll populates every registered section from the store and validates
// the result. Sections absent from the store keep their defaults.
func (m *Manager) LoadAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, section := range m.sections {
		data, err := m.store.GetSection(id)
		if err != nil {
			return fmt.Errorf("failed to load section %q: %w", id, err)
		}
		if len(data) == 0 {
			continue
		}
		if err := section.SetData(data); err != nil {
			return fmt.Errorf("invalid section %q: %w", id, err)
		}
	}

	return m.validateLocked()
}

// SaveAll writes every registered section back to the store and persists it.
func (m *Manager) SaveAll() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for id, section := range m.sections {
		if err := m.store.SetSection(id, section.Data()); err != nil {
			return fmt.Errorf("failed to stage section %q: %w", id, err)
		}
	}

	return m.store.Save()
}

// Validate checks every registered section.
func (m *Manager) Validate() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.validateLocked()
}

func (m *Manager) validateLocked() error {
	for id, section := range m.sections {
		if err := section.Validate(); err != nil {
			return fmt.Errorf("invalid section %q: %w", id, err)
		}
	}
	return nil
}

// Store returns the backing store.
func (m *Manager) Store() Store {
	return m.store
}

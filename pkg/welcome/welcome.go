// Package welcome stores the greeting shown on start-up, with optional
// per-department overrides.
package welcome

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/coolbeans/nomiki/pkg/fsutil"
)

const (
	// DefaultFileName is the messages file name inside the data directory.
	DefaultFileName = "welcome_messages.json"
	// DefaultMessage is used when no message has been configured.
	DefaultMessage = "Καλωσήρθατε στον Νομικό Βοηθό"
)

// Messages is the file shape.
type Messages struct {
	Default     string            `json:"default"`
	Departments map[string]string `json:"departments"`
}

func defaults() Messages {
	return Messages{Default: DefaultMessage, Departments: map[string]string{}}
}

// Store reads the messages file on every call. A missing file yields the
// default message.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns the store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the current messages.
func (s *Store) Load() (Messages, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadUnsafe()
}

// Message returns the greeting for a department, falling back to the default
// for an empty or unknown department.
func (s *Store) Message(department string) (string, error) {
	m, err := s.Load()
	if err != nil {
		return "", err
	}
	if department != "" {
		if msg, ok := m.Departments[department]; ok {
			return msg, nil
		}
	}
	return m.Default, nil
}

// SetDepartment sets the greeting of a department.
func (s *Store) SetDepartment(department, message string) error {
	if strings.TrimSpace(department) == "" {
		return fmt.Errorf("department name is required")
	}
	return s.update(func(m *Messages) {
		m.Departments[department] = message
	})
}

// SetDefault sets the default greeting.
func (s *Store) SetDefault(message string) error {
	return s.update(func(m *Messages) {
		m.Default = message
	})
}

// Departments lists the departments with their own greeting, sorted.
func (s *Store) Departments() ([]string, error) {
	m, err := s.Load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(m.Departments))
	for name := range m.Departments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) update(fn func(*Messages)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.loadUnsafe()
	if err != nil {
		return err
	}
	fn(&m)
	if err := fsutil.WriteJSON(s.path, m); err != nil {
		return fmt.Errorf("failed to save welcome messages: %w", err)
	}
	return nil
}

func (s *Store) loadUnsafe() (Messages, error) {
	m := defaults()
	if _, err := fsutil.ReadJSON(s.path, &m); err != nil {
		return Messages{}, err
	}
	if m.Departments == nil {
		m.Departments = map[string]string{}
	}
	return m, nil
}

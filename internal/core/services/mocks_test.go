package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	response string
	err      error
	prompts  []string
	opts     []driven.GenerateOptions
}

func (m *mockLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	return m.response, m.err
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(_ context.Context) error { return m.err }

func (m *mockLLM) Close() error { return nil }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found")
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockTracker implements driven.Tracker for testing.
type mockTracker struct {
	users    []domain.TrackerUser
	labels   []domain.Label
	usersErr error
	labelErr error

	// failTitles makes CreateIssue return an error for these titles.
	failTitles map[string]bool
	// rejectTitles makes CreateIssue answer success=false for these titles.
	rejectTitles map[string]bool

	createdLabels []string
	requests      []domain.IssueRequest
	next          int
	calls         int
}

func (m *mockTracker) ListUsers(_ context.Context) ([]domain.TrackerUser, error) {
	m.calls++
	return m.users, m.usersErr
}

func (m *mockTracker) ListLabels(_ context.Context) ([]domain.Label, error) {
	m.calls++
	return m.labels, m.labelErr
}

func (m *mockTracker) CreateLabel(_ context.Context, name, _ string) (domain.Label, error) {
	m.calls++
	m.createdLabels = append(m.createdLabels, name)
	label := domain.Label{ID: "label-new", Name: name}
	m.labels = append(m.labels, label)
	return label, nil
}

func (m *mockTracker) CreateIssue(_ context.Context, req domain.IssueRequest) (domain.CreatedIssue, error) {
	m.calls++
	m.requests = append(m.requests, req)
	if m.failTitles[req.Title] {
		return domain.CreatedIssue{}, errors.New("network down")
	}
	if m.rejectTitles[req.Title] {
		return domain.CreatedIssue{Success: false}, nil
	}
	m.next++
	return domain.CreatedIssue{Success: true, Identifier: fmt.Sprintf("ENG-%d", m.next)}, nil
}

func (m *mockTracker) Close() error { return nil }

// mapConfigStore implements driven.ConfigStore over a map.
type mapConfigStore struct {
	mu     sync.RWMutex
	values map[string]any
	setErr error
}

func newMapConfigStore() *mapConfigStore {
	return &mapConfigStore{values: make(map[string]any)}
}

func (s *mapConfigStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *mapConfigStore) GetString(key string) string {
	v, _ := s.Get(key)
	str, _ := v.(string)
	return str
}

func (s *mapConfigStore) GetInt(key string) int {
	v, _ := s.Get(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

func (s *mapConfigStore) GetBool(key string) bool {
	v, _ := s.Get(key)
	b, _ := v.(bool)
	return b
}

func (s *mapConfigStore) GetStringSlice(key string) []string {
	v, _ := s.Get(key)
	ss, _ := v.([]string)
	return ss
}

func (s *mapConfigStore) Set(key string, value any) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *mapConfigStore) Save() error { return nil }

func (s *mapConfigStore) Load() error { return nil }

func (s *mapConfigStore) Path() string { return "memory" }

// mockValidator implements driven.AIConfigValidator for testing.
type mockValidator struct {
	err    error
	called bool
}

func (m *mockValidator) ValidateLLM(_ *domain.LLMSettings) error {
	m.called = true
	return m.err
}

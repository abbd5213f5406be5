package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// Files are only created on the first Load, never in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptActionExtraction: `You maintain the action item list of a running meeting notes document.
Read the notes below. Consider only meetings and content dated on or after %s; ignore anything older.

List every action item that is still open: a task someone agreed to do that the notes do not mark as done.
Merge duplicates that describe the same task for the same person.

Return ONLY a JSON array, no prose, where each element is an object with:
  "assignee": the first name of the person responsible, or "Unassigned" if nobody is named
  "description": one short imperative sentence describing the task

Return [] if there are no open action items.

Notes:
%s`,

	driven.PromptPing: `Reply with the single word: pong`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.actionsync/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(dir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for name.
// The first call writes any missing default files into the prompt directory.
// A prompt whose file is missing or unreadable falls back to its built-in
// default; unknown names are an error.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)

	s.mu.RLock()
	cached, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	fallback, known := defaultPrompts[name]
	if s.initErr != nil {
		if known {
			return fallback, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	prompt, err := s.loadFromFile(name)
	switch {
	case err == nil && prompt != "":
	case known:
		return fallback, nil
	case err != nil:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	default:
		return "", fmt.Errorf("load prompt %q: file is empty", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[name]; ok {
		return existing, nil
	}
	s.cache[name] = prompt
	return prompt, nil
}

// Reload drops cached prompts so edits on disk are picked up.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// Names lists the built-in prompt names in sorted order.
func (s *PromptStore) Names() []string {
	names := make([]string, 0, len(defaultPrompts))
	for name := range defaultPrompts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for _, name := range s.Names() {
		if err := writeIfMissing(filepath.Join(s.promptDir, name+".txt"), defaultPrompts[name]); err != nil {
			s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
			return
		}
	}

	if err := writeIfMissing(filepath.Join(s.promptDir, "README.md"), promptReadme); err != nil {
		s.initErr = fmt.Errorf("create prompt readme: %w", err)
	}
}

func (s *PromptStore) loadFromFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.promptDir, name+".txt"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil
	}
	return os.WriteFile(path, []byte(content), 0600)
}

const promptReadme = `# actionsync Prompts

This directory contains the prompts sent to the AI provider.

## Files

- ` + "`action_extraction.txt`" + ` - Extracts open action items as a JSON array
- ` + "`ping.txt`" + ` - Minimal prompt used by ` + "`actionsync settings validate`" + `

## Customisation

Edit any file to change what is extracted. Changes take effect on the next run.
Delete a file to restore its default.

## Format Placeholders

` + "`action_extraction.txt`" + ` must keep exactly two ` + "`%s`" + ` placeholders:
the cutoff date (YYYY-MM-DD) first, then the document text. A prompt with a
different number of placeholders is ignored and the built-in one is used.

The answer must contain a JSON array of objects with ` + "`assignee`" + ` and
` + "`description`" + ` fields; text around the array is ignored.
`

// Package markdown implements the document port over a local Markdown file.
// The file is parsed into an in-memory body and rewritten after every edit.
// Lines that were not edited are written back exactly as they were read.
package markdown

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/document/memory"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// Ensure Document implements the interfaces.
var (
	_ driven.Document     = (*Document)(nil)
	_ driven.AnchorLinker = (*Document)(nil)
)

// Document is a Markdown file opened for editing.
type Document struct {
	mu      sync.Mutex
	path    string
	body    *memory.Document
	sources map[string]sourceLine
	layout  layout
}

// Open reads and parses the file at path.
func Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("markdown: resolve %s: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("markdown: %s: %w", abs, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("markdown: read %s: %w", abs, err)
	}

	paragraphs, anchors := Parse(string(data))
	lines, l := splitLines(string(data))
	info := domain.DocumentInfo{
		ID:    abs,
		Title: title(paragraphs, abs),
		URL:   fileURL(abs),
	}

	body, err := memory.NewDocument(info, paragraphs, anchors)
	if err != nil {
		return nil, fmt.Errorf("markdown: %w", err)
	}

	sources := make(map[string]sourceLine, len(lines))
	for i, p := range body.Snapshot() {
		sources[p.Ref] = newSourceLine(lines[i], paragraphs[i].Text)
	}

	logger.Debug("markdown: %s: %d lines, %d anchors", abs, len(paragraphs), len(anchors))
	return &Document{path: abs, body: body, sources: sources, layout: l}, nil
}

func title(paragraphs []domain.Paragraph, path string) string {
	for _, p := range paragraphs {
		if p.IsTopLevelHeading() {
			return p.Text
		}
	}
	return filepath.Base(path)
}

func fileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

// Info returns the file path, title and file URL.
func (d *Document) Info(ctx context.Context) (domain.DocumentInfo, error) {
	return d.body.Info(ctx)
}

// Paragraphs returns the lines of the file.
func (d *Document) Paragraphs(ctx context.Context) ([]domain.Paragraph, error) {
	return d.body.Paragraphs(ctx)
}

// Anchors returns the heading attributes found in the file.
func (d *Document) Anchors(ctx context.Context) ([]domain.Anchor, error) {
	return d.body.Anchors(ctx)
}

// ReplaceRange edits the body and rewrites the file.
func (d *Document) ReplaceRange(ctx context.Context, start, end int, paragraphs []domain.Paragraph) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.body.ReplaceRange(ctx, start, end, paragraphs); err != nil {
		return fmt.Errorf("markdown: %w", err)
	}
	return d.save()
}

// UpdateText edits one line and rewrites the file.
func (d *Document) UpdateText(ctx context.Context, paragraph domain.Paragraph, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.body.UpdateText(ctx, paragraph, text); err != nil {
		return fmt.Errorf("markdown: %w", err)
	}
	return d.save()
}

// AnchorURL links to the heading inside the file.
func (d *Document) AnchorURL(anchor domain.Anchor) string {
	return fileURL(d.path) + "#" + anchor.ID
}

// Close is a no-op; every edit is already on disk.
func (d *Document) Close() error {
	return nil
}

// save writes the body to a temporary file and renames it over the original.
func (d *Document) save() error {
	byIndex := make(map[int]string)
	for id, idx := range d.body.AnchorIndexes() {
		byIndex[idx] = id
	}
	content := render(d.body.Snapshot(), byIndex, d.sources, d.layout)

	mode := os.FileMode(0644)
	if st, err := os.Stat(d.path); err == nil {
		mode = st.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), ".actionsync-*.md")
	if err != nil {
		return fmt.Errorf("markdown: write %s: %w", d.path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("markdown: write %s: %w", d.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("markdown: write %s: %w", d.path, err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("markdown: write %s: %w", d.path, err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("markdown: write %s: %w", d.path, err)
	}
	return nil
}

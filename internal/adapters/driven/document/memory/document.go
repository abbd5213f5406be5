// Package memory provides an in-memory document body.
// It backs the Markdown file adapter and serves as the document in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
)

// Ensure Document implements the interface.
var _ driven.Document = (*Document)(nil)

// Document holds a body of paragraphs and a set of anchors.
// Anchors point at paragraph refs so they follow their heading across edits.
type Document struct {
	mu         sync.RWMutex
	info       domain.DocumentInfo
	paragraphs []domain.Paragraph
	anchors    map[string]string
	mutations  int
}

// NewDocument creates a document from paragraphs and anchors keyed by id
// with the body index they point at. Paragraphs without a Ref get one.
func NewDocument(info domain.DocumentInfo, paragraphs []domain.Paragraph, anchors map[string]int) (*Document, error) {
	d := &Document{
		info:       info,
		paragraphs: make([]domain.Paragraph, len(paragraphs)),
		anchors:    make(map[string]string, len(anchors)),
	}
	copy(d.paragraphs, paragraphs)
	for i := range d.paragraphs {
		if d.paragraphs[i].Ref == "" {
			d.paragraphs[i].Ref = uuid.NewString()
		}
	}
	d.reindex()

	for id, idx := range anchors {
		if idx < 0 || idx >= len(d.paragraphs) {
			return nil, fmt.Errorf("anchor %q points at %d outside body: %w", id, idx, domain.ErrInvalidInput)
		}
		d.anchors[id] = d.paragraphs[idx].Ref
	}
	return d, nil
}

// Info returns the document description.
func (d *Document) Info(_ context.Context) (domain.DocumentInfo, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.info, nil
}

// Paragraphs returns a copy of the body.
func (d *Document) Paragraphs(_ context.Context) ([]domain.Paragraph, error) {
	return d.Snapshot(), nil
}

// Anchors returns the anchors that still point at a paragraph.
func (d *Document) Anchors(_ context.Context) ([]domain.Anchor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	anchors := make([]domain.Anchor, 0, len(d.anchors))
	for id, ref := range d.anchors {
		idx := d.indexOfRef(ref)
		if idx < 0 {
			continue
		}
		anchors = append(anchors, domain.Anchor{
			ID:             id,
			ParagraphIndex: idx,
			Label:          d.paragraphs[idx].Text,
		})
	}
	sortAnchors(anchors)
	return anchors, nil
}

// ReplaceRange removes [start, end) and inserts paragraphs at start.
func (d *Document) ReplaceRange(_ context.Context, start, end int, paragraphs []domain.Paragraph) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if start < 0 || end < start || end > len(d.paragraphs) {
		return fmt.Errorf("range [%d, %d) outside body of %d: %w", start, end, len(d.paragraphs), domain.ErrInvalidInput)
	}

	inserted := make([]domain.Paragraph, len(paragraphs))
	for i, p := range paragraphs {
		p.Ref = uuid.NewString()
		inserted[i] = p
	}

	body := make([]domain.Paragraph, 0, len(d.paragraphs)-(end-start)+len(inserted))
	body = append(body, d.paragraphs[:start]...)
	body = append(body, inserted...)
	body = append(body, d.paragraphs[end:]...)
	d.paragraphs = body
	d.reindex()
	d.mutations++
	return nil
}

// UpdateText rewrites the text of one paragraph in place.
func (d *Document) UpdateText(_ context.Context, paragraph domain.Paragraph, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.indexOfRef(paragraph.Ref)
	if idx < 0 {
		return fmt.Errorf("paragraph %d: %w", paragraph.Index, domain.ErrNotFound)
	}
	if d.paragraphs[idx].Text != paragraph.Text {
		return fmt.Errorf("paragraph %d: %w", paragraph.Index, domain.ErrStaleParagraph)
	}
	d.paragraphs[idx].Text = text
	d.mutations++
	return nil
}

// Close is a no-op.
func (d *Document) Close() error {
	return nil
}

// Snapshot returns a copy of the body with current indexes.
func (d *Document) Snapshot() []domain.Paragraph {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.Paragraph, len(d.paragraphs))
	copy(out, d.paragraphs)
	return out
}

// AnchorIndexes returns anchor ids mapped to the body index they point at.
func (d *Document) AnchorIndexes() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]int, len(d.anchors))
	for id, ref := range d.anchors {
		if idx := d.indexOfRef(ref); idx >= 0 {
			out[id] = idx
		}
	}
	return out
}

// Mutations returns how many successful edits were applied.
func (d *Document) Mutations() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.mutations
}

func (d *Document) reindex() {
	for i := range d.paragraphs {
		d.paragraphs[i].Index = i
	}
}

func (d *Document) indexOfRef(ref string) int {
	for i, p := range d.paragraphs {
		if p.Ref == ref {
			return i
		}
	}
	return -1
}

func sortAnchors(anchors []domain.Anchor) {
	sort.Slice(anchors, func(i, j int) bool {
		if anchors[i].ParagraphIndex != anchors[j].ParagraphIndex {
			return anchors[i].ParagraphIndex < anchors[j].ParagraphIndex
		}
		return anchors[i].ID < anchors[j].ID
	})
}

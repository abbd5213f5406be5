// Package googledocs implements the document port over the Google Docs API.
//
// Body elements map one to one onto paragraphs. Offsets are kept per element
// in UTF-16 code units, as the API counts them, and every batch update is
// pinned to the revision it was computed from.
package googledocs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/docs/v1"
	"google.golang.org/api/drive/v3"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/connectors/google"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// Ensure Document implements the interfaces.
var (
	_ driven.Document     = (*Document)(nil)
	_ driven.AnchorLinker = (*Document)(nil)
)

const editURLFormat = "https://docs.google.com/document/d/%s/edit"

// Document is a Google Docs document opened for editing.
type Document struct {
	mu      sync.Mutex
	id      string
	docs    *docs.Service
	drive   *drive.Service
	limiter *google.RateLimiter

	// current is the last fetched revision. Paragraph indexes handed out by
	// Paragraphs refer to it until the next mutation.
	current *body
	url     string
}

// New wraps API services for the document with the given id.
// driveSvc may be nil; the web link then falls back to the edit URL.
func New(docsSvc *docs.Service, driveSvc *drive.Service, documentID string) *Document {
	return &Document{
		id:      documentID,
		docs:    docsSvc,
		drive:   driveSvc,
		limiter: google.NewRateLimiter(google.ServiceDocs),
	}
}

// Open authenticates with the credentials file and checks the document is reachable.
func Open(ctx context.Context, documentID, credentialsFile string) (*Document, error) {
	if documentID == "" {
		return nil, fmt.Errorf("googledocs: document id required: %w", domain.ErrInvalidInput)
	}

	ts, err := google.NewTokenSource(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	docsSvc, err := google.NewDocsService(ctx, ts)
	if err != nil {
		return nil, err
	}
	driveSvc, err := google.NewDriveService(ctx, ts)
	if err != nil {
		return nil, err
	}

	d := New(docsSvc, driveSvc, documentID)
	if _, err := d.load(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Info returns the document id, title and web link.
func (d *Document) Info(ctx context.Context) (domain.DocumentInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.cached(ctx)
	if err != nil {
		return domain.DocumentInfo{}, err
	}
	return domain.DocumentInfo{
		ID:    d.id,
		Title: b.title,
		URL:   d.webLink(ctx),
	}, nil
}

// Paragraphs fetches the document and returns its body.
func (d *Document) Paragraphs(ctx context.Context) ([]domain.Paragraph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Paragraph, len(b.paragraphs))
	copy(out, b.paragraphs)
	return out, nil
}

// Anchors returns heading ids and named ranges of the last fetched revision.
func (d *Document) Anchors(ctx context.Context) ([]domain.Anchor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.cached(ctx)
	if err != nil {
		return nil, err
	}

	anchors := make([]domain.Anchor, 0, len(b.anchors))
	for id, idx := range b.anchors {
		anchors = append(anchors, domain.Anchor{
			ID:             id,
			ParagraphIndex: idx,
			Label:          b.paragraphs[idx].Text,
		})
	}
	sortAnchors(anchors)
	return anchors, nil
}

// ReplaceRange rewrites body elements [start, end) of the last fetched revision.
func (d *Document) ReplaceRange(ctx context.Context, start, end int, paragraphs []domain.Paragraph) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.cached(ctx)
	if err != nil {
		return err
	}

	requests, err := replaceRequests(b, start, end, paragraphs)
	if err != nil {
		return fmt.Errorf("googledocs: %w", err)
	}

	logger.Debug("googledocs: replacing elements [%d, %d) with %d paragraphs (%d requests)",
		start, end, len(paragraphs), len(requests))
	return d.batchUpdate(ctx, b.revision, requests)
}

// UpdateText refetches the document, checks the paragraph still carries the
// text it was read with and replaces that text.
func (d *Document) UpdateText(ctx context.Context, paragraph domain.Paragraph, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, err := d.load(ctx)
	if err != nil {
		return err
	}

	idx := paragraph.Index
	if idx < 0 || idx >= len(b.paragraphs) {
		return fmt.Errorf("googledocs: paragraph %d: %w", idx, domain.ErrNotFound)
	}
	if b.paragraphs[idx].Text != paragraph.Text {
		return fmt.Errorf("googledocs: paragraph %d: %w", idx, domain.ErrStaleParagraph)
	}

	return d.batchUpdate(ctx, b.revision, updateTextRequests(b.spans[idx], text))
}

// AnchorURL links to a heading. Named ranges have no link target, so they
// get the document link.
func (d *Document) AnchorURL(anchor domain.Anchor) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	base := d.url
	if base == "" {
		base = fmt.Sprintf(editURLFormat, d.id)
	}
	if d.current != nil && !d.current.headingIDs[anchor.ID] {
		return base
	}
	return base + "#heading=" + anchor.ID
}

// Close releases resources. The API clients hold no open connections.
func (d *Document) Close() error {
	return nil
}

func (d *Document) cached(ctx context.Context) (*body, error) {
	if d.current != nil {
		return d.current, nil
	}
	return d.load(ctx)
}

func (d *Document) load(ctx context.Context) (*body, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	doc, err := d.docs.Documents.Get(d.id).Context(ctx).Do()
	if err != nil {
		return nil, d.wrap(err, "get document")
	}

	d.current = mapDocument(doc)
	logger.Debug("googledocs: %s revision %s: %d elements, %d anchors",
		d.id, d.current.revision, len(d.current.paragraphs), len(d.current.anchors))
	return d.current, nil
}

func (d *Document) batchUpdate(ctx context.Context, revision string, requests []*docs.Request) error {
	d.current = nil
	if len(requests) == 0 {
		return nil
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	req := &docs.BatchUpdateDocumentRequest{
		Requests:     requests,
		WriteControl: &docs.WriteControl{RequiredRevisionId: revision},
	}
	if _, err := d.docs.Documents.BatchUpdate(d.id, req).Context(ctx).Do(); err != nil {
		return d.wrap(err, "batch update")
	}
	return nil
}

func (d *Document) wrap(err error, op string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if google.IsRateLimited(err) {
		d.limiter.RecordRateLimitError(google.RetryAfter(err))
	}
	if google.IsRevisionMismatch(err) {
		return fmt.Errorf("googledocs: %s: document changed while editing: %w", op, domain.ErrStaleParagraph)
	}
	return fmt.Errorf("googledocs: %s %s: %w", op, d.id, google.WrapError(err))
}

// webLink asks Drive for the sharing link once and remembers it.
func (d *Document) webLink(ctx context.Context) string {
	if d.url != "" {
		return d.url
	}

	d.url = fmt.Sprintf(editURLFormat, d.id)
	if d.drive == nil {
		return d.url
	}

	f, err := d.drive.Files.Get(d.id).Fields("webViewLink").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		logger.Debug("googledocs: web link lookup failed, using edit URL: %v", err)
		return d.url
	}
	if link := strings.TrimSpace(f.WebViewLink); link != "" {
		d.url = link
	}
	return d.url
}

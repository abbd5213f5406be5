// Package notion implements the document port over a Notion page.
//
// The top-level blocks of the page are its paragraphs. Nested children are
// not read; checklists and headings live at the top level in meeting notes.
package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jomei/notionapi"
	"golang.org/x/time/rate"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/logger"
)

// Ensure Document implements the interfaces.
var (
	_ driven.Document     = (*Document)(nil)
	_ driven.AnchorLinker = (*Document)(nil)
)

const (
	// pageSize is the largest page the children endpoint returns.
	pageSize = 100

	// appendLimit is the most children one append call accepts.
	appendLimit = 100

	requestTimeout = 30 * time.Second
)

// Document is a Notion page opened for editing.
type Document struct {
	mu      sync.Mutex
	client  *notionapi.Client
	pageID  string
	limiter *rate.Limiter

	info   *domain.DocumentInfo
	blocks []notionapi.Block
}

// New wraps a client for the page with the given id.
func New(client *notionapi.Client, pageID string) *Document {
	return &Document{
		client:  client,
		pageID:  pageID,
		limiter: rate.NewLimiter(rate.Limit(3), 3),
	}
}

// Open connects with an integration token and checks the page is shared with it.
func Open(ctx context.Context, apiKey, page string) (*Document, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("notion: api key required: %w", domain.ErrInvalidInput)
	}
	pageID, err := NormalizePageID(page)
	if err != nil {
		return nil, err
	}

	client := notionapi.NewClient(notionapi.Token(apiKey),
		notionapi.WithHTTPClient(&http.Client{Timeout: requestTimeout}))

	d := New(client, pageID)
	if _, err := d.Info(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Info returns the page id, title and URL.
func (d *Document) Info(ctx context.Context) (domain.DocumentInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.info != nil {
		return *d.info, nil
	}
	if err := d.limiter.Wait(ctx); err != nil {
		return domain.DocumentInfo{}, err
	}

	page, err := d.client.Page.Get(ctx, notionapi.PageID(d.pageID))
	if err != nil {
		return domain.DocumentInfo{}, wrapError(err, "get page")
	}

	url := page.URL
	if url == "" {
		url = "https://www.notion.so/" + d.pageID
	}
	d.info = &domain.DocumentInfo{ID: d.pageID, Title: pageTitle(page), URL: url}
	return *d.info, nil
}

// Paragraphs fetches the top-level blocks of the page.
func (d *Document) Paragraphs(ctx context.Context) ([]domain.Paragraph, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	blocks, err := d.fetch(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Paragraph, len(blocks))
	for i, b := range blocks {
		out[i] = mapBlock(i, b)
	}
	return out, nil
}

// Anchors returns the heading blocks of the last fetched body. The anchor id
// is the block id without dashes, as it appears in Notion links.
func (d *Document) Anchors(ctx context.Context) ([]domain.Anchor, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	blocks, err := d.cached(ctx)
	if err != nil {
		return nil, err
	}

	var anchors []domain.Anchor
	for i, b := range blocks {
		p := mapBlock(i, b)
		if p.Kind != domain.KindHeading {
			continue
		}
		anchors = append(anchors, domain.Anchor{
			ID:             compactID(b.GetID()),
			ParagraphIndex: i,
			Label:          p.Text,
		})
	}
	return anchors, nil
}

// ReplaceRange deletes blocks [start, end) and appends the new blocks after
// the block before start. The page must have a block above the range.
func (d *Document) ReplaceRange(ctx context.Context, start, end int, paragraphs []domain.Paragraph) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	blocks, err := d.cached(ctx)
	if err != nil {
		return err
	}
	if start < 0 || end < start || end > len(blocks) {
		return fmt.Errorf("notion: range [%d, %d) outside body of %d: %w", start, end, len(blocks), domain.ErrInvalidInput)
	}
	if start == 0 && len(blocks) > 0 {
		return fmt.Errorf("notion: cannot insert before the first block: %w", domain.ErrInvalidInput)
	}
	d.blocks = nil

	for _, b := range blocks[start:end] {
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := d.client.Block.Delete(ctx, b.GetID()); err != nil {
			return wrapError(err, "delete block")
		}
	}

	var after notionapi.BlockID
	if start > 0 {
		after = blocks[start-1].GetID()
	}

	children := make([]notionapi.Block, len(paragraphs))
	for i, p := range paragraphs {
		children[i] = toBlock(p)
	}

	for len(children) > 0 {
		n := min(len(children), appendLimit)
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
		resp, err := d.client.Block.AppendChildren(ctx, notionapi.BlockID(d.pageID), &notionapi.AppendBlockChildrenRequest{
			After:    after,
			Children: children[:n],
		})
		if err != nil {
			return wrapError(err, "append blocks")
		}
		if len(resp.Results) > 0 {
			after = resp.Results[len(resp.Results)-1].GetID()
		}
		children = children[n:]
	}

	logger.Debug("notion: replaced blocks [%d, %d) with %d blocks", start, end, len(paragraphs))
	return nil
}

// UpdateText reloads the block, checks its text and rewrites it.
func (d *Document) UpdateText(ctx context.Context, paragraph domain.Paragraph, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if paragraph.Ref == "" {
		return fmt.Errorf("notion: paragraph %d has no block id: %w", paragraph.Index, domain.ErrInvalidInput)
	}
	id := notionapi.BlockID(paragraph.Ref)

	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	live, err := d.client.Block.Get(ctx, id)
	if err != nil {
		return wrapError(err, "get block")
	}

	current, ok := blockText(live)
	if !ok || live.GetArchived() || current != paragraph.Text {
		return fmt.Errorf("notion: block %s: %w", id, domain.ErrStaleParagraph)
	}

	req, err := updateRequest(live, text)
	if err != nil {
		return err
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}
	if _, err := d.client.Block.Update(ctx, id, req); err != nil {
		return wrapError(err, "update block")
	}
	d.blocks = nil
	return nil
}

// AnchorURL links to a heading block on the page.
func (d *Document) AnchorURL(anchor domain.Anchor) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	base := "https://www.notion.so/" + d.pageID
	if d.info != nil {
		base = d.info.URL
	}
	return base + "#" + anchor.ID
}

// Close releases resources.
func (d *Document) Close() error {
	return nil
}

func (d *Document) cached(ctx context.Context) ([]notionapi.Block, error) {
	if d.blocks != nil {
		return d.blocks, nil
	}
	return d.fetch(ctx)
}

func (d *Document) fetch(ctx context.Context) ([]notionapi.Block, error) {
	var (
		blocks []notionapi.Block
		cursor notionapi.Cursor
	)

	for {
		if err := d.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := d.client.Block.GetChildren(ctx, notionapi.BlockID(d.pageID), &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, wrapError(err, "list blocks")
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = notionapi.Cursor(resp.NextCursor)
	}

	if blocks == nil {
		blocks = []notionapi.Block{}
	}
	d.blocks = blocks
	logger.Debug("notion: page %s: %d top-level blocks", d.pageID, len(blocks))
	return blocks, nil
}

// wrapError maps Notion API errors onto domain errors.
func wrapError(err error, op string) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *notionapi.RateLimitedError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("notion: %s: %s: %w", op, rateErr.Message, domain.ErrRateLimited)
	}

	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("notion: %s: %s: %w", op, apiErr.Message, domain.ErrAuthInvalid)
		case http.StatusNotFound:
			return fmt.Errorf("notion: %s: %s: %w", op, apiErr.Message, domain.ErrNotFound)
		case http.StatusBadRequest:
			return fmt.Errorf("notion: %s: %s: %w", op, apiErr.Message, domain.ErrInvalidInput)
		}
	}

	return fmt.Errorf("notion: %s: %w", op, err)
}

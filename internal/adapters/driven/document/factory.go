// Package document opens the document backend selected by settings.
package document

import (
	"context"
	"fmt"

	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/document/googledocs"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/document/markdown"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/adapters/driven/document/notion"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/domain"
	"github.com/rgckd/kd-meeting-action-items-linear/internal/core/ports/driven"
)

// Open opens the document described by settings.
// Returns nil without error when no document is configured.
func Open(ctx context.Context, settings *domain.DocumentSettings) (driven.Document, error) {
	if settings == nil || settings.ID == "" {
		return nil, nil
	}

	var (
		doc driven.Document
		err error
	)

	switch settings.Backend {
	case domain.DocumentBackendGoogleDocs:
		doc, err = googledocs.Open(ctx, settings.ID, settings.CredentialsFile)
	case domain.DocumentBackendNotion:
		doc, err = notion.Open(ctx, settings.NotionAPIKey, settings.ID)
	case domain.DocumentBackendMarkdown:
		doc, err = markdown.Open(settings.ID)
	default:
		return nil, fmt.Errorf("%w: document backend %q", domain.ErrUnsupportedType, settings.Backend)
	}

	if err != nil {
		return nil, err
	}
	return doc, nil
}

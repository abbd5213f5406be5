// Package google provides shared infrastructure for the Google Docs document
// backend.
//
// It contains:
//   - Token sources built from a service account or authorized user JSON
//     file, or from Application Default Credentials
//   - Service factories for the Docs and Drive API clients
//   - Error classification for common Google API errors (401, 403, 404, 429)
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	ts, err := google.NewTokenSource(ctx, credentialsFile)
//	docsSvc, err := google.NewDocsService(ctx, ts)
//	driveSvc, err := google.NewDriveService(ctx, ts)
//
// # OAuth2 Scopes
//
//   - https://www.googleapis.com/auth/documents (edit the notes document)
//   - https://www.googleapis.com/auth/drive.metadata.readonly (web link)
//
// A service account must be given edit access to the document.
package google

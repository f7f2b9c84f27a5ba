package export

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/caption-relay/internal/viewer"
)

// Service defines the transcript export use case
type Service interface {
	// Export renders the finalized transcript the way a viewer would see it.
	// With object storage configured the text is archived and a presigned
	// URL is returned; otherwise the text is returned inline.
	Export(ctx context.Context, input ExportInput) (*ExportResult, error)

	// ListExports lists archived export objects of an event
	ListExports(ctx context.Context, eventID uuid.UUID) ([]string, error)
}

// ExportInput selects what to render. An empty Language exports originals only.
type ExportInput struct {
	EventID  uuid.UUID
	Language string
	Mode     viewer.ViewMode
}

// ExportResult is a rendered transcript
type ExportResult struct {
	EventID     uuid.UUID
	Language    string
	Mode        viewer.ViewMode
	Lines       int
	Text        string
	ObjectName  string
	URL         string
	GeneratedAt time.Time
}

// Uploader archives rendered exports
type Uploader interface {
	UploadText(ctx context.Context, objectName string, content string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}

// Ensure ExportService implements Service interface
var _ Service = (*ExportService)(nil)

package export

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	sqliterepo "github.com/johnquangdev/caption-relay/internal/adapter/repository/sqlite"
	"github.com/johnquangdev/caption-relay/internal/domain/entities"
	"github.com/johnquangdev/caption-relay/internal/domain/repositories"
	"github.com/johnquangdev/caption-relay/internal/infrastructure/database"
	usecaseErrors "github.com/johnquangdev/caption-relay/internal/usecase/errors"
	"github.com/johnquangdev/caption-relay/internal/viewer"
)

type memoryUploader struct {
	mu      sync.Mutex
	objects map[string]string
}

func (u *memoryUploader) UploadText(_ context.Context, objectName string, content string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.objects == nil {
		u.objects = map[string]string{}
	}
	u.objects[objectName] = content
	return nil
}

func (u *memoryUploader) GetFileURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://files.test/" + objectName + "?sig=1", nil
}

func (u *memoryUploader) ListFiles(_ context.Context, prefix string) ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	var out []string
	for name := range u.objects {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out, nil
}

func seed(t *testing.T) (*repositories.Store, uuid.UUID) {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db, database.DialectSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := sqliterepo.NewStore(db)

	ctx := context.Background()
	event := entities.NewEvent(uuid.New(), "Keynote", nil)
	if err := store.Events.Create(ctx, event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	first := entities.NewSegment(event.ID, 1, "Hello everyone", nil)
	second := entities.NewSegment(event.ID, 2, "Welcome", nil)
	for _, seg := range []*entities.Segment{first, second} {
		if err := store.Segments.Append(ctx, seg); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := store.Translations.InsertBatch(ctx, []entities.Translation{
		entities.NewTranslation(*first, "fr", "Bonjour à tous"),
	}); err != nil {
		t.Fatalf("insert translation: %v", err)
	}
	return store, event.ID
}

func TestExport_InlineWithoutStorage(t *testing.T) {
	store, eventID := seed(t)
	svc := NewExportService(store, nil, 0, nil)

	got, err := svc.Export(context.Background(), ExportInput{EventID: eventID, Language: "FR", Mode: viewer.ViewBoth})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := "Hello everyone\n    Bonjour à tous\nWelcome\n    " + viewer.PendingText + "\n"
	if got.Text != want {
		t.Errorf("text = %q, want %q", got.Text, want)
	}
	if got.Language != "fr" || got.Lines != 4 {
		t.Errorf("language = %q lines = %d", got.Language, got.Lines)
	}
	if got.URL != "" || got.ObjectName != "" {
		t.Errorf("inline export should not carry a url: %+v", got)
	}
}

func TestExport_OriginalsOnly(t *testing.T) {
	store, eventID := seed(t)
	svc := NewExportService(store, nil, 0, nil)

	got, err := svc.Export(context.Background(), ExportInput{EventID: eventID})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got.Text != "Hello everyone\nWelcome\n" {
		t.Errorf("text = %q", got.Text)
	}
}

func TestExport_UploadsAndSigns(t *testing.T) {
	store, eventID := seed(t)
	uploader := &memoryUploader{}
	svc := NewExportService(store, uploader, time.Minute, nil)

	got, err := svc.Export(context.Background(), ExportInput{EventID: eventID, Language: "fr", Mode: viewer.ViewTranslation})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(got.ObjectName, "exports/"+eventID.String()+"/") || !strings.HasSuffix(got.ObjectName, "-fr-translation.txt") {
		t.Errorf("object name = %q", got.ObjectName)
	}
	if uploader.objects[got.ObjectName] != got.Text {
		t.Errorf("uploaded content mismatch")
	}
	if !strings.Contains(got.URL, got.ObjectName) {
		t.Errorf("url = %q", got.URL)
	}

	files, err := svc.ListExports(context.Background(), eventID)
	if err != nil {
		t.Fatalf("ListExports: %v", err)
	}
	if len(files) != 1 || files[0] != got.ObjectName {
		t.Errorf("files = %v", files)
	}
}

func TestExport_Validation(t *testing.T) {
	store, eventID := seed(t)
	svc := NewExportService(store, nil, 0, nil)

	if _, err := svc.Export(context.Background(), ExportInput{}); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Errorf("missing event: err = %v", err)
	}
	if _, err := svc.Export(context.Background(), ExportInput{EventID: eventID, Language: "not a tag"}); !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Errorf("bad language: err = %v", err)
	}
	if _, err := svc.ListExports(context.Background(), eventID); !errors.Is(err, usecaseErrors.ErrStorageDisabled) {
		t.Errorf("ListExports without storage: err = %v", err)
	}
}

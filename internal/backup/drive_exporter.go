package backup

import (
	"bytes"
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

type backupLister interface {
	ListAll(ctx context.Context, since time.Time) ([]Backup, error)
}

// DriveExporter copies the latest backups into a Google Drive folder, one
// JSON file per user, replacing the previous copy.
type DriveExporter struct {
	service  *drive.Service
	lister   backupLister
	folderID string
}

func NewDriveExporter(ctx context.Context, credentialsJSON []byte, folderName string, lister backupLister) (*DriveExporter, error) {
	driveService, err := drive.NewService(ctx, option.WithCredentialsJSON(credentialsJSON))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve drive client: %w", err)
	}

	e := &DriveExporter{
		service: driveService,
		lister:  lister,
	}

	folderID, err := e.findOrCreateFolder(ctx, folderName)
	if err != nil {
		return nil, fmt.Errorf("backups folder: %w", err)
	}
	e.folderID = folderID
	log.Debugf("[drive export] backups folder ID: %s", folderID)

	return e, nil
}

func (e *DriveExporter) findOrCreateFolder(ctx context.Context, name string) (string, error) {
	q := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false", name, folderMimeType)
	res, err := e.service.Files.List().Q(q).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(res.Files) > 0 {
		return res.Files[0].Id, nil
	}

	folder, err := e.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	log.Printf("[drive export] backups folder created: %s", folder.Id)
	return folder.Id, nil
}

// Export uploads every backup updated since the given time and returns how many were written.
func (e *DriveExporter) Export(ctx context.Context, since time.Time) (int, error) {
	backups, err := e.lister.ListAll(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("list backups: %w", err)
	}

	exported := 0
	for _, b := range backups {
		if err := e.upload(ctx, b); err != nil {
			log.Errorf("[drive export] upload backup of [%s]: %s", b.UserID, err)
			continue
		}
		exported++
	}
	log.Printf("[drive export] exported %d/%d backups", exported, len(backups))
	return exported, nil
}

func (e *DriveExporter) upload(ctx context.Context, b Backup) error {
	name := ExportFileName(b.UserID)
	q := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false", name, e.folderID)
	existing, err := e.service.Files.List().Q(q).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return err
	}

	if len(existing.Files) > 0 {
		_, err = e.service.Files.Update(existing.Files[0].Id, &drive.File{}).
			Media(bytes.NewReader(b.Data)).
			Context(ctx).
			Do()
		return err
	}

	_, err = e.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: "application/json",
		Parents:  []string{e.folderID},
	}).Fields("id").Media(bytes.NewReader(b.Data)).Context(ctx).Do()
	return err
}

func ExportFileName(userID string) string {
	return fmt.Sprintf("gymlog-backup-%s.json", userID)
}

package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/utils"
)

const folderMimeType = "application/vnd.google-apps.folder"

// GoogleDrive talks to Google Drive with a service-account key. All folders
// and files are created under one fixed parent folder shared with the
// service account.
type GoogleDrive struct {
	creds  []byte
	rootID string
	logger *utils.Logger

	svc *drive.Service
}

// NewGoogleDrive prepares a client for the given parent folder. No network
// calls happen until Authenticate.
func NewGoogleDrive(credsJSON []byte, rootFolderID string, logger *utils.Logger) *GoogleDrive {
	return &GoogleDrive{creds: credsJSON, rootID: rootFolderID, logger: logger}
}

// Authenticate builds a Drive session from the service-account key,
// replacing any previous one.
func (g *GoogleDrive) Authenticate(ctx context.Context) error {
	jwtCfg, err := google.JWTConfigFromJSON(g.creds, drive.DriveScope)
	if err != nil {
		return fmt.Errorf("drive: parse service account key: %w", err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return fmt.Errorf("drive: build service: %w", err)
	}

	g.svc = svc
	g.logger.Debug("[drive] Authenticated service account")
	return nil
}

// VerifyRootAccess fetches the parent folder's metadata so credential or
// sharing problems surface before any upload is attempted.
func (g *GoogleDrive) VerifyRootAccess(ctx context.Context) error {
	folder, err := g.svc.Files.Get(g.rootID).Fields("id", "name").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("drive: access parent folder %s: %w", g.rootID, err)
	}
	g.logger.Info("[drive] Parent folder accessible: %s", folder.Name)
	return nil
}

// FindFolder looks a folder up by exact name under the parent.
func (g *GoogleDrive) FindFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf(
		"name='%s' and '%s' in parents and mimeType='%s' and trashed=false",
		name, g.rootID, folderMimeType,
	)

	list, err := g.svc.Files.List().
		Q(query).
		Spaces("drive").
		Fields("files(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive: search folder %q: %w", name, err)
	}

	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

func (g *GoogleDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	folder, err := g.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{g.rootID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("drive: create folder %q: %w", name, err)
	}

	g.logger.Info("[drive] Created folder %q (%s)", name, folder.Id)
	return folder.Id, nil
}

func (g *GoogleDrive) UploadFile(ctx context.Context, localPath, folderID string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("drive: open %q: %w", localPath, err)
	}
	defer f.Close()

	name := filepath.Base(localPath)
	uploaded, err := g.svc.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{folderID},
	}).Media(f).Fields("id").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("drive: upload %q: %w", name, err)
	}

	g.logger.Info("[drive] Uploaded %s (%s)", name, uploaded.Id)
	return nil
}

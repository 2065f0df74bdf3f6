package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/config"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/utils"
)

// Uploader delivers exported files into a date-named folder on a RemoteDrive.
// The folder is resolved once and cached for the rest of the run, so every
// batch of the same run lands in the same place.
type Uploader struct {
	drive      RemoteDrive
	logger     *utils.Logger
	retry      *utils.RetryConfig
	targetDate string

	folderID string
}

// NewUploader wires an uploader for one run. targetDate names the
// destination folder.
func NewUploader(drive RemoteDrive, cfg *config.Config, targetDate string, logger *utils.Logger) *Uploader {
	u := &Uploader{
		drive:      drive,
		logger:     logger,
		targetDate: targetDate,
	}
	u.retry = &utils.RetryConfig{
		MaxAttempts: cfg.UploadRetries,
		Delay:       cfg.UploadRetryDelay,
		Logger:      logger,
		// Fresh session before every retry; stale credentials are the
		// usual transient failure.
		OnRetry: func(int) { u.reauthenticate() },
	}
	return u
}

// Setup authenticates and proves the parent folder is reachable. A failure
// here is fatal for the run: nothing can be delivered without it.
func (u *Uploader) Setup(ctx context.Context) error {
	if err := u.drive.Authenticate(ctx); err != nil {
		return err
	}
	return u.drive.VerifyRootAccess(ctx)
}

// UploadBatch pushes each file into the run's date folder and returns the
// subset confirmed uploaded. Per-file failures are logged and skipped; only
// an unresolvable destination folder is returned as an error.
func (u *Uploader) UploadBatch(ctx context.Context, files []string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	folderID, err := u.ensureFolder(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve folder %q: %w", u.targetDate, err)
	}

	var uploaded []string
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			u.logger.Error("[upload] File missing, skipping: %s", file)
			continue
		}

		name := filepath.Base(file)
		err := u.retry.Do("upload "+name, func() error {
			return u.drive.UploadFile(ctx, file, folderID)
		})
		if err != nil {
			u.logger.Error("[upload] Giving up on %s: %v", name, err)
			continue
		}
		uploaded = append(uploaded, file)
	}

	u.logger.Info("[upload] Batch done — %d/%d files uploaded", len(uploaded), len(files))
	return uploaded, nil
}

// ensureFolder finds or creates the date folder under the parent. Lookup
// runs before create so repeated runs for the same date converge on one
// folder.
func (u *Uploader) ensureFolder(ctx context.Context) (string, error) {
	if u.folderID != "" {
		return u.folderID, nil
	}

	id, err := u.drive.FindFolder(ctx, u.targetDate)
	if err != nil {
		return "", err
	}
	if id == "" {
		id, err = u.drive.CreateFolder(ctx, u.targetDate)
		if err != nil {
			return "", err
		}
	} else {
		u.logger.Info("[upload] Reusing existing folder %q (%s)", u.targetDate, id)
	}

	u.folderID = id
	return id, nil
}

func (u *Uploader) reauthenticate() {
	if err := u.drive.Authenticate(context.Background()); err != nil {
		u.logger.Warn("[upload] Re-authentication failed: %v", err)
	}
}

package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Test90-kw/4sale-jobs-and-others-scraping/config"
	"github.com/Test90-kw/4sale-jobs-and-others-scraping/utils"
)

type fakeDrive struct {
	authCalls    int
	verifyCalls  int
	findCalls    int
	createCalls  int
	uploadCalls  map[string]int
	lastFolderID string

	existing    map[string]string // folder name → id
	failUploads map[string]int    // file base name → failures left
	findErr     error
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		uploadCalls: make(map[string]int),
		existing:    make(map[string]string),
		failUploads: make(map[string]int),
	}
}

func (f *fakeDrive) Authenticate(ctx context.Context) error {
	f.authCalls++
	return nil
}

func (f *fakeDrive) VerifyRootAccess(ctx context.Context) error {
	f.verifyCalls++
	return nil
}

func (f *fakeDrive) FindFolder(ctx context.Context, name string) (string, error) {
	f.findCalls++
	if f.findErr != nil {
		return "", f.findErr
	}
	return f.existing[name], nil
}

func (f *fakeDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	f.createCalls++
	id := "folder-" + name
	f.existing[name] = id
	return id, nil
}

func (f *fakeDrive) UploadFile(ctx context.Context, localPath, folderID string) error {
	name := filepath.Base(localPath)
	f.uploadCalls[name]++
	f.lastFolderID = folderID
	if left := f.failUploads[name]; left > 0 {
		f.failUploads[name] = left - 1
		return errors.New("backend unavailable")
	}
	return nil
}

func newTestUploader(drive RemoteDrive) *Uploader {
	cfg := &config.Config{UploadRetries: 3, UploadRetryDelay: 0}
	return NewUploader(drive, cfg, "2024-01-01", utils.NewLogger())
}

func tempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSetupAuthenticatesAndVerifies(t *testing.T) {
	drive := newFakeDrive()
	u := newTestUploader(drive)

	if err := u.Setup(context.Background()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if drive.authCalls != 1 {
		t.Errorf("auth calls: got %d, want 1", drive.authCalls)
	}
	if drive.verifyCalls != 1 {
		t.Errorf("verify calls: got %d, want 1", drive.verifyCalls)
	}
}

func TestUploadBatchResolvesFolderOnce(t *testing.T) {
	drive := newFakeDrive()
	u := newTestUploader(drive)

	uploaded, err := u.UploadBatch(context.Background(), []string{tempFile(t, "a.xlsx")})
	if err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if len(uploaded) != 1 {
		t.Fatalf("got %d uploaded, want 1", len(uploaded))
	}
	if drive.findCalls != 1 || drive.createCalls != 1 {
		t.Errorf("find=%d create=%d, want 1 and 1", drive.findCalls, drive.createCalls)
	}

	// A later batch in the same run reuses the cached folder id.
	if _, err := u.UploadBatch(context.Background(), []string{tempFile(t, "b.xlsx")}); err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if drive.findCalls != 1 || drive.createCalls != 1 {
		t.Errorf("after second batch: find=%d create=%d, want 1 and 1", drive.findCalls, drive.createCalls)
	}
}

func TestUploadBatchReusesExistingFolder(t *testing.T) {
	drive := newFakeDrive()
	drive.existing["2024-01-01"] = "abc123"
	u := newTestUploader(drive)

	if _, err := u.UploadBatch(context.Background(), []string{tempFile(t, "a.xlsx")}); err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if drive.createCalls != 0 {
		t.Errorf("create calls: got %d, want 0", drive.createCalls)
	}
	if drive.lastFolderID != "abc123" {
		t.Errorf("uploaded into %q, want %q", drive.lastFolderID, "abc123")
	}
}

func TestUploadRetriesThenSucceeds(t *testing.T) {
	drive := newFakeDrive()
	drive.failUploads["a.xlsx"] = 2
	u := newTestUploader(drive)

	uploaded, err := u.UploadBatch(context.Background(), []string{tempFile(t, "a.xlsx")})
	if err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if len(uploaded) != 1 {
		t.Errorf("got %d uploaded, want 1", len(uploaded))
	}
	if drive.uploadCalls["a.xlsx"] != 3 {
		t.Errorf("upload attempts: got %d, want 3", drive.uploadCalls["a.xlsx"])
	}
}

func TestUploadExhaustsRetries(t *testing.T) {
	drive := newFakeDrive()
	drive.failUploads["a.xlsx"] = 3
	u := newTestUploader(drive)

	uploaded, err := u.UploadBatch(context.Background(), []string{tempFile(t, "a.xlsx")})
	if err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if len(uploaded) != 0 {
		t.Errorf("got %d uploaded, want 0", len(uploaded))
	}
	// Exactly MaxAttempts, never a fourth.
	if drive.uploadCalls["a.xlsx"] != 3 {
		t.Errorf("upload attempts: got %d, want 3", drive.uploadCalls["a.xlsx"])
	}
}

func TestUploadReauthenticatesBetweenAttempts(t *testing.T) {
	drive := newFakeDrive()
	drive.failUploads["a.xlsx"] = 3
	u := newTestUploader(drive)

	if _, err := u.UploadBatch(context.Background(), []string{tempFile(t, "a.xlsx")}); err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	// One re-authentication before each of the two retries.
	if drive.authCalls != 2 {
		t.Errorf("auth calls: got %d, want 2", drive.authCalls)
	}
}

func TestUploadSkipsMissingFile(t *testing.T) {
	drive := newFakeDrive()
	u := newTestUploader(drive)

	missing := filepath.Join(t.TempDir(), "never-written.xlsx")
	uploaded, err := u.UploadBatch(context.Background(), []string{missing})
	if err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if len(uploaded) != 0 {
		t.Errorf("got %d uploaded, want 0", len(uploaded))
	}
	if len(drive.uploadCalls) != 0 {
		t.Errorf("expected no upload attempts, got %v", drive.uploadCalls)
	}
}

func TestUploadBatchConfirmsOnlySuccesses(t *testing.T) {
	drive := newFakeDrive()
	drive.failUploads["bad.xlsx"] = 3
	u := newTestUploader(drive)

	good := tempFile(t, "good.xlsx")
	bad := tempFile(t, "bad.xlsx")

	uploaded, err := u.UploadBatch(context.Background(), []string{bad, good})
	if err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if len(uploaded) != 1 || uploaded[0] != good {
		t.Errorf("uploaded: got %v, want [%s]", uploaded, good)
	}
}

func TestUploadBatchFolderFailureIsFatal(t *testing.T) {
	drive := newFakeDrive()
	drive.findErr = errors.New("quota exceeded")
	u := newTestUploader(drive)

	uploaded, err := u.UploadBatch(context.Background(), []string{tempFile(t, "a.xlsx")})
	if err == nil {
		t.Fatal("expected folder resolution error")
	}
	if uploaded != nil {
		t.Errorf("uploaded: got %v, want none", uploaded)
	}
	if len(drive.uploadCalls) != 0 {
		t.Errorf("expected no upload attempts, got %v", drive.uploadCalls)
	}
}

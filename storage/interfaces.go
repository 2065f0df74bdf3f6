package storage

import "context"

// RemoteDrive is the interface any cloud storage backend must satisfy.
type RemoteDrive interface {
	// Authenticate opens a fresh session. Calling it again replaces any
	// previous session entirely.
	Authenticate(ctx context.Context) error
	// VerifyRootAccess proves the configured parent folder is reachable
	// with the current credentials.
	VerifyRootAccess(ctx context.Context) error
	// FindFolder returns the id of a folder with that name under the
	// parent, or "" when no such folder exists.
	FindFolder(ctx context.Context, name string) (string, error)
	CreateFolder(ctx context.Context, name string) (string, error)
	UploadFile(ctx context.Context, localPath, folderID string) error
}

package repository

import (
	"context"
)

// StorageRepository defines the interface for staging input workbooks from object storage.
type StorageRepository interface {
	GetCallerIdentity(ctx context.Context, profile, region string) (string, error)
	// DownloadObjects fetches prefix+name for every name into destDir and returns the local paths.
	DownloadObjects(ctx context.Context, profile, region, bucket, prefix string, names []string, destDir string) ([]string, error)
}

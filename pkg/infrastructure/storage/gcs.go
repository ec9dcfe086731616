// Package storage holds the BlobStore implementations used for catalogs,
// week artifacts, FIT exports and the vector cache.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"cloud.google.com/go/storage"
)

// StorageAdapter reads and writes objects in Google Cloud Storage.
type StorageAdapter struct {
	Client *storage.Client
}

func (a *StorageAdapter) Write(ctx context.Context, bucketName, objectName string, data []byte) error {
	wc := a.Client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}

// Read returns fs.ErrNotExist (wrapped) when the object is missing.
func (a *StorageAdapter) Read(ctx context.Context, bucketName, objectName string) ([]byte, error) {
	rc, err := a.Client.Bucket(bucketName).Object(objectName).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("gs://%s/%s: %w", bucketName, objectName, fs.ErrNotExist)
		}
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

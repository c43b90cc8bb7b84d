package repository

import (
	"context"
	"errors"

	"github.com/ieee-synapse/synapse-api/internal/domain"
)

var errBlobNotFound = errors.New("blob not found")

var errNoBlobBackend = errors.New("blob storage is not configured")

type nopBlobs struct{}

func (nopBlobs) ForSession(domain.SessionID) BlobStore { return nopBlobs{} }

func (nopBlobs) Put(context.Context, []byte, string, string) (string, error) {
	return "", errNoBlobBackend
}

func (nopBlobs) Get(context.Context, string) (domain.Blob, error) {
	return domain.Blob{}, errBlobNotFound
}

func (nopBlobs) Delete(context.Context, string) error {
	return nil
}

// NoBlobs is a backend for tools that never touch thumbnails.
var NoBlobs BlobBackend = nopBlobs{}

package services

import (
	"context"
	"fmt"
	"time"
)

// BlobGateway issues scoped, time-bounded write URLs and probes object
// existence/size (spec.md §4.1). Pure wrapper over an object store; no
// business rules live here.
type BlobGateway interface {
	// GenerateWriteURL returns a signed URL the caller may PUT the
	// object to directly, and its expiry.
	GenerateWriteURL(ctx context.Context, path, contentType string, ttl time.Duration) (url string, expiry time.Time, err error)

	// Exists probes whether the object at path has been written, and
	// its size in bytes.
	Exists(ctx context.Context, path string) (exists bool, sizeBytes int64, err error)

	// ReadURL returns a time-bounded signed URL an STT provider can
	// fetch the audio object from.
	ReadURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}

// ObjectPath derives the audio object path for (owner, session,
// extension), per spec.md §6 "Persisted artefacts":
// audio-uploads/{owner_id}/{session_id}.{ext}.
func ObjectPath(ownerID, sessionID, ext string) string {
	return fmt.Sprintf("audio-uploads/%s/%s.%s", ownerID, sessionID, ext)
}

// Package media wraps the remote object-storage service the platform keeps
// course attachments in. Handlers depend on the Gateway interface so tests can
// substitute a recorder for the real Cloudinary client.
package media

import (
	"context"
	"fmt"
)

// Kind distinguishes image objects from generic/raw ones. The remote service
// needs it to locate an object, both on upload and on destroy.
type Kind string

const (
	KindImage Kind = "image"
	KindRaw   Kind = "raw"
)

// Folders the platform stores course attachments under.
const (
	CourseImageFolder = "courses/images"
	CourseFileFolder  = "courses/files"
)

// Gateway is the boundary to the remote media store.
//
// Upload pushes buf under folder/name and returns the public retrieval URL.
// A failed upload must abort the enclosing request; callers do not retry.
//
// Destroy removes the object identified by its folder-qualified public id.
// Callers treat failures as best-effort cleanup: log and move on.
type Gateway interface {
	Upload(ctx context.Context, buf []byte, folder, name string, kind Kind) (string, error)
	Destroy(ctx context.Context, publicID string, kind Kind) error
}

// UploadError carries the service's error detail for a rejected or failed
// upload.
type UploadError struct {
	StatusCode int
	Detail     string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("media upload failed (status %d): %s", e.StatusCode, e.Detail)
}

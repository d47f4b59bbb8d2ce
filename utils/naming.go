package utils

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileObjectName derives a collision-resistant object name for a generic
// attachment: fixed prefix, millisecond timestamp, short random token, and the
// original filename's extension preserved verbatim (empty if there is none).
// Uniqueness is probabilistic, not guaranteed; the token only has to beat
// same-millisecond collisions at this system's request rate.
func FileObjectName(originalName string) string {
	ext := filepath.Ext(originalName)
	return fmt.Sprintf("file_%d_%s%s", time.Now().UnixMilli(), randomToken(), ext)
}

// ImageObjectName derives the object name for a course image.
func ImageObjectName() string {
	return fmt.Sprintf("img_%d", time.Now().UnixMilli())
}

// randomToken returns a short lowercase token for name uniqueness. Seven hex
// chars are enough entropy for a same-millisecond tiebreak.
func randomToken() string {
	return uuid.NewString()[:7]
}

// PublicIDFromURL recovers a stored object's folder-qualified id from its
// public URL: the last path segment with everything from the first dot on
// stripped, prefixed with the folder it was uploaded under.
func PublicIDFromURL(rawURL, folder string) string {
	seg := rawURL
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	if i := strings.Index(seg, "."); i >= 0 {
		seg = seg[:i]
	}
	return folder + "/" + seg
}

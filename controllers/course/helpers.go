package courseController

import (
	"errors"
	"strings"
)

// errImageTooNarrow marks an image rejected by the width gate so handlers can
// map it to the 400 response instead of a generic failure.
var errImageTooNarrow = errors.New("image width below minimum")

// joinURLs produces the comma-joined attachment list the Course record and the
// public API use.
func joinURLs(urls []string) string {
	return strings.Join(urls, ",")
}

package utils

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MinCourseImageWidth is the narrowest image the course pages render cleanly.
const MinCourseImageWidth = 850

// ImageWidth reads the pixel width from an image buffer's header without
// decoding the full image.
func ImageWidth(buf []byte) (int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return 0, fmt.Errorf("decode image metadata: %w", err)
	}
	return cfg.Width, nil
}

package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/disintegration/imaging"
)

const thumbnailMaxEdge = 320

// MakeThumbnail downscales a survey photo to a bounded-edge JPEG thumbnail.
// Source format is whatever imaging can decode (jpeg, png, gif, tiff, bmp).
func MakeThumbnail(original []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(original), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}

	thumb := imaging.Fit(img, thumbnailMaxEdge, thumbnailMaxEdge, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %v", err)
	}
	return buf.Bytes(), nil
}

// ThumbnailObjectKey derives the thumbnail key next to the original object.
func ThumbnailObjectKey(objectKey string) string {
	return "thumbnails/" + objectKey
}

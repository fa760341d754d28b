package storage

import (
	"bytes"
	"errors"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

const (
	MaxUploadBytes = 10 << 20
	MaxAvatarBytes = 512_000

	PhotoMaxDimension  = 2048
	AvatarMaxDimension = 512
)

var ErrNotImage = errors.New("Not an image")

// NormalizeImage decodes a JPEG, PNG, GIF, BMP, TIFF or WebP image, applies
// its EXIF orientation, fits it inside maxDim x maxDim and re-encodes it as JPEG.
func NormalizeImage(r io.Reader, maxDim int) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, ErrNotImage
	}
	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

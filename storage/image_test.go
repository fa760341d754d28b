package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOfSize(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestNormalizeImageShrinksLargeImages(t *testing.T) {
	out, err := NormalizeImage(pngOfSize(t, 800, 400), 200)
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, decoded.Bounds().Dx())
	assert.Equal(t, 100, decoded.Bounds().Dy())
}

func TestNormalizeImageKeepsSmallImages(t *testing.T) {
	out, err := NormalizeImage(pngOfSize(t, 40, 30), 200)
	require.NoError(t, err)

	decoded, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, decoded.Bounds().Dx())
	assert.Equal(t, 30, decoded.Bounds().Dy())
}

func TestNormalizeImageRejectsText(t *testing.T) {
	_, err := NormalizeImage(strings.NewReader("not a picture"), 200)
	assert.ErrorIs(t, err, ErrNotImage)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t,
		"https://wild.s3.us-east-2.amazonaws.com/posts/a.jpg",
		PublicURL("wild", "us-east-2", "posts/a.jpg"))
}

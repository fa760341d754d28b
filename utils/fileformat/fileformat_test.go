package fileformat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueFormat(t *testing.T) {
	first := UniqueFormat("Otter.PNG")
	second := UniqueFormat("Otter.PNG")

	assert.True(t, strings.HasSuffix(first, ".png"))
	assert.NotEqual(t, first, second)
	assert.Len(t, first, 36+len(".png"))
}

func TestWithExtension(t *testing.T) {
	assert.Equal(t, "abc.jpg", WithExtension("abc.png", ".jpg"))
	assert.Equal(t, "abc.jpg", WithExtension("abc", ".jpg"))
}

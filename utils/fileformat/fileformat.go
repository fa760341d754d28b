package fileformat

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// UniqueFormat returns a collision-free object name keeping the upload's extension.
func UniqueFormat(filename string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	return uuid.NewString() + ext
}

// WithExtension replaces the extension of name with ext.
func WithExtension(name, ext string) string {
	return strings.TrimSuffix(name, path.Ext(name)) + ext
}

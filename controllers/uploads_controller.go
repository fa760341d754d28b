package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"Wildography/storage"
	"Wildography/utils/fileformat"

	"github.com/gin-gonic/gin"
)

const postImagePrefix = "PostImages/"

var errUploadsDisabled = errors.New("Uploads are not configured")

// storeUploadedImage normalises the multipart "file" field and stores it under
// prefix. The returned status is meaningful only when err is non-nil.
func (server *Server) storeUploadedImage(c *gin.Context, prefix string, maxBytes int64, maxDim int) (string, int, error) {
	if server.Uploader == nil {
		return "", http.StatusServiceUnavailable, errUploadsDisabled
	}

	file, err := c.FormFile("file")
	if err != nil {
		return "", http.StatusBadRequest, errors.New("Invalid file")
	}
	if file.Size > maxBytes {
		return "", http.StatusBadRequest, fmt.Errorf("File too large (max %d KB)", maxBytes/1000)
	}
	f, err := file.Open()
	if err != nil {
		return "", http.StatusBadRequest, errors.New("Cannot open file")
	}
	defer f.Close()

	body, err := storage.NormalizeImage(f, maxDim)
	if err != nil {
		if errors.Is(err, storage.ErrNotImage) {
			return "", http.StatusBadRequest, err
		}
		return "", http.StatusInternalServerError, err
	}

	key := prefix + fileformat.WithExtension(fileformat.UniqueFormat(file.Filename), ".jpg")
	url, err := server.Uploader.Upload(c.Request.Context(), key, body, "image/jpeg")
	if err != nil {
		return "", http.StatusInternalServerError, err
	}
	return url, http.StatusOK, nil
}

// UploadImage stores a post photo and returns its URL for use in POST /posts.
func (server *Server) UploadImage(c *gin.Context) {
	url, status, err := server.storeUploadedImage(c, postImagePrefix, storage.MaxUploadBytes, storage.PhotoMaxDimension)
	if err != nil {
		if status == http.StatusInternalServerError {
			server.respondError(c, err, "Failed to upload image")
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"message":  "Image uploaded",
		"response": gin.H{"url": url},
	})
}

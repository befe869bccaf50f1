package utils

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// Upload size limits
const (
	MaxImageSize = 5 * 1024 * 1024
	MaxAudioSize = 20 * 1024 * 1024
)

// AllowedImageTypes defines the allowed image file extensions
var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// AllowedAudioTypes defines the allowed audio file extensions
var AllowedAudioTypes = map[string]bool{
	".mp3": true,
	".wav": true,
	".ogg": true,
	".m4a": true,
}

// ValidateImageFile checks if the uploaded file is a valid image
func ValidateImageFile(file *multipart.FileHeader) error {
	return validateUpload(file, AllowedImageTypes, MaxImageSize)
}

// ValidateAudioFile checks if the uploaded file is a valid audio track
func ValidateAudioFile(file *multipart.FileHeader) error {
	return validateUpload(file, AllowedAudioTypes, MaxAudioSize)
}

func validateUpload(file *multipart.FileHeader, allowed map[string]bool, maxSize int64) error {
	if file.Size > maxSize {
		return fmt.Errorf("file size exceeds %dMB limit", maxSize/(1024*1024))
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return fmt.Errorf("invalid file type %q", ext)
	}
	return nil
}

// ReadAsDataURL reads an uploaded file into a base64 data URL. Media is kept
// inline with the document it belongs to rather than on local disk.
func ReadAsDataURL(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %v", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %v", err)
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(content)
	}
	return EncodeDataURL(contentType, content), nil
}

// EncodeDataURL formats content as a base64 data URL
func EncodeDataURL(contentType string, content []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(content))
}

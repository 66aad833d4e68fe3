// Package storage persists uploaded employee images on the local filesystem.
package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/hr-records-service/pkg/util"
)

const employeeUploadDir = "uploads/employee"

// ImageStore writes validated images under the media root. Stored paths are
// relative to the root so they survive relocation of the media volume.
type ImageStore struct {
	root string
}

// NewImageStore builds a store rooted at the given directory.
func NewImageStore(root string) *ImageStore {
	return &ImageStore{root: root}
}

// Save validates that payload decodes as an image and writes it under
// uploads/employee/<fresh-uuid>.<ext>. The original file name contributes
// only its extension. Returns the relative path.
func (s *ImageStore) Save(originalName string, payload []byte) (string, error) {
	format, err := decodeFormat(payload)
	if err != nil {
		return "", apperrors.NewValidationError("invalid image", map[string]any{
			"image": "upload a valid image",
		})
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	if ext == "" {
		ext = format
	}

	relPath := filepath.Join(employeeUploadDir, fmt.Sprintf("%s.%s", uuid.NewString(), ext))
	fullPath := filepath.Join(s.root, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, payload, 0o644); err != nil {
		return "", err
	}
	return relPath, nil
}

// Remove deletes a previously stored image. A missing file is not an error.
func (s *ImageStore) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func decodeFormat(payload []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	return format, nil
}

package menu

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrExtensionMissing = errors.New("file extension missing")
	ErrFileTypeRejected = errors.New("file type not allowed, upload a .json catalog")
)

// Catalog documents are published as JSON only.
var allowedExt = map[string]bool{
	".json": true,
}

func ValidateFileExtension(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	if ext == "" {
		return ErrExtensionMissing
	}

	if !allowedExt[ext] {
		return ErrFileTypeRejected
	}

	return nil
}

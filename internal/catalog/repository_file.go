package catalog

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads the catalog from a local menu.json.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (f *FileSource) Name() string {
	return "file:" + f.path
}

func (f *FileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer file.Close()

	return Decode(file)
}

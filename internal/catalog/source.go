package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/cimillas/tech-event-tracker/internal/domain"
)

// FileSource opens the dataset CSV from a path on disk.
type FileSource struct {
	Path string
}

func (s FileSource) Open() (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCatalogSourceMissing, s.Path)
		}
		return nil, fmt.Errorf("open catalog source: %w", err)
	}
	return f, nil
}

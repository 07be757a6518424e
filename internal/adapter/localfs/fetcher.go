// Package localfs reads the wildfire dataset from a local file, the
// fallback source when no remote bucket is configured.
package localfs

import (
	"context"
	"fmt"
	"os"
)

// Fetcher implements dataset.Fetcher over a file path.
type Fetcher struct {
	path string
}

// NewFetcher creates a local file fetcher.
func NewFetcher(path string) *Fetcher {
	return &Fetcher{path: path}
}

// Fetch reads the file into memory.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read dataset file: %w", err)
	}
	return data, nil
}

// Source identifies the file for logs and errors.
func (f *Fetcher) Source() string { return f.path }

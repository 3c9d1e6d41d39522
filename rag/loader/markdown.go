// Package loader loads the document corpus from the local filesystem.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/smallnest/retailcopilot/rag"
)

// MarkdownDirLoader loads every markdown file from a directory. Files are
// read in sorted filename order so that chunk identifiers derived from the
// load order stay stable across runs.
type MarkdownDirLoader struct {
	dir        string
	extensions []string
}

// MarkdownDirLoaderOption configures the MarkdownDirLoader
type MarkdownDirLoaderOption func(*MarkdownDirLoader)

// WithExtensions overrides the set of recognized file extensions
func WithExtensions(extensions ...string) MarkdownDirLoaderOption {
	return func(l *MarkdownDirLoader) {
		l.extensions = extensions
	}
}

// NewMarkdownDirLoader creates a loader for the given directory
func NewMarkdownDirLoader(dir string, opts ...MarkdownDirLoaderOption) *MarkdownDirLoader {
	l := &MarkdownDirLoader{
		dir:        dir,
		extensions: []string{".md", ".markdown"},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads all recognized files from the directory, sorted by filename
func (l *MarkdownDirLoader) Load(ctx context.Context) ([]rag.Document, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory %s: %w", l.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !l.recognized(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]rag.Document, 0, len(names))
	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(l.dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", name, err)
		}
		docs = append(docs, rag.Document{
			Source:  name,
			Content: string(content),
		})
	}

	return docs, nil
}

func (l *MarkdownDirLoader) recognized(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range l.extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

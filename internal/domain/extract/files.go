package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ResolveInputs lists the PDFs to process. An empty target selects every
// .pdf file in dir, and a missing dir selects nothing; otherwise target is taken relative to dir. A missing
// target is returned in missing rather than as an error so callers can log
// it and carry on.
func ResolveInputs(dir, target string) (files []string, missing []*MissingFileError, err error) {
	if target != "" {
		path := target
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, target)
		}
		info, statErr := os.Stat(path)
		switch {
		case errors.Is(statErr, fs.ErrNotExist):
			return nil, []*MissingFileError{{Path: path}}, nil
		case statErr != nil:
			return nil, nil, fmt.Errorf("failed to stat %s: %w", path, statErr)
		case info.IsDir():
			return nil, []*MissingFileError{{Path: path}}, nil
		}
		return []string{path}, nil, nil
	}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)

	return files, nil, nil
}

package harness

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// NoScenariosError is returned when a directory holds no matching scenario.
type NoScenariosError struct {
	Dir    string
	Filter string
}

// Error implements the error interface.
func (e *NoScenariosError) Error() string {
	if e.Filter != "" {
		return fmt.Sprintf("no scenarios matching %q in %s", e.Filter, e.Dir)
	}
	return fmt.Sprintf("no scenarios in %s", e.Dir)
}

// Discover returns the scenario files (*.yaml, *.yml) under dir in lexical
// order. A non-empty filter is a glob matched against the file name without
// its extension.
func Discover(dir, filter string) ([]string, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(d.Name(), ext)
			if ok, _ := filepath.Match(filter, name); !ok {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover scenarios: %w", err)
	}
	if len(paths) == 0 {
		return nil, &NoScenariosError{Dir: dir, Filter: filter}
	}
	sort.Strings(paths)
	return paths, nil
}

package casefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions recognised as case files.
var Extensions = []string{".yaml", ".yml", ".cue"}

// IsCaseFile reports whether path has a case-file extension.
func IsCaseFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads, parses and validates a case file. The format is chosen by
// extension.
func Load(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case file: %w", err)
	}

	var c *Case
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		c, err = parseYAML(path, data)
	case ".cue":
		c, err = parseCUE(path, data)
	default:
		return nil, &CaseError{Path: path, Message: fmt.Sprintf("unsupported case file extension %q", filepath.Ext(path))}
	}
	if err != nil {
		return nil, err
	}

	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Find returns case files under root in lexical order. root may be a
// single file. A non-empty filter is a glob matched against the file name
// without its extension.
func Find(root, filter string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("case path %s: %w", root, err)
	}

	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	if !info.IsDir() {
		if !matches(root, filter) {
			return nil, nil
		}
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Golden fixtures live next to cases; never treat them as cases.
			if d.Name() == "golden" && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if IsCaseFile(path) && matches(path, filter) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func matches(path, filter string) bool {
	if filter == "" {
		return true
	}
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	ok, _ := filepath.Match(filter, name)
	return ok
}

// LoadDir loads every case under root, failing on the first bad file.
func LoadDir(root, filter string) ([]*Case, error) {
	files, err := Find(root, filter)
	if err != nil {
		return nil, err
	}

	cases := make([]*Case, 0, len(files))
	for _, f := range files {
		c, err := Load(f)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

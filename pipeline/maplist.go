package pipeline

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ReadMapList returns the beatmap paths listed in path, one per line, trimmed.
// Blank lines are kept as empty entries so every line keeps its index.
func ReadMapList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Op: "open map list", Path: path, Err: err}
	}
	defer f.Close()

	var maps []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		maps = append(maps, strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff")))
	}
	if err := scanner.Err(); err != nil {
		return nil, &IOError{Op: "read map list", Path: path, Err: err}
	}
	return maps, nil
}

// ClearOutputDir creates dir if needed and removes files in it ending with ext
func ClearOutputDir(dir, ext string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "create output dir", Path: dir, Err: err}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &IOError{Op: "list output dir", Path: dir, Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ext) {
			continue
		}
		name := filepath.Join(dir, entry.Name())
		if err := os.Remove(name); err != nil {
			return &IOError{Op: "remove", Path: name, Err: err}
		}
	}
	return nil
}

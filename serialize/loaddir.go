package serialize

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nightfury-lang/nightfury/fsm"
)

// LoadDir loads every *.fsm file in dir, keyed by file stem (the language
// name), continuing past a single malformed file per §7: "other languages
// in the same directory continue loading". The second return value
// collects per-file errors for files that failed to load.
func LoadDir(dir string) (map[string]*fsm.Node, map[string]error) {
	roots := make(map[string]*fsm.Node)
	errs := make(map[string]error)

	entries, err := os.ReadDir(dir)
	if err != nil {
		errs["."] = err
		return roots, errs
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".fsm") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".fsm")
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs[name] = err
			tracer().Errorf("serialize: reading %s: %v", path, err)
			continue
		}
		root, err := Load(string(data))
		if err != nil {
			errs[name] = err
			tracer().Errorf("serialize: loading %s: %v", path, err)
			continue
		}
		roots[name] = root
	}
	return roots, errs
}

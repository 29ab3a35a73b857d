package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"

	"github.com/nightfury-lang/nightfury/fsm"
	"github.com/nightfury-lang/nightfury/serialize"
)

// DefaultFSMDirEnv is the environment variable a server reads its FSM
// directory from (§5, §6's environment contract).
const DefaultFSMDirEnv = "NIGHTFURY_FSMDIR"

// entry pairs a loaded root with the content hash it was loaded from, so a
// later Reload can skip re-parsing a file whose bytes have not changed.
type entry struct {
	root *fsm.Node
	hash string
}

// Registry is the process-wide, concurrency-safe table of compiled FSM
// graphs, keyed by language name. The zero value is not usable; create one
// with New or FromEnv.
type Registry struct {
	mu   sync.RWMutex
	dir  string
	byNm map[string]*entry
}

// New creates an empty registry rooted at dir. An empty dir defaults to ".".
func New(dir string) *Registry {
	if dir == "" {
		dir = "."
	}
	return &Registry{dir: dir, byNm: make(map[string]*entry)}
}

// FromEnv creates a registry rooted at the directory named by
// NIGHTFURY_FSMDIR, defaulting to "." if unset, and loads it immediately.
func FromEnv() (*Registry, error) {
	r := New(os.Getenv(DefaultFSMDirEnv))
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// contentHash computes a stable fingerprint of text, used to decide whether
// a previously loaded language needs to be re-parsed.
func contentHash(text string) string {
	h, err := structhash.Hash(struct{ Text string }{Text: text}, 1)
	if err != nil {
		panic(err) // structhash.Hash cannot fail for a flat struct of strings
	}
	return h
}

// Reload re-scans the registry's directory, per serialize.LoadDir's
// continue-past-malformed-file policy (§7): files that fail to parse are
// logged and skipped rather than aborting the whole reload. Files whose
// content hash is unchanged since the last load are not re-parsed.
func (r *Registry) Reload() error {
	r.mu.RLock()
	prev := r.byNm
	r.mu.RUnlock()
	roots, loadErrs, err := loadDirWithText(r.dir, prev)
	if err != nil {
		return fmt.Errorf("registry: reading %s: %w", r.dir, err)
	}
	for name, loadErr := range loadErrs {
		tracer().Errorf("registry: %s: %v", name, loadErr)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	fresh := make(map[string]*entry, len(roots))
	for name, rt := range roots {
		if old, ok := r.byNm[name]; ok && old.hash == rt.hash {
			fresh[name] = old
			continue
		}
		fresh[name] = rt
		tracer().Infof("registry: loaded language %q", name)
	}
	r.byNm = fresh
	return nil
}

// Lookup returns the compiled FSM root for name and whether it is known.
// The returned graph must not be mutated; callers that need a private copy
// should fsm.DeepClone it.
func (r *Registry) Lookup(name string) (*fsm.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byNm[name]
	if !ok {
		return nil, false
	}
	return e.root, true
}

// Capabilities returns the registered language names in sorted order, the
// payload of a GetCapabilities response (§6).
func (r *Registry) Capabilities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := treeset.NewWith(utils.StringComparator)
	for name := range r.byNm {
		names.Add(name)
	}
	out := make([]string, 0, names.Size())
	for _, v := range names.Values() {
		out = append(out, v.(string))
	}
	return out
}

// loadDirWithText mirrors serialize.LoadDir but also threads through a
// content hash per file: a file whose hash matches its entry in prev is not
// re-parsed, and that entry is reused as is.
func loadDirWithText(dir string, prev map[string]*entry) (map[string]*entry, map[string]error, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	roots := make(map[string]*entry)
	errs := make(map[string]error)
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".fsm") {
			continue
		}
		name := strings.TrimSuffix(f.Name(), ".fsm")
		raw, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			errs[name] = err
			continue
		}
		hash := contentHash(string(raw))
		if old, ok := prev[name]; ok && old.hash == hash {
			roots[name] = old
			continue
		}
		root, err := serialize.Load(string(raw))
		if err != nil {
			errs[name] = err
			continue
		}
		roots[name] = &entry{root: root, hash: hash}
	}
	return roots, errs, nil
}

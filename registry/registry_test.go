package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nightfury-lang/nightfury/ebnflex"
	"github.com/nightfury-lang/nightfury/lower"
	"github.com/nightfury-lang/nightfury/serialize"
)

func writeFSM(t *testing.T, dir, name, src string) {
	t.Helper()
	g, err := ebnflex.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root, err := lower.Lower(g)
	if err != nil {
		t.Fatalf("lower: %v", err)
	}
	text := serialize.Save(root)
	if err := os.WriteFile(filepath.Join(dir, name+".fsm"), []byte(text), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestRegistryLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFSM(t, dir, "rust", `t1 ::= 'signed' | 'short';`)
	writeFSM(t, dir, "go", `t1 ::= 'func' | 'for';`)

	r := New(dir)
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if _, ok := r.Lookup("rust"); !ok {
		t.Fatal("expected rust to be registered")
	}
	if _, ok := r.Lookup("go"); !ok {
		t.Fatal("expected go to be registered")
	}
	if _, ok := r.Lookup("nope"); ok {
		t.Fatal("did not expect nope to be registered")
	}

	caps := r.Capabilities()
	if len(caps) != 2 || caps[0] != "go" || caps[1] != "rust" {
		t.Fatalf("Capabilities() = %v, want sorted [go rust]", caps)
	}
}

func TestRegistrySkipsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFSM(t, dir, "good", `t1 ::= 'ok';`)
	if err := os.WriteFile(filepath.Join(dir, "bad.fsm"), []byte("\tnot-a-node-line-without-short\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := New(dir)
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if _, ok := r.Lookup("good"); !ok {
		t.Fatal("expected good to load despite bad.fsm failing")
	}
	if _, ok := r.Lookup("bad"); ok {
		t.Fatal("did not expect bad to register")
	}
}

func TestRegistryReloadSkipsUnchangedFile(t *testing.T) {
	dir := t.TempDir()
	writeFSM(t, dir, "rust", `t1 ::= 'signed' | 'short';`)

	r := New(dir)
	if err := r.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	root1, _ := r.Lookup("rust")

	if err := r.Reload(); err != nil {
		t.Fatalf("second Reload: %v", err)
	}
	root2, _ := r.Lookup("rust")

	if root1 != root2 {
		t.Fatal("expected unchanged file to keep the same root across reloads")
	}
}

func TestFromEnvUsesFSMDirEnv(t *testing.T) {
	dir := t.TempDir()
	writeFSM(t, dir, "rust", `t1 ::= 'signed';`)

	old, hadOld := os.LookupEnv(DefaultFSMDirEnv)
	os.Setenv(DefaultFSMDirEnv, dir)
	defer func() {
		if hadOld {
			os.Setenv(DefaultFSMDirEnv, old)
		} else {
			os.Unsetenv(DefaultFSMDirEnv)
		}
	}()

	r, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if _, ok := r.Lookup("rust"); !ok {
		t.Fatal("expected rust to load via NIGHTFURY_FSMDIR")
	}
}

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("%s %v: %v", cmd.Use, args, err)
	}
	return out.String()
}

func initStateDir(t *testing.T) {
	t.Helper()
	stateDir = filepath.Join(t.TempDir(), ".vermilion")
	runCmd(t, newInitCmd())
}

func TestNamespaceHandle(t *testing.T) {
	for _, name := range []string{"git2hg", "hg2git", "files-meta"} {
		if _, err := namespaceHandle(name); err != nil {
			t.Errorf("namespaceHandle(%q): %v", name, err)
		}
	}
	if _, err := namespaceHandle("bogus"); err == nil {
		t.Error("namespaceHandle(bogus): expected error")
	}
}

func TestMapResolveLs(t *testing.T) {
	initStateDir(t)

	key := "aa11000000000000000000000000000000000000"
	value := "c001000000000000000000000000000000000000"

	runCmd(t, newMapCmd(), "hg2git", key, value)

	out := runCmd(t, newResolveCmd(), "hg2git", key)
	if strings.TrimSpace(out) != value {
		t.Errorf("resolve full: got %q, want %q", strings.TrimSpace(out), value)
	}

	// Abbreviated lookup.
	out = runCmd(t, newResolveCmd(), "hg2git", key[:4])
	if strings.TrimSpace(out) != value {
		t.Errorf("resolve abbrev: got %q, want %q", strings.TrimSpace(out), value)
	}

	out = runCmd(t, newLsCmd(), "hg2git")
	if !strings.Contains(out, key+" "+value) {
		t.Errorf("ls: %q does not list the mapping", out)
	}
}

func TestMapResolveFilesMeta(t *testing.T) {
	initStateDir(t)

	key := "f11e000000000000000000000000000000000000"
	value := "b001000000000000000000000000000000000000"
	runCmd(t, newMapCmd(), "files-meta", key, value)

	out := runCmd(t, newResolveCmd(), "files-meta", key)
	if strings.TrimSpace(out) != value {
		t.Errorf("resolve full: got %q, want %q", strings.TrimSpace(out), value)
	}
	out = runCmd(t, newResolveCmd(), "files-meta", key[:6])
	if strings.TrimSpace(out) != value {
		t.Errorf("resolve abbrev: got %q, want %q", strings.TrimSpace(out), value)
	}
}

func TestResolveMissingFails(t *testing.T) {
	initStateDir(t)

	cmd := newResolveCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"hg2git", "dddd000000000000000000000000000000000000"})
	if err := cmd.Execute(); err == nil {
		t.Error("resolve of unmapped id should fail")
	}
}

func TestUnmapThenResolveFails(t *testing.T) {
	initStateDir(t)

	key := "aa11000000000000000000000000000000000000"
	value := "c001000000000000000000000000000000000000"
	runCmd(t, newMapCmd(), "hg2git", key, value)
	runCmd(t, newUnmapCmd(), "hg2git", key)

	cmd := newResolveCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"hg2git", key})
	if err := cmd.Execute(); err == nil {
		t.Error("resolve after unmap should fail")
	}
}

func TestFlushReportsRoots(t *testing.T) {
	initStateDir(t)

	out := runCmd(t, newFlushCmd())
	// Nothing mapped yet: every namespace reports no metadata.
	if strings.Count(out, "(no metadata)") != 3 {
		t.Errorf("flush of empty state: %q", out)
	}

	runCmd(t, newMapCmd(), "hg2git",
		"aa11000000000000000000000000000000000000",
		"c001000000000000000000000000000000000000")
	out = runCmd(t, newFlushCmd())
	if strings.Count(out, "(no metadata)") != 2 {
		t.Errorf("flush after map: %q", out)
	}
	if !strings.Contains(out, "hg2git") {
		t.Errorf("flush output missing namespace name: %q", out)
	}
}

func TestMapCollisionKeepsExisting(t *testing.T) {
	initStateDir(t)

	key := "aa11000000000000000000000000000000000000"
	v1 := "c001000000000000000000000000000000000000"
	v2 := "c002000000000000000000000000000000000000"
	runCmd(t, newMapCmd(), "hg2git", key, v1)
	runCmd(t, newMapCmd(), "hg2git", key, v2)

	out := runCmd(t, newResolveCmd(), "hg2git", key)
	if strings.TrimSpace(out) != v1 {
		t.Errorf("collision: got %q, want existing %q", strings.TrimSpace(out), v1)
	}
}

// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.scm",
		"src/vendored.scm",
		"lib/utils.scm",
	}
	result := filterExcludes(paths, []string{"vendored.scm"})
	assert.Equal(t, []string{"src/main.scm", "lib/utils.scm"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.scm",
		"build/output.scm",
		"build/sub/deep.scm",
		"lib/utils.scm",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.scm", "lib/utils.scm"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.scm",
		"src/generated_foo.scm",
		"src/generated_bar.scm",
		"lib/utils.scm",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.scm", "lib/utils.scm"}, result)
}

func TestFilterExcludes_MultiplePatterns(t *testing.T) {
	paths := []string{
		"src/main.scm",
		"build/output.scm",
		"src/vendored.scm",
		"lib/utils.scm",
	}
	result := filterExcludes(paths, []string{"build", "vendored.scm"})
	assert.Equal(t, []string{"src/main.scm", "lib/utils.scm"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{
		"src/main.scm",
		"lib/utils.scm",
	}
	result := filterExcludes(paths, []string{"nonexistent"})
	assert.Equal(t, []string{"src/main.scm", "lib/utils.scm"}, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.scm"}
	result := filterExcludes(paths, nil)
	assert.Equal(t, []string{"src/main.scm"}, result)
}

func TestMatchesAny_FullPath(t *testing.T) {
	// filepath.Match on the full path
	assert.True(t, matchesAny("src/main.scm", []string{"src/*.scm"}))
	assert.False(t, matchesAny("lib/main.scm", []string{"src/*.scm"}))
}

func TestMatchesAny_BaseName(t *testing.T) {
	assert.True(t, matchesAny("deep/nested/vendored.scm", []string{"vendored.scm"}))
}

func TestMatchesAny_Component(t *testing.T) {
	assert.True(t, matchesAny("project/build/output.scm", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.scm", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	components := splitPath("a/b/c.scm")
	assert.Contains(t, components, "c.scm")
	assert.Contains(t, components, "b")
	assert.Contains(t, components, "a")
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.scm", "sub/b.ss", "sub/notes.txt", "gen/c.scm"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("1"), 0o600))
	}

	files, err := expandArgs([]string{dir + "/...", "other.scm"}, []string{"gen"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.scm"),
		filepath.Join(dir, "sub/b.ss"),
		"other.scm",
	}, files)

	_, err = expandArgs([]string{filepath.Join(dir, "missing") + "/..."}, nil)
	assert.Error(t, err)
}

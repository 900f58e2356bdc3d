// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tessellate/schemer/vm"
)

const addSource = `(NIL LDC 2 CONS LDC 1 CONS
 LDF (LD (0 . 0) LD (0 . 1) ADD RTN)
 AP PRINT STOP)`

func runVM(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := VMCommand(WithOutput(&stdout, &stderr))
	cmd.SetArgs(args)
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVMRun(t *testing.T) {
	src := writeTemp(t, "add.secd", addSource)
	out, _, err := runVM(t, "run", src)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	out, _, err = runVM(t, "run", "-p", src)
	require.NoError(t, err)
	assert.Equal(t, "3\n3\n", out)
}

func TestVMAssembleRoundTrip(t *testing.T) {
	src := writeTemp(t, "add.secd", addSource)
	bin := filepath.Join(filepath.Dir(src), "add.bin")
	_, _, err := runVM(t, "asm", src, "-o", bin)
	require.NoError(t, err)

	b, err := os.ReadFile(bin)
	require.NoError(t, err)
	assert.True(t, vm.IsBinary(b))

	out, _, err := runVM(t, "run", bin)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	fromText, _, err := runVM(t, "disasm", src)
	require.NoError(t, err)
	fromBinary, _, err := runVM(t, "disasm", bin)
	require.NoError(t, err)
	assert.Equal(t, fromText, fromBinary)
	assert.Contains(t, fromText, "LD (0 . 1)")
}

func TestVMAssembleDefaultOutput(t *testing.T) {
	src := writeTemp(t, "prog.secd", "(LDC 1 STOP)")
	_, _, err := runVM(t, "asm", src)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(src), "prog.secdc"))
	assert.NoError(t, err)
}

func TestVMErrors(t *testing.T) {
	_, _, err := runVM(t, "run", writeTemp(t, "bad.secd", "(LDC 1 FROB)"))
	assert.ErrorIs(t, err, vm.ErrAssembly)
	assert.ErrorContains(t, err, "unknown instruction FROB")

	_, _, err = runVM(t, "run")
	assert.Error(t, err)

	_, _, err = runVM(t, "disasm", filepath.Join(t.TempDir(), "missing.secd"))
	assert.Error(t, err)
}

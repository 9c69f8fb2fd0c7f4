package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommandAcceptsWellFormedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.wexpr")
	require.NoError(t, os.WriteFile(path, []byte(`@(a 1 b "two")`), 0o644))

	_, err := runCmd(t, "validate", path)
	require.NoError(t, err)
}

func TestValidateCommandRejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.wexpr")
	require.NoError(t, os.WriteFile(path, []byte(`@(a *[b])`), 0o644))

	_, err := runCmd(t, "validate", path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Reference [b] is undefined")
}

func TestFmtCommandWritesToOutputFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wexpr")
	out := filepath.Join(dir, "out.wexpr")
	require.NoError(t, os.WriteFile(in, []byte(`@(a 1)`), 0o644))

	_, err := runCmd(t, "fmt", in, "-o", out)
	require.NoError(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "@(a 1)\n", string(got))
}

func TestFmtCommandForcesBinaryPath(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.wexpr")
	require.NoError(t, os.WriteFile(in, []byte(`@(name "hello")`), 0o644))

	out, err := runCmd(t, "fmt", in, "--binary", "-.name")
	require.NoError(t, err)
	require.Contains(t, out, "<aGVsbG8=>")
}

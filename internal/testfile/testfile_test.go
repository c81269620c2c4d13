package testfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/programme-lv/grader/internal/testfile"
	"github.com/stretchr/testify/require"
)

func TestReadPlain(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.in")
	require.NoError(t, os.WriteFile(path, []byte("1 2\n"), 0644))

	body, err := testfile.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, "1 2\n", string(body))
	require.True(t, testfile.Exists(path))
}

func TestReadCompressed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "7.out")

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	compressed := enc.EncodeAll([]byte("315941512 -119267504\n"), nil)
	require.NoError(t, enc.Close())
	require.NoError(t, os.WriteFile(path+testfile.Ext, compressed, 0644))

	resolved, err := testfile.Resolve(path)
	require.NoError(t, err)
	require.Equal(t, path+testfile.Ext, resolved)

	body, err := testfile.ReadAll(path)
	require.NoError(t, err)
	require.Equal(t, "315941512 -119267504\n", string(body))
}

func TestMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "3.out")

	require.False(t, testfile.Exists(path))
	_, err := testfile.Open(path)
	require.Error(t, err)
	require.True(t, testfile.IsNotExist(err))
}

func TestMaterialize(t *testing.T) {
	dir := t.TempDir()
	plainPath := filepath.Join(dir, "1.in")
	require.NoError(t, os.WriteFile(plainPath, []byte("1\n"), 0644))

	got, cleanup, err := testfile.Materialize(plainPath)
	require.NoError(t, err)
	require.Equal(t, plainPath, got)
	cleanup()
	require.FileExists(t, plainPath)

	packed := filepath.Join(dir, "1.out")
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(packed+testfile.Ext, enc.EncodeAll([]byte("5\n"), nil), 0644))
	require.NoError(t, enc.Close())

	got, cleanup, err = testfile.Materialize(packed)
	require.NoError(t, err)
	require.NotEqual(t, packed, got)
	body, err := os.ReadFile(got)
	require.NoError(t, err)
	require.Equal(t, "5\n", string(body))
	cleanup()
	require.NoFileExists(t, got)

	_, cleanup, err = testfile.Materialize(filepath.Join(dir, "9.out"))
	require.True(t, testfile.IsNotExist(err))
	cleanup()
}

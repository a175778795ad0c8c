package logfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogFile_AppendAndReadAt(t *testing.T) {
	dir, err := os.MkdirTemp("", "logfile-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	lf, err := NewLogFile(filepath.Join(dir, "0.log"), 100)
	require.NoError(t, err)
	defer lf.Close()

	off, err := lf.Append([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, int64(0), off)

	off, err = lf.Append([]byte("world"))
	require.NoError(t, err)
	require.Equal(t, int64(5), off)

	require.Equal(t, int64(10), lf.Cursor())

	got, err := lf.ReadAt(0, 5)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), got)

	got, err = lf.ReadAt(5, 5)
	require.NoError(t, err)
	require.Equal(t, []byte("world"), got)
}

func TestLogFile_AppendReturnsSegmentFullAtCapacity(t *testing.T) {
	dir, err := os.MkdirTemp("", "logfile-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	lf, err := NewLogFile(filepath.Join(dir, "0.log"), 10)
	require.NoError(t, err)
	defer lf.Close()

	_, err = lf.Append([]byte("abcde"))
	require.NoError(t, err)

	_, err = lf.Append([]byte("fghij"))
	require.NoError(t, err)

	_, err = lf.Append([]byte("k"))
	require.ErrorIs(t, err, ErrSegmentFull)
}

func TestLogFile_ReadAtPastCursorIsOutOfBounds(t *testing.T) {
	dir, err := os.MkdirTemp("", "logfile-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	lf, err := NewLogFile(filepath.Join(dir, "0.log"), 100)
	require.NoError(t, err)
	defer lf.Close()

	_, err = lf.Append([]byte("hi"))
	require.NoError(t, err)

	_, err = lf.ReadAt(0, 3)
	require.ErrorIs(t, err, ErrOutOfBounds)

	_, err = lf.ReadAt(2, 1)
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestLogFile_BackingFileIsTruncatedToMaxSize(t *testing.T) {
	dir, err := os.MkdirTemp("", "logfile-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "0.log")
	lf, err := NewLogFile(path, 64)
	require.NoError(t, err)
	defer lf.Close()

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, int64(64), fi.Size())
}

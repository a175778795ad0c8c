package log

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marceloboeira/voik/internal/logfile"
)

func testConfig(maxStoreBytes, maxIndexBytes uint64) Config {
	var c Config
	c.Segment.MaxStoreBytes = maxStoreBytes
	c.Segment.MaxIndexBytes = maxIndexBytes
	return c
}

func TestSegment(t *testing.T) {
	dir, err := os.MkdirTemp("", "segment-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	want := []byte("hello world")

	c := testConfig(1024, logfile.EntryWidth*3) // room for 3 index entries

	s, err := newSegment(dir, 16, c)
	require.NoError(t, err)
	require.Equal(t, uint64(16), s.BaseOffset())
	require.True(t, s.Fits(len(want)))

	for i := uint64(0); i < 3; i++ {
		entryIndex, err := s.Append(want)
		require.NoError(t, err)
		require.Equal(t, i, entryIndex)

		got, err := s.Read(entryIndex)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	require.False(t, s.Fits(len(want)))

	_, err = s.Append(want)
	require.Error(t, err)
}

func TestSegment_MaxedByStoreSize(t *testing.T) {
	dir, err := os.MkdirTemp("", "segment-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	want := []byte("hello world")
	c := testConfig(uint64(len(want)*3), 1000)

	s, err := newSegment(dir, 0, c)
	require.NoError(t, err)

	require.True(t, s.Fits(len(want)))
	_, err = s.Append(want)
	require.NoError(t, err)
	_, err = s.Append(want)
	require.NoError(t, err)
	_, err = s.Append(want)
	require.NoError(t, err)

	require.False(t, s.Fits(len(want)))
}

func TestSegment_ReadOutOfBounds(t *testing.T) {
	dir, err := os.MkdirTemp("", "segment-test")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := newSegment(dir, 0, testConfig(1024, 1000))
	require.NoError(t, err)

	_, err = s.Read(0)
	require.Error(t, err)
}

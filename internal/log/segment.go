package log

import (
	"fmt"
	"path"

	"github.com/marceloboeira/voik/internal/logfile"
)

// baseOffsetWidth is the fixed width of the zero-padded decimal base
// offset encoded in segment filenames.
const baseOffsetWidth = 20

// segment pairs one LogFile with one IndexFile under a shared filename
// stem derived from baseOffset. It enforces capacity, appends records,
// and resolves positional reads via the index.
type segment struct {
	store      *logfile.LogFile
	index      *logfile.IndexFile
	baseOffset uint64
}

// newSegment creates the store and index files for baseOffset under dir,
// store first, index second — matching the write ordering invariant
// Append relies on.
func newSegment(dir string, baseOffset uint64, c Config) (*segment, error) {
	stem := fmt.Sprintf("%0*d", baseOffsetWidth, baseOffset)

	store, err := logfile.NewLogFile(path.Join(dir, stem+".log"), int64(c.Segment.MaxStoreBytes))
	if err != nil {
		return nil, fmt.Errorf("segment %d: %w", baseOffset, err)
	}

	index, err := logfile.NewIndexFile(path.Join(dir, stem+".index"), int64(c.Segment.MaxIndexBytes))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("segment %d: %w", baseOffset, err)
	}

	return &segment{
		store:      store,
		index:      index,
		baseOffset: baseOffset,
	}, nil
}

// Fits reports whether a record of recordSize bytes can be written to
// this segment without exceeding either the store's or the index's
// capacity. The log is full when either constraint is hit.
func (s *segment) Fits(recordSize int) bool {
	return s.store.Cursor()+int64(recordSize) <= s.store.MaxSize() &&
		s.index.Cursor()+logfile.EntryWidth <= s.index.MaxSize()
}

// Append writes record to the store, then records its (offset, size) in
// the index, and returns the local entry index. The store write always
// precedes the index write: if the store accepts the write but the index
// then rejects it, the segment is left with unreferenced trailing bytes
// in the store. That path isn't reachable in normal operation since
// Log.Append pre-checks Fits before calling Append.
func (s *segment) Append(record []byte) (entryIndex uint64, err error) {
	if !s.Fits(len(record)) {
		return 0, logfile.ErrSegmentFull
	}

	offset, err := s.store.Append(record)
	if err != nil {
		return 0, fmt.Errorf("segment %d: writing store: %w", s.baseOffset, err)
	}

	idx, err := s.index.Write(offset, int64(len(record)))
	if err != nil {
		return 0, fmt.Errorf("%w: segment %d left with %d unreferenced bytes after index write failed: %v", ErrCorruptSegment, s.baseOffset, len(record), err)
	}

	return uint64(idx), nil
}

// Read returns the bytes of the record at the given local entry index.
func (s *segment) Read(entryIndex uint64) ([]byte, error) {
	offset, size, err := s.index.Read(int64(entryIndex))
	if err != nil {
		return nil, fmt.Errorf("segment %d: %w", s.baseOffset, err)
	}

	buf, err := s.store.ReadAt(offset, size)
	if err != nil {
		return nil, fmt.Errorf("segment %d: %w", s.baseOffset, err)
	}
	return buf, nil
}

// Count returns the number of records held by this segment.
func (s *segment) Count() uint64 {
	return uint64(s.index.Entries())
}

// BaseOffset returns the global position of this segment's first record.
func (s *segment) BaseOffset() uint64 {
	return s.baseOffset
}

// Flush flushes the index, then the store. Both are asynchronous flush
// requests, so the order in which their pages reach disk is not
// guaranteed.
func (s *segment) Flush() error {
	if err := s.index.Flush(); err != nil {
		return fmt.Errorf("segment %d: %w", s.baseOffset, err)
	}
	if err := s.store.Flush(); err != nil {
		return fmt.Errorf("segment %d: %w", s.baseOffset, err)
	}
	return nil
}

// Close flushes and releases the segment's store and index.
func (s *segment) Close() error {
	if err := s.index.Close(); err != nil {
		return fmt.Errorf("segment %d: %w", s.baseOffset, err)
	}
	if err := s.store.Close(); err != nil {
		return fmt.Errorf("segment %d: %w", s.baseOffset, err)
	}
	return nil
}

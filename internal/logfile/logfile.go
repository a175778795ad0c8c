package logfile

import (
	"fmt"
	"os"

	"github.com/tysonmote/gommap"
)

// LogFile is a memory-mapped, fixed-capacity region holding record payloads
// concatenated in write order. Bytes [0, cursor) are valid appended data;
// bytes [cursor, maxSize) are zero-initialized scratch reserved by the
// initial truncation.
type LogFile struct {
	file    *os.File
	mmap    gommap.MMap
	maxSize int64
	cursor  int64
}

// NewLogFile creates (or overwrites) the file at path, truncates it to
// exactly maxSize bytes, and maps it read/write into memory.
func NewLogFile(path string, maxSize int64) (*LogFile, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: creating log file %s: %v", ErrIoError, path, err)
	}

	if err := file.Truncate(maxSize); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: truncating log file %s: %v", ErrIoError, path, err)
	}

	mmap, err := gommap.Map(file.Fd(), gommap.PROT_READ|gommap.PROT_WRITE, gommap.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: mapping log file %s: %v", ErrIoError, path, err)
	}

	return &LogFile{
		file:    file,
		mmap:    mmap,
		maxSize: maxSize,
		cursor:  0,
	}, nil
}

// Append copies buf into the mapped region starting at the current cursor
// and returns the offset at which the write began.
func (l *LogFile) Append(buf []byte) (offset int64, err error) {
	if l.cursor+int64(len(buf)) > l.maxSize {
		return 0, ErrSegmentFull
	}

	offset = l.cursor
	copy(l.mmap[offset:offset+int64(len(buf))], buf)
	l.cursor += int64(len(buf))
	return offset, nil
}

// ReadAt returns the size bytes starting at offset as a slice of the
// mapped region, without copying. The slice stays valid across later
// appends, which only write past the cursor and never relocate the
// mapping; it becomes invalid once the LogFile is closed. The slice is not
// write-protected: writing into it changes the stored record.
func (l *LogFile) ReadAt(offset, size int64) ([]byte, error) {
	if offset+size > l.cursor {
		return nil, ErrOutOfBounds
	}
	return l.mmap[offset : offset+size], nil
}

// Flush requests that the host flush dirty pages to the backing file.
// Failure is reported but is not treated as fatal by callers.
func (l *LogFile) Flush() error {
	if err := l.mmap.Sync(gommap.MS_ASYNC); err != nil {
		return fmt.Errorf("%w: flushing log file %s: %v", ErrIoError, l.file.Name(), err)
	}
	return nil
}

// Cursor returns the byte offset at which the next Append will begin.
func (l *LogFile) Cursor() int64 {
	return l.cursor
}

// MaxSize returns the fixed capacity of the LogFile in bytes.
func (l *LogFile) MaxSize() int64 {
	return l.maxSize
}

// Name returns the path of the backing file.
func (l *LogFile) Name() string {
	return l.file.Name()
}

// Close flushes the mapping synchronously, unmaps it, and closes the
// backing file.
func (l *LogFile) Close() error {
	if err := l.mmap.Sync(gommap.MS_SYNC); err != nil {
		return fmt.Errorf("%w: syncing log file %s: %v", ErrIoError, l.file.Name(), err)
	}
	if err := l.mmap.UnsafeUnmap(); err != nil {
		return fmt.Errorf("%w: unmapping log file %s: %v", ErrIoError, l.file.Name(), err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("%w: syncing log file %s: %v", ErrIoError, l.file.Name(), err)
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("%w: closing log file %s: %v", ErrIoError, l.file.Name(), err)
	}
	return nil
}

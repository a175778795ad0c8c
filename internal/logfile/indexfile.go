package logfile

import (
	"fmt"
	"os"
	"strconv"

	"github.com/tysonmote/gommap"
)

// EntryWidth is the fixed size in bytes of one index entry: ten ASCII
// decimal digits for the log offset followed by ten ASCII decimal digits
// for the record size.
const EntryWidth = 20

const (
	offsetDigits = 10
	sizeDigits   = 10
	// maxDigitValue is the largest value that fits in offsetDigits (or
	// sizeDigits) decimal digits: 10^10 - 1.
	maxDigitValue = 9_999_999_999
)

// IndexFile is a memory-mapped, fixed-capacity table of EntryWidth-byte
// entries mapping a record's position within a segment to its (offset,
// size) in the companion LogFile.
type IndexFile struct {
	file    *os.File
	mmap    gommap.MMap
	maxSize int64
	cursor  int64
}

// NewIndexFile creates (or overwrites) the file at path, truncates it to
// exactly maxSize bytes, and maps it read/write into memory. maxSize must
// be a positive multiple of EntryWidth.
func NewIndexFile(path string, maxSize int64) (*IndexFile, error) {
	if maxSize <= 0 || maxSize%EntryWidth != 0 {
		return nil, fmt.Errorf("%w: index max_size %d is not a positive multiple of %d", ErrInvalidConfig, maxSize, EntryWidth)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: creating index file %s: %v", ErrIoError, path, err)
	}

	if err := file.Truncate(maxSize); err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: truncating index file %s: %v", ErrIoError, path, err)
	}

	mmap, err := gommap.Map(file.Fd(), gommap.PROT_READ|gommap.PROT_WRITE, gommap.MAP_SHARED)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("%w: mapping index file %s: %v", ErrIoError, path, err)
	}

	return &IndexFile{
		file:    file,
		mmap:    mmap,
		maxSize: maxSize,
		cursor:  0,
	}, nil
}

// Write encodes logOffset and size as zero-padded ASCII decimal digits and
// appends the 20-byte entry at the cursor, returning the entry's index.
func (i *IndexFile) Write(logOffset, size int64) (entryIndex int64, err error) {
	if logOffset > maxDigitValue || size > maxDigitValue || logOffset < 0 || size < 0 {
		return 0, ErrValueTooLarge
	}
	if i.cursor+EntryWidth > i.maxSize {
		return 0, ErrIndexFull
	}

	entry := fmt.Sprintf("%0*d%0*d", offsetDigits, logOffset, sizeDigits, size)
	copy(i.mmap[i.cursor:i.cursor+EntryWidth], entry)

	entryIndex = i.cursor / EntryWidth
	i.cursor += EntryWidth
	return entryIndex, nil
}

// Read decodes the entry at entryIndex and returns (logOffset, size).
func (i *IndexFile) Read(entryIndex int64) (logOffset, size int64, err error) {
	pos := entryIndex * EntryWidth
	if entryIndex < 0 || pos+EntryWidth > i.cursor {
		return 0, 0, ErrOutOfBounds
	}

	entry := i.mmap[pos : pos+EntryWidth]

	logOffset, err = strconv.ParseInt(string(entry[:offsetDigits]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: decoding offset of entry %d: %v", ErrIoError, entryIndex, err)
	}
	size, err = strconv.ParseInt(string(entry[offsetDigits:]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: decoding size of entry %d: %v", ErrIoError, entryIndex, err)
	}
	return logOffset, size, nil
}

// Entries returns the number of valid entries written so far.
func (i *IndexFile) Entries() int64 {
	return i.cursor / EntryWidth
}

// Flush requests that the host flush dirty pages to the backing file.
func (i *IndexFile) Flush() error {
	if err := i.mmap.Sync(gommap.MS_ASYNC); err != nil {
		return fmt.Errorf("%w: flushing index file %s: %v", ErrIoError, i.file.Name(), err)
	}
	return nil
}

// MaxSize returns the fixed capacity of the IndexFile in bytes.
func (i *IndexFile) MaxSize() int64 {
	return i.maxSize
}

// Cursor returns the byte offset at which the next entry will be written.
func (i *IndexFile) Cursor() int64 {
	return i.cursor
}

// Name returns the path of the backing file.
func (i *IndexFile) Name() string {
	return i.file.Name()
}

// Close flushes the mapping synchronously, unmaps it, and closes the
// backing file.
func (i *IndexFile) Close() error {
	if err := i.mmap.Sync(gommap.MS_SYNC); err != nil {
		return fmt.Errorf("%w: syncing index file %s: %v", ErrIoError, i.file.Name(), err)
	}
	if err := i.mmap.UnsafeUnmap(); err != nil {
		return fmt.Errorf("%w: unmapping index file %s: %v", ErrIoError, i.file.Name(), err)
	}
	if err := i.file.Sync(); err != nil {
		return fmt.Errorf("%w: syncing index file %s: %v", ErrIoError, i.file.Name(), err)
	}
	if err := i.file.Close(); err != nil {
		return fmt.Errorf("%w: closing index file %s: %v", ErrIoError, i.file.Name(), err)
	}
	return nil
}

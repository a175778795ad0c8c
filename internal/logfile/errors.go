package logfile

import "errors"

// Sentinel errors returned by LogFile and IndexFile. They are checked with
// errors.Is by callers in internal/log, which wraps them with operation
// context via fmt.Errorf("%w", ...).
var (
	// ErrIoError wraps an underlying file or mmap syscall failure.
	ErrIoError = errors.New("logfile: io error")

	// ErrOutOfBounds is returned by a read past the current cursor.
	ErrOutOfBounds = errors.New("logfile: position out of bounds")

	// ErrSegmentFull is returned by LogFile.Append when the record does
	// not fit before max_size.
	ErrSegmentFull = errors.New("logfile: log file is full")

	// ErrIndexFull is returned by IndexFile.Write when there is no room
	// left for another entry.
	ErrIndexFull = errors.New("logfile: index file is full")

	// ErrInvalidConfig is returned by NewIndexFile when max_size is not a
	// positive multiple of EntryWidth.
	ErrInvalidConfig = errors.New("logfile: invalid configuration")

	// ErrValueTooLarge is returned by IndexFile.Write when an offset or
	// size does not fit in the 10 decimal digits reserved for it.
	ErrValueTooLarge = errors.New("logfile: value exceeds 10 decimal digits")
)

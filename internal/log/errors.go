package log

import (
	"errors"

	"github.com/marceloboeira/voik/internal/logfile"
)

// ErrOutOfBounds and ErrInvalidConfig are the same sentinels logfile uses
// for the equivalent failures; re-exported here so callers of this
// package can check those two without importing internal/logfile. I/O
// failures are reported as logfile.ErrIoError, which is not re-exported.
var (
	ErrOutOfBounds   = logfile.ErrOutOfBounds
	ErrInvalidConfig = logfile.ErrInvalidConfig
)

var (
	// ErrRecordTooLarge is returned by Log.Append when a record cannot fit
	// in any segment because it exceeds the configured MaxStoreBytes, or
	// an index entry for it cannot fit in MaxIndexBytes.
	ErrRecordTooLarge = errors.New("log: record too large for configured segment size")

	// ErrCorruptSegment is returned when a segment's log file accepted a
	// write that its index file then rejected, leaving trailing
	// unreferenced bytes in the log file. Not reachable in normal
	// operation since Log.Append pre-checks Segment.Fits before writing.
	ErrCorruptSegment = errors.New("log: segment store and index disagree after a failed write")

	// ErrDirLocked is returned by NewLog when another process already
	// holds the advisory lock on the log directory.
	ErrDirLocked = errors.New("log: directory is locked by another process")
)

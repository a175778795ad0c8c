package log

import (
	"fmt"

	"github.com/marceloboeira/voik/internal/logfile"
)

// Config holds the configuration for a Log.
//
// MaxStoreBytes is the maximum number of bytes a segment's log file can
// hold before the log rolls over to a new segment. MaxIndexBytes is the
// maximum number of bytes a segment's index file can hold before the log
// rolls over; it must be a positive multiple of logfile.EntryWidth.
//
// Restoring a Log from segments already on disk is out of scope for this
// version, so there is no InitialOffset: NewLog always starts a fresh log
// with its first segment at base offset 0.
type Config struct {
	Segment struct {
		MaxStoreBytes uint64
		MaxIndexBytes uint64
	}
}

// Validate checks the sizes configured for a segment's store and index
// files, returning ErrInvalidConfig with context when they can't be used
// to create a valid LogFile/IndexFile pair.
func (c Config) Validate() error {
	if c.Segment.MaxStoreBytes == 0 {
		return fmt.Errorf("%w: MaxStoreBytes must be positive", ErrInvalidConfig)
	}
	if c.Segment.MaxIndexBytes == 0 || c.Segment.MaxIndexBytes%logfile.EntryWidth != 0 {
		return fmt.Errorf("%w: MaxIndexBytes must be a positive multiple of %d", ErrInvalidConfig, logfile.EntryWidth)
	}
	return nil
}

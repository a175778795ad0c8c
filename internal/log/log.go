// Package log implements the persistent, append-only commit log: an
// ordered sequence of Segments, each pairing a memory-mapped LogFile with
// a memory-mapped IndexFile, that durably stores opaque byte records and
// serves them back by positional lookup.
package log

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/btree"
	"go.uber.org/zap"

	"github.com/marceloboeira/voik/internal/logfile"
	"github.com/marceloboeira/voik/internal/logging"
)

// segmentBTreeDegree matches the default degree cqkv-cqkv uses for its
// own btree-backed index; the segment registry is small (one node per
// rotation) so degree has negligible effect either way.
const segmentBTreeDegree = 32

// segmentItem adapts *segment to btree.Item, ordering by base offset.
type segmentItem struct {
	baseOffset uint64
	seg        *segment
}

func (a segmentItem) Less(than btree.Item) bool {
	return a.baseOffset < than.(segmentItem).baseOffset
}

// Log is the commit log: an ordered, append-only sequence of Segments.
// The last segment is active and receives writes; prior segments are
// sealed but remain mapped for reads. A Log is not safe for concurrent
// use by multiple callers — external synchronization is the caller's
// responsibility.
type Log struct {
	dir      string
	config   Config
	segments *btree.BTree
	active   *segment
	lock     *dirLock
}

// NewLog creates dir if it doesn't exist, takes an advisory lock on it,
// and opens segment #0 at base offset 0. Restoring a log from segments
// already present in dir is out of scope; the directory is assumed empty.
func NewLog(dir string, c Config) (*Log, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: creating log directory %s: %v", logfile.ErrIoError, dir, err)
	}

	lock, err := acquireDirLock(dir)
	if err != nil {
		return nil, err
	}

	seg, err := newSegment(dir, 0, c)
	if err != nil {
		lock.release()
		return nil, err
	}

	segments := btree.New(segmentBTreeDegree)
	segments.ReplaceOrInsert(segmentItem{baseOffset: seg.BaseOffset(), seg: seg})

	logging.Info("commit log opened", zap.String("dir", dir))

	return &Log{
		dir:      dir,
		config:   c,
		segments: segments,
		active:   seg,
		lock:     lock,
	}, nil
}

// Append writes record to the active segment, rotating to a fresh
// segment first if the active one can't fit it, and returns the
// record's global position. Rotation is invisible to the caller: either
// the write lands on the old segment, or a new segment is created and
// the write lands there instead. Sealed segments are never mutated again.
func (l *Log) Append(record []byte) (globalPosition uint64, err error) {
	if uint64(len(record)) > l.config.Segment.MaxStoreBytes || logfile.EntryWidth > l.config.Segment.MaxIndexBytes {
		return 0, fmt.Errorf("%w: record is %d bytes, segment store holds %d", ErrRecordTooLarge, len(record), l.config.Segment.MaxStoreBytes)
	}

	if !l.active.Fits(len(record)) {
		if err := l.rotate(); err != nil {
			return 0, err
		}
	}

	local, err := l.active.Append(record)
	if err != nil {
		if errors.Is(err, logfile.ErrSegmentFull) || errors.Is(err, logfile.ErrIndexFull) {
			// A freshly rotated segment still can't fit the record.
			return 0, fmt.Errorf("%w: record is %d bytes", ErrRecordTooLarge, len(record))
		}
		return 0, err
	}

	return l.active.BaseOffset() + local, nil
}

// rotate seals the active segment (flushing it first) and opens a new
// one at the global position just past the active segment's last record.
func (l *Log) rotate() error {
	if err := l.active.Flush(); err != nil {
		logging.Warn("failed to flush segment before rotation", zap.Uint64("base_offset", l.active.BaseOffset()), zap.Error(err))
	}

	newBase := l.active.BaseOffset() + l.active.Count()

	seg, err := newSegment(l.dir, newBase, l.config)
	if err != nil {
		return fmt.Errorf("rotating past segment %d: %w", l.active.BaseOffset(), err)
	}

	l.segments.ReplaceOrInsert(segmentItem{baseOffset: newBase, seg: seg})
	l.active = seg

	logging.Info("rotated to new segment", zap.Uint64("base_offset", newBase))
	return nil
}

// Read returns the bytes of the record at globalPosition, locating the
// segment that owns it with an O(log n) lookup over base offsets.
func (l *Log) Read(globalPosition uint64) ([]byte, error) {
	seg := l.findSegment(globalPosition)
	if seg == nil {
		return nil, fmt.Errorf("%w: position %d", ErrOutOfBounds, globalPosition)
	}

	buf, err := seg.Read(globalPosition - seg.BaseOffset())
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// findSegment returns the segment S such that S.BaseOffset() <= position
// < S.BaseOffset()+S.Count(), or nil if no such segment exists.
func (l *Log) findSegment(position uint64) *segment {
	var found *segment
	l.segments.DescendLessOrEqual(segmentItem{baseOffset: position}, func(item btree.Item) bool {
		seg := item.(segmentItem).seg
		if position < seg.BaseOffset()+seg.Count() {
			found = seg
		}
		return false
	})
	return found
}

// Flush flushes every segment, active and sealed, in ascending base
// offset order.
func (l *Log) Flush() error {
	var firstErr error
	l.segments.Ascend(func(item btree.Item) bool {
		if err := item.(segmentItem).seg.Flush(); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})
	return firstErr
}

// Close flushes and releases every segment's mapped files and releases
// the directory lock.
func (l *Log) Close() error {
	var firstErr error
	l.segments.Ascend(func(item btree.Item) bool {
		if err := item.(segmentItem).seg.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		return true
	})

	if err := l.lock.release(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("%w: releasing directory lock: %v", logfile.ErrIoError, err)
	}

	return firstErr
}

// SegmentCount returns the number of segments the log currently holds.
func (l *Log) SegmentCount() int {
	return l.segments.Len()
}

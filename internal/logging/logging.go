// Package logging wires a zap logger to a lock-guarded ring buffer,
// the only process-wide state in the system (spec §5: "the only
// process-wide state is the log ring buffer; writer-side append is
// lock-guarded; readers snapshot"). The zapcore.Core pattern follows
// the teacher's logutil package.
package logging

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Line is one ring-buffer entry.
type Line struct {
	Time    time.Time
	Level   string
	Message string
}

// RingBuffer is a fixed-capacity, lock-guarded log sink. Append is the
// only writer-side operation; Snapshot is lock-free-to-readers in the
// sense that it copies under a brief lock and returns, never blocking
// on further writes.
type RingBuffer struct {
	mu       sync.Mutex
	lines    []Line
	capacity int
	next     int
	full     bool
}

func NewRingBuffer(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{lines: make([]Line, capacity), capacity: capacity}
}

func (r *RingBuffer) Append(l Line) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines[r.next] = l
	r.next = (r.next + 1) % r.capacity
	if r.next == 0 {
		r.full = true
	}
}

// Snapshot returns the buffered lines oldest-first.
func (r *RingBuffer) Snapshot() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]Line, r.next)
		copy(out, r.lines[:r.next])
		return out
	}
	out := make([]Line, r.capacity)
	copy(out, r.lines[r.next:])
	copy(out[r.capacity-r.next:], r.lines[:r.next])
	return out
}

// ringCore is a zapcore.Core that appends every entry to a RingBuffer
// in addition to whatever core it wraps.
type ringCore struct {
	zapcore.LevelEnabler
	buf    *RingBuffer
	next   zapcore.Core
	fields []zapcore.Field
}

func newRingCore(enab zapcore.LevelEnabler, buf *RingBuffer, next zapcore.Core) *ringCore {
	return &ringCore{LevelEnabler: enab, buf: buf, next: next}
}

func (c *ringCore) With(fields []zapcore.Field) zapcore.Core {
	return &ringCore{LevelEnabler: c.LevelEnabler, buf: c.buf, next: c.next.With(fields), fields: append(c.fields, fields...)}
}

func (c *ringCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *ringCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	c.buf.Append(Line{Time: ent.Time, Level: ent.Level.String(), Message: ent.Message})
	return c.next.Write(ent, fields)
}

func (c *ringCore) Sync() error { return c.next.Sync() }

// New builds a *zap.Logger that writes structured logs normally and
// also appends every entry into buf.
func New(buf *RingBuffer, development bool) (*zap.Logger, error) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return base.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return newRingCore(cfg.Level, buf, core)
	})), nil
}

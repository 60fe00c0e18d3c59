package chart

import (
	"github.com/google/uuid"

	"github.com/j-veylop/sview/internal/logger"
)

// Session is one rendered chart. It owns the aggregated series, the bucket
// list and the domain, which stay fixed for its lifetime, plus the
// interaction state, which Render resets.
type Session struct {
	id      string
	surface Surface
	opts    Options

	set     *SeriesSet
	buckets []int64
	domain  Domain
	empty   bool

	width  int
	frame  *Frame
	state  State
	detach func()
}

// NewSession aggregates in and computes buckets and domain. Nothing is drawn
// until Render.
func NewSession(in Input, opts Options, surface Surface) *Session {
	s := &Session{
		id:      uuid.NewString(),
		surface: surface,
		opts:    opts,
		set:     &SeriesSet{Data: map[string]SeriesData{}},
	}
	if len(in.Rows) == 0 {
		s.empty = true
		logger.Debug("chart session created", "session", s.id, "rows", 0)
		return s
	}

	start, end := parseBound(in.Start), parseBound(in.End)
	s.set = Aggregate(in.Rows, opts.GroupBy, opts.ShowHits, opts.ValueColumns())
	s.buckets = Buckets(start, end, Stride(in.BucketSize), s.set)
	s.domain = ComputeDomain(s.set, s.buckets, opts.Fill, start, end)

	logger.Debug("chart session created",
		"session", s.id,
		"rows", len(in.Rows),
		"series", s.set.Len(),
		"buckets", len(s.buckets),
		"fill", opts.Fill.String(),
	)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Empty reports whether the session was created without rows.
func (s *Session) Empty() bool { return s.empty }

// Keys returns the series keys in legend order.
func (s *Session) Keys() []string { return s.set.Keys }

// Series returns the aggregated series.
func (s *Session) Series() *SeriesSet { return s.set }

// Buckets returns the bucket instants.
func (s *Session) Buckets() []int64 { return s.buckets }

// Domain returns the domain extents.
func (s *Session) Domain() Domain { return s.domain }

// Fill returns the fill mode the session was built with.
func (s *Session) Fill() FillMode { return s.opts.Fill }

// Options returns the options the session was built with.
func (s *Session) Options() Options { return s.opts }

// Width returns the width of the last render.
func (s *Session) Width() int { return s.width }

// Frame returns the geometry of the last render, or nil before the first
// render and for empty sessions.
func (s *Session) Frame() *Frame { return s.frame }

// State returns the current interaction state.
func (s *Session) State() State { return s.state }

// Scaler returns the scales of the last render.
func (s *Session) Scaler() Scaler { return NewScaler(s.domain, s.width) }

// Render draws the session at width pixels. The series and domain are
// reused; scales, paths, legend and crosshair geometry are rebuilt.
func (s *Session) Render(width int) {
	s.width = width
	s.state = State{}
	if s.empty {
		applyAll(s.surface, []Command{{Op: OpEmptyState, Text: EmptyMessage, Width: float64(width)}})
		return
	}

	s.frame = newFrame(s.set, s.buckets, s.opts.Fill, NewScaler(s.domain, width))
	cmds := []Command{{Op: OpReset, Width: float64(width)}}
	for i, key := range s.set.Keys {
		color := s.frame.Colors[i]
		cmds = append(cmds,
			Command{Op: OpSetLegendText, Key: key, Text: key, Color: color},
			Command{Op: OpBeginPath, Key: key, Color: color, Width: StrokeNormal},
		)
		for _, pc := range BuildPath(s.set.Data[key], s.buckets, s.opts.Fill, s.frame.Scaler) {
			op := OpMoveTo
			if pc.Op == LineTo {
				op = OpLineTo
			}
			cmds = append(cmds, Command{Op: op, Key: key, X: pc.X, Y: pc.Y})
		}
	}
	applyAll(s.surface, cmds)
	logger.Debug("chart rendered", "session", s.id, "width", width, "commands", len(cmds))
}

// Dispatch runs ev through Step, keeps the new state and sends the
// resulting commands to the surface.
func (s *Session) Dispatch(ev Event) []Command {
	if s.empty || s.frame == nil {
		return nil
	}
	next, cmds := Step(s.frame, s.state, ev)
	s.state = next
	applyAll(s.surface, cmds)
	return cmds
}

// Close detaches the session from its container.
func (s *Session) Close() {
	if s.detach != nil {
		s.detach()
		s.detach = nil
		logger.Debug("chart session closed", "session", s.id)
	}
}

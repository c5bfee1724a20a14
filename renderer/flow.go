// Package renderer provides the flow field simulation loop and the surfaces
// its trails are drawn on.
package renderer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pthm-cable/flowfields/components"
	"github.com/pthm-cable/flowfields/systems"
)

// Loop errors.
var (
	ErrAlreadyStarted = errors.New("renderer: already started")
	ErrStopped        = errors.New("renderer: stopped")
)

// State is the lifecycle state of a FlowRenderer loop.
type State int32

const (
	StateIdle    State = iota // Constructed, loop not started
	StateRunning              // Loop re-schedules itself every frame
	StateStopped              // Stop requested; no further frames run
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// FrameParams are the parameters bound to every frame of the loop.
type FrameParams struct {
	Weight      float64 // Scale applied to the grid vector before it is added to velocity
	MaxVelocity float64 // Velocity length limit
	Iterations  int     // Steps per rendered frame
}

// DefaultFrameParams are the params the loop runs with unless configured.
var DefaultFrameParams = FrameParams{Weight: 1, MaxVelocity: 5, Iterations: 1}

// DefaultStepParams match the defaults of a bare step call.
var DefaultStepParams = FrameParams{Weight: 0.01, MaxVelocity: 1, Iterations: 1}

func (p FrameParams) normalized() FrameParams {
	if p.Iterations < 1 {
		p.Iterations = 1
	}
	return p
}

// StepStats summarizes one or more steps.
type StepStats struct {
	Entities int // Entity updates performed
	OffGrid  int // Updates where the entity was outside the grid
	Segments int // Segments stroked onto the brush
}

func (s *StepStats) add(o StepStats) {
	s.Entities += o.Entities
	s.OffGrid += o.OffGrid
	s.Segments += o.Segments
}

// FrameStats describes a completed frame.
type FrameStats struct {
	Frame      uint64
	Population int
	Steps      int
	StepStats
	StepTime      time.Duration
	CompositeTime time.Duration
}

// PhaseTimer receives per-frame phase timings.
type PhaseTimer interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

// Phase names reported to a PhaseTimer.
const (
	PhaseStep      = "step"
	PhaseComposite = "composite"
)

// Option configures a FlowRenderer.
type Option func(*FlowRenderer)

// WithStroke sets the stroke style used for trail segments.
func WithStroke(style StrokeStyle) Option {
	return func(r *FlowRenderer) {
		r.brush = NewBrush(style)
	}
}

// WithPhaseTimer reports frame phases to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(r *FlowRenderer) {
		r.perf = t
	}
}

// WithFrameObserver calls fn after every frame, outside the population lock.
func WithFrameObserver(fn func(FrameStats)) Option {
	return func(r *FlowRenderer) {
		r.observer = fn
	}
}

// FlowRenderer advances a population of entities through a flow grid and
// accumulates their trails on a persistent surface.
type FlowRenderer struct {
	grid  *systems.FlowGrid
	trail TrailSurface
	brush *Brush

	// mu serializes ticks against Drop and snapshots.
	mu       sync.Mutex
	entities []*components.Entity
	frames   uint64

	state    atomic.Int32
	release  func() bool // detaches a context watcher, if any
	perf     PhaseTimer
	observer func(FrameStats)
}

// NewFlowRenderer creates an idle renderer drawing onto trail.
func NewFlowRenderer(trail TrailSurface, grid *systems.FlowGrid, opts ...Option) *FlowRenderer {
	if grid == nil {
		grid = systems.NewFlowGrid(0, 0, nil)
	}
	r := &FlowRenderer{
		grid:     grid,
		trail:    trail,
		brush:    NewBrush(DefaultStroke),
		entities: make([]*components.Entity, 0, 512),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Grid returns the flow grid.
func (r *FlowRenderer) Grid() *systems.FlowGrid {
	return r.grid
}

// Size returns the trail surface dimensions.
func (r *FlowRenderer) Size() (int, int) {
	return r.trail.Size()
}

// CellSize is the pixel width of one grid column.
func (r *FlowRenderer) CellSize() float64 {
	if r.grid.Cols() == 0 {
		return 0
	}
	w, _ := r.trail.Size()
	return float64(w) / float64(r.grid.Cols())
}

// State returns the loop state.
func (r *FlowRenderer) State() State {
	return State(r.state.Load())
}

// Frames returns the number of composited frames.
func (r *FlowRenderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Len returns the population size.
func (r *FlowRenderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entities)
}

// Entities returns a copy of every entity's current state, in insertion order.
func (r *FlowRenderer) Entities() []components.Entity {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]components.Entity, len(r.entities))
	for i, e := range r.entities {
		out[i] = *e
	}
	return out
}

// Drop appends e to the population. It is safe to call at any time; the
// entity is picked up by the next tick that starts after Drop returns.
func (r *FlowRenderer) Drop(e *components.Entity) {
	if e == nil {
		return
	}
	r.mu.Lock()
	r.entities = append(r.entities, e)
	r.mu.Unlock()
}

// Step advances every entity once, in insertion order, stroking each move
// onto the brush.
func (r *FlowRenderer) Step(weight, maxVelocity float64) StepStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step(weight, maxVelocity)
}

func (r *FlowRenderer) step(weight, maxVelocity float64) StepStats {
	stats := StepStats{}
	cellSize := r.CellSize()

	for _, e := range r.entities {
		var cell components.Vector
		ok := false
		if cellSize > 0 {
			cell, ok = r.grid.At(e.Position.X/cellSize, e.Position.Y/cellSize)
		}
		if ok {
			e.Velocity = e.Velocity.Add(cell.Scale(weight))
		} else {
			stats.OffGrid++
		}

		e.Velocity = e.Velocity.ClampLength(maxVelocity)

		from := e.Position
		e.Position = e.Position.Add(e.Velocity)
		r.brush.Line(from, e.Position)

		stats.Entities++
		stats.Segments++
	}

	return stats
}

// Frame runs p.Iterations steps, composites the brush onto the trail
// without clearing the trail, and clears the brush.
func (r *FlowRenderer) Frame(p FrameParams) FrameStats {
	p = p.normalized()

	r.mu.Lock()
	if r.perf != nil {
		r.perf.StartTick()
		r.perf.StartPhase(PhaseStep)
	}

	start := time.Now()
	var steps StepStats
	for i := 0; i < p.Iterations; i++ {
		steps.add(r.step(p.Weight, p.MaxVelocity))
	}
	stepTime := time.Since(start)

	if r.perf != nil {
		r.perf.StartPhase(PhaseComposite)
	}
	start = time.Now()
	r.trail.Composite(r.brush)
	r.brush.Clear()
	compositeTime := time.Since(start)

	if r.perf != nil {
		r.perf.EndTick()
	}

	r.frames++
	stats := FrameStats{
		Frame:         r.frames,
		Population:    len(r.entities),
		Steps:         p.Iterations,
		StepStats:     steps,
		StepTime:      stepTime,
		CompositeTime: compositeTime,
	}
	r.mu.Unlock()

	if r.observer != nil {
		r.observer(stats)
	}
	return stats
}

// Start runs the first frame immediately and then re-schedules a frame with
// the same params at every display refresh offered by sched, until Stop.
func (r *FlowRenderer) Start(sched FrameScheduler, p FrameParams) error {
	if !r.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		if r.State() == StateStopped {
			return ErrStopped
		}
		return ErrAlreadyStarted
	}

	p = p.normalized()
	var tick func()
	tick = func() {
		if r.State() != StateRunning {
			return
		}
		r.Frame(p)
		sched.RequestFrame(tick)
	}
	tick()
	return nil
}

// StartContext is Start with the loop also stopped when ctx is done.
func (r *FlowRenderer) StartContext(ctx context.Context, sched FrameScheduler, p FrameParams) error {
	if err := ctx.Err(); err != nil {
		r.Stop()
		return err
	}
	if err := r.Start(sched, p); err != nil {
		return err
	}
	release := context.AfterFunc(ctx, r.Stop)
	r.mu.Lock()
	r.release = release
	r.mu.Unlock()
	// Stop may have won the race before release was stored.
	if r.State() == StateStopped {
		release()
	}
	return nil
}

// Stop cancels the loop. The next scheduled frame observes the cancellation
// and neither runs nor re-schedules. Stop is idempotent.
func (r *FlowRenderer) Stop() {
	r.state.Store(int32(StateStopped))
	r.mu.Lock()
	release := r.release
	r.release = nil
	r.mu.Unlock()
	if release != nil {
		release()
	}
}

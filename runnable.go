package sprig

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Transition produces the arguments for the next phase from the one that
// just ended.
type Transition interface {
	Apply(prev *Phase) Args
}

// TransitionFunc adapts a function to Transition.
type TransitionFunc func(prev *Phase) Args

// Apply implements Transition.
func (f TransitionFunc) Apply(prev *Phase) Args { return f(prev) }

// NoArgs is a Transition that passes nothing.
var NoArgs Transition = TransitionFunc(func(*Phase) Args { return nil })

type edge struct{ from, to string }

// Runnable hosts exactly one active phase at a time and drives the tick
// loop: read inputs, update the phase, follow a transition if the phase
// asks for one, then render. It implements ebiten.Game.
type Runnable struct {
	// Title is the window title used by Run.
	Title string
	// ScreenshotDir receives PNGs queued with Screenshot.
	ScreenshotDir string
	// FullScreen starts Run in full screen mode.
	FullScreen bool

	ctx         *Context
	phases      map[string]*Phase
	order       []string
	transitions map[edge]Transition
	initial     string

	current *Phase
	started bool
	stopped bool
	err     error

	input    InputSource
	tracker  inputTracker
	last     *Inputs
	injected []RawInput

	screenshots []string
	runner      *TestRunner
	debug       bool
	stats       frameStats
}

// NewRunnable creates a runnable on ctx.
func NewRunnable(ctx *Context) *Runnable {
	return &Runnable{
		ctx:           ctx,
		phases:        make(map[string]*Phase),
		transitions:   make(map[edge]Transition),
		ScreenshotDir: "screenshots",
	}
}

// Context returns the runnable's context.
func (r *Runnable) Context() *Context { return r.ctx }

// AddPhase registers p. The first phase registered is the initial one
// unless SetInitial names another.
func (r *Runnable) AddPhase(p *Phase) error {
	if p == nil || p.Name == "" || p.Name == NoNext {
		return configError("phase must have a name")
	}
	if _, dup := r.phases[p.Name]; dup {
		return configError("phase %q registered twice", p.Name)
	}
	if p.ctx != r.ctx {
		return configError("phase %q belongs to another context", p.Name)
	}
	r.phases[p.Name] = p
	r.order = append(r.order, p.Name)
	return nil
}

// Phase returns the registered phase called name, or nil.
func (r *Runnable) Phase(name string) *Phase { return r.phases[name] }

// Current returns the active phase, nil before the first tick.
func (r *Runnable) Current() *Phase { return r.current }

// SetInitial names the phase started by the first tick.
func (r *Runnable) SetInitial(name string) error {
	if _, ok := r.phases[name]; !ok {
		return configError("unknown phase %q", name)
	}
	r.initial = name
	return nil
}

// SetTransition registers the edge from -> to. A nil t passes no arguments.
func (r *Runnable) SetTransition(from, to string, t Transition) error {
	for _, name := range []string{from, to} {
		if _, ok := r.phases[name]; !ok {
			return configError("transition %s -> %s: unknown phase %q", from, to, name)
		}
	}
	if t == nil {
		t = NoArgs
	}
	r.transitions[edge{from, to}] = t
	return nil
}

// SetInput replaces the input source. Injected input still takes priority.
func (r *Runnable) SetInput(src InputSource) { r.input = src }

// SetDebugMode enables per-tick stats at Debug level.
func (r *Runnable) SetDebugMode(on bool) { r.debug = on }

// SetTestRunner attaches a test script. Its step runs before the inputs are
// read in every tick.
func (r *Runnable) SetTestRunner(runner *TestRunner) { r.runner = runner }

// Inputs returns the snapshot of the last tick, or nil.
func (r *Runnable) Inputs() *Inputs { return r.last }

// Done reports whether the loop stopped, by NoNext, quit or a fatal error.
func (r *Runnable) Done() bool { return r.stopped || r.err != nil }

// Err returns the fatal error that stopped the loop, if any.
func (r *Runnable) Err() error { return r.err }

func (r *Runnable) begin() error {
	name := r.initial
	if name == "" {
		if len(r.order) == 0 {
			return configError("no phases registered")
		}
		name = r.order[0]
	}
	r.started = true
	r.current = r.phases[name]
	if r.debug {
		r.debugCheckTree(r.current.root)
	}
	r.ctx.Logger.Info("phase start", slog.String("phase", name))
	return r.current.start(nil)
}

func (r *Runnable) readInput() RawInput {
	if len(r.injected) > 0 {
		raw := r.injected[0]
		copy(r.injected, r.injected[1:])
		r.injected = r.injected[:len(r.injected)-1]
		return raw
	}
	if r.input == nil {
		src, unknown := NewEbitenInput(DefaultBindings)
		if len(unknown) > 0 {
			r.ctx.Logger.Warn("unknown key names", slog.Any("keys", unknown))
		}
		r.input = src
	}
	return r.input.Read()
}

// Step runs one tick of dt milliseconds. It returns the fatal error that
// stopped the loop, if any.
func (r *Runnable) Step(dt float64) error {
	if r.err != nil || r.stopped {
		return r.err
	}
	if !r.started {
		if err := r.begin(); err != nil {
			return r.fail(err)
		}
	}
	if r.runner != nil {
		r.runner.step(r)
	}

	t0 := time.Now()
	r.ctx.stats = frameStats{}
	in := r.tracker.snapshot(r.readInput(), dt)
	r.last = in
	if in.Quit {
		r.stop()
		return nil
	}

	r.current.update(dt, in)
	if r.ctx.Mixer != nil {
		r.ctx.Mixer.Update(dt)
	}
	switch next := r.current.next(); {
	case next == NoNext:
		r.stop()
	case next != "" && next != r.current.Name:
		if err := r.switchTo(next); err != nil {
			return r.fail(err)
		}
	}
	r.stats.updateTime = time.Since(t0)
	return nil
}

func (r *Runnable) switchTo(name string) error {
	prev := r.current
	t, ok := r.transitions[edge{prev.Name, name}]
	if !ok {
		return configError("no transition from %q to %q", prev.Name, name)
	}
	prev.end()
	args := t.Apply(prev)
	r.current = r.phases[name]
	r.ctx.Logger.Info("phase change", slog.String("from", prev.Name), slog.String("to", name))
	r.ctx.emit(InteractionEvent{Type: EventPhaseChange, Name: prev.Name, Phase: name})
	return r.current.start(args)
}

func (r *Runnable) stop() {
	if r.stopped {
		return
	}
	r.stopped = true
	if r.current != nil && r.current.active {
		r.current.end()
	}
	if r.ctx.Mixer != nil {
		r.ctx.Mixer.StopMusic()
	}
	r.ctx.Logger.Info("runnable stopped")
}

func (r *Runnable) fail(err error) error {
	r.err = err
	r.ctx.Logger.Error("fatal", slog.Any("error", err))
	return err
}

// Update implements ebiten.Game.
func (r *Runnable) Update() error {
	if err := r.Step(1000 / float64(ebiten.TPS())); err != nil {
		return err
	}
	if r.stopped {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game. A panic while compositing marks the phase
// failed; the error surfaces from the next Update.
func (r *Runnable) Draw(screen *ebiten.Image) {
	if r.current == nil || r.err != nil {
		return
	}
	t0 := time.Now()
	defer func() {
		if v := recover(); v != nil {
			err, ok := v.(error)
			if !ok {
				err = fmt.Errorf("%v", v)
			}
			r.current.failed = fmt.Errorf("sprig: render phase %q: %w", r.current.Name, err)
			r.fail(r.current.failed)
		}
	}()
	screen.DrawImage(r.current.Surface(), nil)
	r.drawCursor(screen)
	r.flushScreenshots(screen)

	r.stats.renderTime = time.Since(t0)
	r.stats.elements = r.ctx.ElementCount()
	r.stats.rebuilds = r.ctx.stats.rebuilds
	r.debugLog(r.stats)
}

func (r *Runnable) drawCursor(screen *ebiten.Image) {
	cur := r.ctx.Cursor()
	if cur == nil {
		return
	}
	cur.apply()
	ic, ok := cur.(*ImageCursor)
	if !ok || ic.Image == nil || r.last == nil {
		return
	}
	drawAt(screen, ic.Image, r.last.MouseX-ic.Hotspot.X, r.last.MouseY-ic.Hotspot.Y)
}

// Layout implements ebiten.Game.
func (r *Runnable) Layout(_, _ int) (int, int) {
	return r.ctx.ScreenWidth, r.ctx.ScreenHeight
}

// Run opens the window and blocks until the loop stops. A clean stop
// returns nil.
func (r *Runnable) Run() error {
	ebiten.SetWindowSize(r.ctx.ScreenWidth, r.ctx.ScreenHeight)
	if r.Title != "" {
		ebiten.SetWindowTitle(r.Title)
	}
	if r.ctx.MaxFPS > 0 {
		ebiten.SetTPS(r.ctx.MaxFPS)
	}
	ebiten.SetFullscreen(r.FullScreen)
	ebiten.SetWindowClosingHandled(true)
	err := ebiten.RunGame(r)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

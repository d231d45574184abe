package sprig

// InjectPress queues a primary-button press at the given screen
// coordinates. Injected ticks are consumed one per tick before the input
// source is read.
func (r *Runnable) InjectPress(x, y float64) {
	r.injected = append(r.injected, RawInput{MouseX: x, MouseY: y, Pressed: true})
}

// InjectMove queues a pointer move at the given screen coordinates with the
// button held down. Use this between InjectPress and InjectRelease to
// simulate a drag.
func (r *Runnable) InjectMove(x, y float64) {
	r.injected = append(r.injected, RawInput{MouseX: x, MouseY: y, Pressed: true})
}

// InjectHover queues a pointer move with the button up.
func (r *Runnable) InjectHover(x, y float64) {
	r.injected = append(r.injected, RawInput{MouseX: x, MouseY: y})
}

// InjectRelease queues a button release at the given screen coordinates.
func (r *Runnable) InjectRelease(x, y float64) {
	r.injected = append(r.injected, RawInput{MouseX: x, MouseY: y})
}

// InjectClick is a convenience that queues a press followed by a release
// at the same screen coordinates. Consumes two ticks.
func (r *Runnable) InjectClick(x, y float64) {
	r.InjectPress(x, y)
	r.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate ticks, and
// release at (toX, toY). The total sequence consumes `frames` ticks.
// Minimum frames is 2 (press + release).
func (r *Runnable) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	r.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		r.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	r.InjectRelease(toX, toY)
}

// InjectKey queues action held for frames ticks followed by one tick with
// it released. The pointer stays where the last tick left it.
func (r *Runnable) InjectKey(action string, frames int) {
	frames = max(frames, 1)
	var x, y float64
	if r.last != nil {
		x, y = r.last.MouseX, r.last.MouseY
	}
	for i := 0; i < frames; i++ {
		r.injected = append(r.injected, RawInput{MouseX: x, MouseY: y, Actions: []string{action}})
	}
	r.injected = append(r.injected, RawInput{MouseX: x, MouseY: y})
}

// InjectText queues one tick typing s.
func (r *Runnable) InjectText(s string) {
	var x, y float64
	if r.last != nil {
		x, y = r.last.MouseX, r.last.MouseY
	}
	r.injected = append(r.injected, RawInput{MouseX: x, MouseY: y, Chars: []rune(s)})
}

// Pending returns the number of injected ticks not yet consumed.
func (r *Runnable) Pending() int { return len(r.injected) }

// Package sprig is a small game-authoring framework for [Ebitengine].
//
// A game is a [Runnable] hosting one active [Phase] at a time. Each phase
// owns a tree of [Element] values: plain drawings, texts, buttons,
// checkboxes, sliders, progress bars, entries, tooltips, and frames
// ([NewFrame]) whose canvas is viewed through a [Camera]. Elements pick their image from an
// [Arts] set according to their visual [State], which follows hover,
// focus, disable and activation.
//
// # Quick start
//
//	ctx := sprig.NewContext(640, 480)
//	menu := sprig.NewPhase(ctx, "menu")
//	arts := sprig.NewArts(sprig.NewRectangleArt(120, 40, sprig.RGB(80, 180, 255)))
//	sprig.NewButton(menu, "quit", arts, "Quit", func() { menu.SetNext(sprig.NoNext) }).
//		Place(320, 240, sprig.AnchorCenter, 0)
//
//	r := sprig.NewRunnable(ctx)
//	r.AddPhase(menu)
//	if err := r.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Phases and transitions
//
// A phase names its successor with [Phase.SetNext] (or a Next function).
// The runnable then ends the phase, applies the registered [Transition] to
// build the [Args] of the next phase, and starts it. Returning [NoNext]
// stops the loop. Taking an edge without a transition is a configuration
// error.
//
// # Placement
//
// Elements are placed on their master either absolutely with
// [Element.Place] or in a [Grid], whose columns and rows grow to fit their
// largest element. An element belongs to at most one grid.
//
// # Arts
//
// An [Art] is an animated image source. File arts load lazily when their
// phase starts and unload when it ends, unless marked Permanent.
// Transformations such as [Resize], [Crop], [Flip] or [DrawCircle] are
// queued with [Art.Transform] and applied at load time.
//
// # Time
//
// Durations are in milliseconds throughout: art frame durations, tweens,
// repeat timings and the dt passed to update hooks.
//
// # Testing
//
// [ScriptedInputs] and the Inject methods of [Runnable] feed deterministic
// input, [Runnable.Step] advances one tick without a window, and
// [LoadTestScript] replays JSON scripts.
//
// [Ebitengine]: https://ebitengine.org
package sprig

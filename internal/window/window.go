// Package window hosts a polyboard game in a desktop window.
package window

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/polyboard"
	"github.com/gogpu/polyboard/render"
)

// keyMap lists the host keys forwarded to the game.
var keyMap = map[ebiten.Key]gpucontext.Key{
	ebiten.KeyV:      gpucontext.KeyV,
	ebiten.KeyEscape: gpucontext.KeyEscape,
}

// Window shows a game's software framebuffer and feeds it host input.
// It implements ebiten.Game.
type Window struct {
	ctx    context.Context
	game   *polyboard.Game
	target *render.PixmapTarget
	logger *slog.Logger
	title  string

	start   time.Time
	tr      translator
	focused bool
	frame   *ebiten.Image

	mu       sync.Mutex
	pointers []func(gpucontext.PointerEvent)
	keys     []func(gpucontext.Key, gpucontext.Modifiers)
}

// New creates a window for game, which must draw on target.
func New(ctx context.Context, game *polyboard.Game, target *render.PixmapTarget, title string, logger *slog.Logger) *Window {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Window{
		ctx:     ctx,
		game:    game,
		target:  target,
		logger:  logger,
		title:   title,
		start:   time.Now(),
		focused: true,
	}
	game.Attach(w, w)
	return w
}

// OnPointer implements gpucontext.PointerEventSource.
func (w *Window) OnPointer(fn func(gpucontext.PointerEvent)) {
	w.mu.Lock()
	w.pointers = append(w.pointers, fn)
	w.mu.Unlock()
}

// OnKeyPress registers a key press callback.
func (w *Window) OnKeyPress(fn func(gpucontext.Key, gpucontext.Modifiers)) {
	w.mu.Lock()
	w.keys = append(w.keys, fn)
	w.mu.Unlock()
}

// Run opens the window and blocks until it is closed or ctx is done.
func (w *Window) Run() error {
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowSize(w.target.Width(), w.target.Height())
	ebiten.SetTPS(60)
	w.logger.Info("window opened", "width", w.target.Width(), "height", w.target.Height())
	return ebiten.RunGame(w)
}

// Update polls input and advances the game by one frame.
func (w *Window) Update() error {
	if err := w.ctx.Err(); err != nil {
		return ebiten.Termination
	}

	focused := ebiten.IsFocused()
	if !focused && w.focused {
		w.dispatch(w.tr.cancel(), nil)
	}
	w.focused = focused

	x, y := ebiten.CursorPosition()
	s := Sample{
		X:        x,
		Y:        y,
		Pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		Time:     time.Since(w.start),
	}
	for hk, k := range keyMap {
		if inpututil.IsKeyJustPressed(hk) {
			s.Keys = append(s.Keys, k)
		}
	}
	w.dispatch(w.tr.translate(s), s.Keys)

	for _, k := range s.Keys {
		if k == gpucontext.KeyEscape {
			return ebiten.Termination
		}
	}
	return w.game.Advance(w.ctx)
}

func (w *Window) dispatch(evs []gpucontext.PointerEvent, keys []gpucontext.Key) {
	w.mu.Lock()
	pointers, keyFns := w.pointers, w.keys
	w.mu.Unlock()

	for _, ev := range evs {
		for _, fn := range pointers {
			fn(ev)
		}
	}
	for _, k := range keys {
		for _, fn := range keyFns {
			fn(k, 0)
		}
	}
}

// Draw copies the game's framebuffer to the screen.
func (w *Window) Draw(screen *ebiten.Image) {
	width, height := w.target.Width(), w.target.Height()
	if w.frame == nil || w.frame.Bounds().Dx() != width || w.frame.Bounds().Dy() != height {
		if w.frame != nil {
			w.frame.Deallocate()
		}
		w.frame = ebiten.NewImage(width, height)
	}
	w.frame.WritePixels(w.target.Pixels())
	screen.DrawImage(w.frame, nil)
}

// Layout keeps the logical screen at the framebuffer size.
func (w *Window) Layout(_, _ int) (int, int) {
	return w.target.Width(), w.target.Height()
}

// Package displaytest provides a scripted display server for tests.
package displaytest

import (
	"errors"
	"sync"

	"github.com/yourusername/mousetrap/internal/display"
	"github.com/yourusername/mousetrap/internal/types"
)

// ErrClosed is returned by queries after Close
var ErrClosed = errors.New("display closed")

// Fake is an in-memory display.Server. The pointer follows the scripted
// positions in order, then stays wherever it was last put (by script or warp).
type Fake struct {
	mu sync.Mutex

	window  display.WindowID
	rect    types.Rect
	misses  int
	script  []types.Point
	pointer types.Point
	warps   []types.Point
	polls   int
	onPoll  func(n int)
	closed  bool
}

var _ display.Server = (*Fake)(nil)

// New creates a fake whose only window is win with geometry rect.
// The pointer starts at the window's origin.
func New(win display.WindowID, rect types.Rect) *Fake {
	return &Fake{
		window:  win,
		rect:    rect,
		pointer: types.Point{X: rect.X, Y: rect.Y},
	}
}

// Script queues pointer positions returned by successive PointerPosition calls
func (f *Fake) Script(points ...types.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.script = append(f.script, points...)
}

// MissWindow makes the next n PointerWindow calls report no window
func (f *Fake) MissWindow(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.misses = n
}

// OnPoll registers fn to run after every PointerPosition call with the poll count
func (f *Fake) OnPoll(fn func(n int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onPoll = fn
}

// PointerWindow implements display.Server
func (f *Fake) PointerWindow() (display.WindowID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return display.None, ErrClosed
	}
	if f.misses > 0 {
		f.misses--
		return display.None, nil
	}
	return f.window, nil
}

// PointerPosition implements display.Server
func (f *Fake) PointerPosition(win display.WindowID) (display.Pointer, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return display.Pointer{}, ErrClosed
	}
	if len(f.script) > 0 {
		f.pointer = f.script[0]
		f.script = f.script[1:]
	}
	f.polls++
	n := f.polls
	p := display.Pointer{Root: f.pointer, Child: display.None}
	onPoll := f.onPoll
	f.mu.Unlock()

	if onPoll != nil {
		onPoll(n)
	}
	return p, nil
}

// WindowRect implements display.Server
func (f *Fake) WindowRect(win display.WindowID) (types.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return types.Rect{}, ErrClosed
	}
	if win != f.window {
		return types.Rect{}, errors.New("bad window")
	}
	return f.rect, nil
}

// WarpPointer implements display.Server
func (f *Fake) WarpPointer(p types.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pointer = p
	f.warps = append(f.warps, p)
}

// Close implements display.Server
func (f *Fake) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// SetRect changes the window geometry, as if the window had been moved
func (f *Fake) SetRect(rect types.Rect) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rect = rect
}

// Warps returns the warp targets issued so far
func (f *Fake) Warps() []types.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.Point(nil), f.warps...)
}

// Polls returns the number of PointerPosition calls
func (f *Fake) Polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

// Closed reports whether Close was called
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

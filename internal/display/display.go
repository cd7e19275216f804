// Package display abstracts the display-server calls needed to keep the
// pointer inside a window: pointer queries, window geometry and warps.
package display

import (
	"errors"

	"github.com/yourusername/mousetrap/internal/types"
)

// WindowID identifies a window on the display server
type WindowID uint32

// None is the id reported when no window is under the pointer
const None WindowID = 0

// ErrConnect is returned when no display connection can be established
var ErrConnect = errors.New("cannot connect to X server")

// Pointer is the result of a pointer query
type Pointer struct {
	Root  types.Point // Position relative to the root window
	Child WindowID    // Child of the queried window under the pointer, or None
	Mask  uint16      // Button and modifier state
}

// Server is the display-server surface used by the resolver and the loop.
// Every call is synchronous.
type Server interface {
	// PointerWindow returns the top-level window under the pointer, or None
	PointerWindow() (WindowID, error)
	// PointerPosition queries the pointer in the context of win
	PointerPosition(win WindowID) (Pointer, error)
	// WindowRect reads the window's position and size
	WindowRect(win WindowID) (types.Rect, error)
	// WarpPointer moves the pointer to p in root coordinates.
	// Best effort: the request is not acknowledged and failures are not reported.
	WarpPointer(p types.Point)
	// Close releases the connection
	Close()
}

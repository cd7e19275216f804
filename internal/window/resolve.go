package window

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yourusername/mousetrap/internal/display"
	"github.com/yourusername/mousetrap/internal/types"
)

// Capture is the window picked at startup and its geometry at that moment.
// It is never refreshed: moving or resizing the window afterwards does not
// move the confinement area.
type Capture struct {
	Window display.WindowID
	Rect   types.Rect
}

// Bounds returns the captured rectangle as edge coordinates
func (c Capture) Bounds() types.Bounds {
	return types.BoundsFromRect(c.Rect)
}

// Resolver finds the window under the pointer
type Resolver struct {
	display display.Server
	log     zerolog.Logger
}

// NewResolver creates a resolver on top of a display connection
func NewResolver(d display.Server, logger zerolog.Logger) *Resolver {
	return &Resolver{display: d, log: logger}
}

// WindowUnderPointer returns the top-level window under the pointer.
// The server may briefly report no window (pointer over the root, or
// mid-transition); the query is repeated without delay until one appears.
func (r *Resolver) WindowUnderPointer(ctx context.Context) (display.WindowID, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return display.None, err
		}

		win, err := r.display.PointerWindow()
		if err != nil {
			return display.None, err
		}
		if win != display.None {
			if attempt > 1 {
				r.log.Debug().Int("attempts", attempt).Uint32("window", uint32(win)).Msg("window resolved after retries")
			}
			return win, nil
		}
	}
}

// Capture resolves the window under the pointer and snapshots its geometry
func (r *Resolver) Capture(ctx context.Context) (Capture, error) {
	win, err := r.WindowUnderPointer(ctx)
	if err != nil {
		return Capture{}, err
	}

	rect, err := r.display.WindowRect(win)
	if err != nil {
		return Capture{}, fmt.Errorf("failed to read window geometry: %w", err)
	}

	r.log.Info().
		Uint32("window", uint32(win)).
		Str("rect", rect.String()).
		Msg("captured window")

	return Capture{Window: win, Rect: rect}, nil
}

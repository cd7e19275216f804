package mouse

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/mousetrap/internal/display"
	"github.com/yourusername/mousetrap/internal/types"
	"github.com/yourusername/mousetrap/internal/window"
)

// Confiner keeps the pointer inside a fixed rectangle by polling its
// position and warping it back whenever it crosses an edge.
type Confiner struct {
	Display  display.Server
	Bounds   types.Bounds  // Captured window edges
	Offsets  types.Offsets // Inward margins applied to Bounds
	Interval time.Duration // Delay between polls
	Logger   zerolog.Logger

	polls atomic.Uint64
	warps atomic.Uint64
}

// Stats reports loop activity
type Stats struct {
	Polls uint64 `json:"polls"`
	Warps uint64 `json:"warps"`
}

// Stats returns the number of polls and warps so far
func (c *Confiner) Stats() Stats {
	return Stats{Polls: c.polls.Load(), Warps: c.warps.Load()}
}

// Run polls until ctx is done. Cancellation is the only way out; it
// returns nil in that case.
func (c *Confiner) Run(ctx context.Context) error {
	if c.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Interval)
	}

	resolver := window.NewResolver(c.Display, c.Logger)
	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	area := c.Bounds.Inset(c.Offsets)
	c.Logger.Info().
		Int("min_x", area.MinX).Int("min_y", area.MinY).
		Int("max_x", area.MaxX).Int("max_y", area.MaxY).
		Dur("interval", c.Interval).
		Msg("confinement started")

	for {
		c.poll(ctx, resolver)

		select {
		case <-ctx.Done():
			stats := c.Stats()
			c.Logger.Info().Uint64("polls", stats.Polls).Uint64("warps", stats.Warps).Msg("confinement stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// poll runs one iteration: locate the pointer and warp it if it escaped
func (c *Confiner) poll(ctx context.Context, resolver *window.Resolver) {
	// The pointer is queried in the context of the window currently under
	// it; clamping still uses the rectangle captured at startup.
	win, err := resolver.WindowUnderPointer(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.Logger.Debug().Err(err).Msg("pointer window query failed")
		}
		return
	}

	ptr, err := c.Display.PointerPosition(win)
	if err != nil {
		c.Logger.Debug().Err(err).Uint32("window", uint32(win)).Msg("pointer query failed")
		return
	}
	c.polls.Add(1)

	target, escaped := c.Bounds.Clamp(ptr.Root, c.Offsets)
	if !escaped {
		return
	}

	c.Display.WarpPointer(target)
	c.warps.Add(1)
	c.Logger.Debug().
		Int("x", ptr.Root.X).Int("y", ptr.Root.Y).
		Int("to_x", target.X).Int("to_y", target.Y).
		Uint16("mask", ptr.Mask).
		Msg("pointer warped")
}

package window

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yourusername/mousetrap/internal/display"
	"github.com/yourusername/mousetrap/internal/display/displaytest"
	"github.com/yourusername/mousetrap/internal/types"
)

func TestWindowUnderPointerRetries(t *testing.T) {
	fake := displaytest.New(0x2a00003, types.Rect{Width: 640, Height: 480})
	fake.MissWindow(25)

	r := NewResolver(fake, zerolog.Nop())
	win, err := r.WindowUnderPointer(context.Background())
	if err != nil {
		t.Fatalf("WindowUnderPointer() error: %v", err)
	}
	if win != 0x2a00003 {
		t.Errorf("window = 0x%x, want 0x2a00003", uint32(win))
	}
}

func TestWindowUnderPointerCancelled(t *testing.T) {
	fake := displaytest.New(1, types.Rect{})
	fake.MissWindow(1 << 30)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewResolver(fake, zerolog.Nop())
	win, err := r.WindowUnderPointer(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if win != display.None {
		t.Errorf("window = %d, want None", win)
	}
}

func TestWindowUnderPointerDisplayError(t *testing.T) {
	fake := displaytest.New(1, types.Rect{})
	fake.Close()

	r := NewResolver(fake, zerolog.Nop())
	if _, err := r.WindowUnderPointer(context.Background()); !errors.Is(err, displaytest.ErrClosed) {
		t.Errorf("error = %v, want ErrClosed", err)
	}
}

func TestCapture(t *testing.T) {
	rect := types.Rect{X: 100, Y: 50, Width: 800, Height: 600}
	fake := displaytest.New(7, rect)
	fake.MissWindow(3)

	r := NewResolver(fake, zerolog.Nop())
	c, err := r.Capture(context.Background())
	if err != nil {
		t.Fatalf("Capture() error: %v", err)
	}
	if c.Window != 7 {
		t.Errorf("Window = %d, want 7", c.Window)
	}
	if c.Rect != rect {
		t.Errorf("Rect = %+v, want %+v", c.Rect, rect)
	}

	want := types.Bounds{MinX: 100, MinY: 50, MaxX: 900, MaxY: 650}
	if got := c.Bounds(); got != want {
		t.Errorf("Bounds() = %+v, want %+v", got, want)
	}
}

func TestCaptureIsASnapshot(t *testing.T) {
	rect := types.Rect{X: 0, Y: 0, Width: 800, Height: 600}
	fake := displaytest.New(7, rect)

	c, err := NewResolver(fake, zerolog.Nop()).Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	fake.SetRect(types.Rect{X: 300, Y: 300, Width: 100, Height: 100})
	if c.Rect != rect {
		t.Errorf("captured rect changed to %+v after the window moved", c.Rect)
	}
}

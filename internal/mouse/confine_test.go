package mouse

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/mousetrap/internal/display/displaytest"
	"github.com/yourusername/mousetrap/internal/types"
)

var testRect = types.Rect{X: 0, Y: 0, Width: 800, Height: 600}

// runPolls runs a confiner until the fake display has served n polls
func runPolls(t *testing.T, fake *displaytest.Fake, offsets types.Offsets, n int) *Confiner {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake.OnPoll(func(count int) {
		if count >= n {
			cancel()
		}
	})

	c := &Confiner{
		Display:  fake,
		Bounds:   types.BoundsFromRect(testRect),
		Offsets:  offsets,
		Interval: time.Microsecond,
		Logger:   zerolog.Nop(),
	}

	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop after cancellation")
	}
	return c
}

func TestConfinerScenarios(t *testing.T) {
	tests := []struct {
		name  string
		start types.Point
		warps []types.Point
	}{
		{"past right edge", types.Point{X: 900, Y: 300}, []types.Point{{X: 788, Y: 300}}},
		{"above top edge", types.Point{X: 400, Y: -50}, []types.Point{{X: 400, Y: 34}}},
		{"on left/top boundary", types.Point{X: 12, Y: 34}, nil},
		{"inside", types.Point{X: 400, Y: 300}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := displaytest.New(1, testRect)
			fake.Script(tt.start)

			runPolls(t, fake, types.DefaultOffsets(), 5)

			got := fake.Warps()
			if len(got) != len(tt.warps) {
				t.Fatalf("warps = %v, want %v", got, tt.warps)
			}
			for i := range got {
				if got[i] != tt.warps[i] {
					t.Errorf("warp %d = %v, want %v", i, got[i], tt.warps[i])
				}
			}
		})
	}
}

func TestConfinerWarpsOncePerEscape(t *testing.T) {
	fake := displaytest.New(1, testRect)
	// Escape, stay put (warped), escape again on another edge
	fake.Script(
		types.Point{X: 1000, Y: 300},
		types.Point{X: 788, Y: 300},
		types.Point{X: 400, Y: 700},
	)

	c := runPolls(t, fake, types.DefaultOffsets(), 6)

	want := []types.Point{{X: 788, Y: 300}, {X: 400, Y: 588}}
	got := fake.Warps()
	if len(got) != len(want) {
		t.Fatalf("warps = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("warp %d = %v, want %v", i, got[i], want[i])
		}
	}

	stats := c.Stats()
	if stats.Warps != 2 {
		t.Errorf("Stats().Warps = %d, want 2", stats.Warps)
	}
	if stats.Polls < 6 {
		t.Errorf("Stats().Polls = %d, want at least 6", stats.Polls)
	}
}

func TestConfinerZeroOffsets(t *testing.T) {
	fake := displaytest.New(1, testRect)
	fake.Script(types.Point{X: 800, Y: 600}, types.Point{X: 801, Y: -1})

	runPolls(t, fake, types.Offsets{}, 3)

	got := fake.Warps()
	if len(got) != 1 || got[0] != (types.Point{X: 800, Y: 0}) {
		t.Errorf("warps = %v, want [{800 0}]", got)
	}
}

func TestConfinerKeepsCapturedBounds(t *testing.T) {
	fake := displaytest.New(1, testRect)
	fake.Script(types.Point{X: 400, Y: 300})
	// The window moves away after capture; the area does not follow
	fake.SetRect(types.Rect{X: 1000, Y: 1000, Width: 200, Height: 200})

	runPolls(t, fake, types.DefaultOffsets(), 3)

	if got := fake.Warps(); len(got) != 0 {
		t.Errorf("warps = %v, want none", got)
	}
}

func TestConfinerSurvivesWindowGaps(t *testing.T) {
	fake := displaytest.New(1, testRect)
	fake.MissWindow(50)
	fake.Script(types.Point{X: -5, Y: 300})

	runPolls(t, fake, types.DefaultOffsets(), 2)

	got := fake.Warps()
	if len(got) != 1 || got[0] != (types.Point{X: 12, Y: 300}) {
		t.Errorf("warps = %v, want [{12 300}]", got)
	}
}

func TestConfinerSkipsFailedQueries(t *testing.T) {
	fake := displaytest.New(1, testRect)
	fake.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := &Confiner{
		Display:  fake,
		Bounds:   types.BoundsFromRect(testRect),
		Interval: time.Millisecond,
		Logger:   zerolog.Nop(),
	}
	if err := c.Run(ctx); err != nil {
		t.Errorf("Run() = %v, want nil after cancellation", err)
	}
	if c.Stats().Polls != 0 {
		t.Errorf("Polls = %d, want 0 when every query fails", c.Stats().Polls)
	}
}

func TestConfinerRejectsZeroInterval(t *testing.T) {
	c := &Confiner{Display: displaytest.New(1, testRect), Logger: zerolog.Nop()}
	if err := c.Run(context.Background()); err == nil {
		t.Error("expected error for zero interval")
	}
}

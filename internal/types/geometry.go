package types

import "fmt"

// Point is a screen coordinate in root-window pixels
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Rect represents a window's position and size on screen
type Rect struct {
	X      int `json:"x"`      // Left edge (pixels from root left)
	Y      int `json:"y"`      // Top edge (pixels from root top)
	Width  int `json:"width"`  // Width in pixels
	Height int `json:"height"` // Height in pixels
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Offsets is the inward margin applied to each edge of a captured window.
// The top offset usually covers the window manager's title bar.
type Offsets struct {
	Top    int `yaml:"top" json:"top"`
	Bottom int `yaml:"bottom" json:"bottom"`
	Left   int `yaml:"left" json:"left"`
	Right  int `yaml:"right" json:"right"`
}

// DefaultOffsets returns the stock margins: 34 on top, 12 elsewhere
func DefaultOffsets() Offsets {
	return Offsets{Top: 34, Bottom: 12, Left: 12, Right: 12}
}

// Validate rejects negative margins
func (o Offsets) Validate() error {
	switch {
	case o.Top < 0:
		return fmt.Errorf("top offset cannot be negative: %d", o.Top)
	case o.Bottom < 0:
		return fmt.Errorf("bottom offset cannot be negative: %d", o.Bottom)
	case o.Left < 0:
		return fmt.Errorf("left offset cannot be negative: %d", o.Left)
	case o.Right < 0:
		return fmt.Errorf("right offset cannot be negative: %d", o.Right)
	}
	return nil
}

// Bounds is the edge form of a Rect: Min is the origin, Max is origin+size
type Bounds struct {
	MinX int `json:"minX"`
	MinY int `json:"minY"`
	MaxX int `json:"maxX"`
	MaxY int `json:"maxY"`
}

// BoundsFromRect converts a window rectangle to its edge coordinates
func BoundsFromRect(r Rect) Bounds {
	return Bounds{
		MinX: r.X,
		MinY: r.Y,
		MaxX: r.X + r.Width,
		MaxY: r.Y + r.Height,
	}
}

// Inset returns the confinement area left after applying offsets.
// No ordering is enforced: a window smaller than its offsets yields
// an inverted area, which Clamp resolves in favor of the left/top edge.
func (b Bounds) Inset(o Offsets) Bounds {
	return Bounds{
		MinX: b.MinX + o.Left,
		MinY: b.MinY + o.Top,
		MaxX: b.MaxX - o.Right,
		MaxY: b.MaxY - o.Bottom,
	}
}

// Contains reports whether p lies within the bounds, edges included
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX &&
		p.Y >= b.MinY && p.Y <= b.MaxY
}

// Clamp moves p onto the nearest edge of the inset area.
// The returned bool is true when any coordinate had to be corrected.
func (b Bounds) Clamp(p Point, o Offsets) (Point, bool) {
	area := b.Inset(o)
	corrected := false

	// Right and bottom first, so left and top win when the area is inverted
	if p.X > area.MaxX {
		p.X = area.MaxX
		corrected = true
	}
	if p.Y > area.MaxY {
		p.Y = area.MaxY
		corrected = true
	}
	if p.X < area.MinX {
		p.X = area.MinX
		corrected = true
	}
	if p.Y < area.MinY {
		p.Y = area.MinY
		corrected = true
	}

	return p, corrected
}

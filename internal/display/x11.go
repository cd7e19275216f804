package display

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/yourusername/mousetrap/internal/types"
)

// X11 talks to the X server named by $DISPLAY
type X11 struct {
	xu   *xgbutil.XUtil
	root xproto.Window
}

// OpenX11 connects to the X server named by $DISPLAY
func OpenX11() (*X11, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}
	return &X11{xu: xu, root: xu.RootWin()}, nil
}

// PointerWindow returns the child of the root window under the pointer
func (x *X11) PointerWindow() (WindowID, error) {
	reply, err := xproto.QueryPointer(x.xu.Conn(), x.root).Reply()
	if err != nil {
		return None, fmt.Errorf("query pointer: %w", err)
	}
	return WindowID(reply.Child), nil
}

// PointerPosition queries the pointer relative to win; Root holds absolute coordinates
func (x *X11) PointerPosition(win WindowID) (Pointer, error) {
	reply, err := xproto.QueryPointer(x.xu.Conn(), xproto.Window(win)).Reply()
	if err != nil {
		return Pointer{}, fmt.Errorf("query pointer on window 0x%x: %w", uint32(win), err)
	}
	return Pointer{
		Root:  types.Point{X: int(reply.RootX), Y: int(reply.RootY)},
		Child: WindowID(reply.Child),
		Mask:  reply.Mask,
	}, nil
}

// WindowRect reads the window geometry. For a top-level window the
// position is relative to the root window.
func (x *X11) WindowRect(win WindowID) (types.Rect, error) {
	geom, err := xwindow.New(x.xu, xproto.Window(win)).Geometry()
	if err != nil {
		return types.Rect{}, fmt.Errorf("get geometry of window 0x%x: %w", uint32(win), err)
	}
	return types.Rect{
		X:      geom.X(),
		Y:      geom.Y(),
		Width:  geom.Width(),
		Height: geom.Height(),
	}, nil
}

// WarpPointer moves the pointer to an absolute root position
func (x *X11) WarpPointer(p types.Point) {
	xproto.WarpPointer(x.xu.Conn(), xproto.WindowNone, x.root, 0, 0, 0, 0, int16(p.X), int16(p.Y))
}

// Close closes the X connection
func (x *X11) Close() {
	x.xu.Conn().Close()
}

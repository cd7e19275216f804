package state

import (
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/mousetrap/internal/types"
)

const (
	// SessionVersion is the current session file format version
	SessionVersion = 1
)

// Session describes the confinement held by the running instance.
// It is informational: the marker file lock is what makes an instance active.
type Session struct {
	Version      int           `json:"version"`
	ID           string        `json:"id"`
	PID          int           `json:"pid"`
	WindowID     uint32        `json:"windowId"`
	Window       types.Rect    `json:"window"`
	Offsets      types.Offsets `json:"offsets"`
	PollInterval time.Duration `json:"pollInterval"`
	StartedAt    time.Time     `json:"startedAt"`
}

// NewSession creates a session for the current process
func NewSession(windowID uint32, window types.Rect, offsets types.Offsets, interval time.Duration) *Session {
	return &Session{
		Version:      SessionVersion,
		ID:           uuid.New().String(),
		PID:          os.Getpid(),
		WindowID:     windowID,
		Window:       window,
		Offsets:      offsets,
		PollInterval: interval,
		StartedAt:    time.Now(),
	}
}

// Area returns the confinement area the session clamps to
func (s *Session) Area() types.Bounds {
	return types.BoundsFromRect(s.Window).Inset(s.Offsets)
}

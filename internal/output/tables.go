package output

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/yourusername/mousetrap/internal/state"
)

// PrintStatusTable prints the toggle status and, if known, the session details
func PrintStatusTable(w io.Writer, st state.Status) {
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")

	active := "no"
	if st.Active {
		active = "yes"
	}
	table.Append("Active", active)
	table.Append("Marker", st.MarkerPath)
	if st.PID > 0 {
		table.Append("PID", fmt.Sprintf("%d", st.PID))
	}

	if s := st.Session; s != nil {
		area := s.Area()
		table.Append("Session", s.ID)
		table.Append("Window", fmt.Sprintf("0x%x", s.WindowID))
		table.Append("Geometry", s.Window.String())
		table.Append("Offsets", formatOffsets(s))
		table.Append("Area", fmt.Sprintf("(%d,%d)-(%d,%d)", area.MinX, area.MinY, area.MaxX, area.MaxY))
		table.Append("Interval", s.PollInterval.String())
		table.Append("Running", formatSince(s.StartedAt))
	}

	table.Render()
}

// Helper functions

func formatOffsets(s *state.Session) string {
	o := s.Offsets
	return fmt.Sprintf("top %d, bottom %d, left %d, right %d", o.Top, o.Bottom, o.Left, o.Right)
}

func formatSince(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return time.Since(t).Round(time.Second).String()
}

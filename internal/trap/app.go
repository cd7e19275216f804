// Package trap ties the toggle, the display connection and the confinement
// loop together into a single invocation.
package trap

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/mousetrap/internal/config"
	"github.com/yourusername/mousetrap/internal/display"
	"github.com/yourusername/mousetrap/internal/mouse"
	"github.com/yourusername/mousetrap/internal/notify"
	"github.com/yourusername/mousetrap/internal/state"
	"github.com/yourusername/mousetrap/internal/toggle"
	"github.com/yourusername/mousetrap/internal/window"
)

// Outcome says what an invocation did
type Outcome int

const (
	// OutcomeConfined means this invocation confined the pointer until stopped
	OutcomeConfined Outcome = iota
	// OutcomeStopped means another instance was running and has been stopped
	OutcomeStopped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfined:
		return "confined"
	case OutcomeStopped:
		return "stopped"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// App is one invocation of the toggle
type App struct {
	Settings config.Settings
	Logger   zerolog.Logger

	// OpenDisplay connects to the display server
	OpenDisplay func() (display.Server, error)
	// Notifier announces ON and OFF
	Notifier notify.Notifier
	// Terminate asks the running instance to stop
	Terminate func(pid int) error
}

// New creates an App wired to the X server, the desktop notifier and real signals
func New(settings config.Settings, logger zerolog.Logger) *App {
	return &App{
		Settings: settings,
		Logger:   logger,
		OpenDisplay: func() (display.Server, error) {
			return display.OpenX11()
		},
		Notifier:  notify.New(settings.Notify, logger.With().Str("component", "notify").Logger()),
		Terminate: toggle.Terminate,
	}
}

// Run toggles: it stops the active instance if there is one, otherwise it
// confines the pointer to the window under it until ctx is done or the
// marker is removed.
func (a *App) Run(ctx context.Context) (Outcome, error) {
	marker := toggle.Open(a.Settings.MarkerPath, a.Logger)

	active, err := marker.Claim()
	if err != nil {
		return OutcomeConfined, err
	}
	if active {
		return OutcomeStopped, a.stopOther()
	}
	defer marker.Release()

	return OutcomeConfined, a.confine(ctx)
}

// stopOther signals the instance recorded in the marker and clears its files
func (a *App) stopOther() error {
	path := a.Settings.MarkerPath

	pid, err := toggle.ReadPID(path)
	switch {
	case errors.Is(err, toggle.ErrNoPID):
		a.Logger.Warn().Str("marker", path).Msg("marker holds no pid, not signalling")
	case err != nil:
		return err
	default:
		if err := a.Terminate(pid); err != nil {
			if errors.Is(err, toggle.ErrProcessGone) {
				a.Logger.Debug().Int("target", pid).Msg("instance already gone")
			} else {
				a.Logger.Warn().Err(err).Int("target", pid).Msg("failed to signal instance")
			}
		} else {
			a.Logger.Info().Int("target", pid).Msg("signalled running instance")
		}
	}

	var result *multierror.Error
	if err := toggle.Remove(path); err != nil {
		result = multierror.Append(result, err)
	}
	if a.Settings.SessionPath != "" {
		if err := state.RemoveSession(a.Settings.SessionPath); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		a.Logger.Warn().Err(err).Msg("cleanup incomplete")
	}

	a.Notifier.Notify(notify.MessageOff, a.Settings.NotifyTimeout)
	return nil
}

// confine runs the polling loop next to the marker watch
func (a *App) confine(ctx context.Context) error {
	a.Notifier.Notify(notify.MessageOn, a.Settings.NotifyTimeout)

	d, err := a.OpenDisplay()
	if err != nil {
		return err
	}
	defer d.Close()

	capture, err := window.NewResolver(d, a.Logger).Capture(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	session := a.saveSession(capture)
	defer a.dropSession(session)

	confiner := &mouse.Confiner{
		Display:  d,
		Bounds:   capture.Bounds(),
		Offsets:  a.Settings.Offsets,
		Interval: a.Settings.PollInterval,
		Logger:   a.Logger.With().Str("component", "confine").Logger(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return confiner.Run(gctx)
	})
	g.Go(func() error {
		err := toggle.WatchRemoval(gctx, a.Settings.MarkerPath, a.Logger)
		if err != nil && !errors.Is(err, toggle.ErrMarkerRemoved) && gctx.Err() == nil {
			a.Logger.Warn().Err(err).Msg("marker watch unavailable")
			return nil
		}
		return err
	})

	err = g.Wait()
	switch {
	case errors.Is(err, toggle.ErrMarkerRemoved):
		a.Logger.Info().Msg("marker removed, stopping")
		return nil
	case err != nil && ctx.Err() != nil:
		a.Logger.Info().Msg("stop requested")
		return nil
	}
	return err
}

func (a *App) saveSession(capture window.Capture) *state.Session {
	session := state.NewSession(uint32(capture.Window), capture.Rect, a.Settings.Offsets, a.Settings.PollInterval)
	if a.Settings.SessionPath == "" {
		return session
	}
	if err := session.SaveTo(a.Settings.SessionPath); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to save session")
	}
	return session
}

// dropSession removes the session file if it still describes this run
func (a *App) dropSession(session *state.Session) {
	if a.Settings.SessionPath == "" {
		return
	}
	current, err := state.LoadSessionFrom(a.Settings.SessionPath)
	if err != nil || current.ID != session.ID {
		return
	}
	if err := state.RemoveSession(a.Settings.SessionPath); err != nil {
		a.Logger.Warn().Err(err).Msg("failed to remove session")
	}
}

// Status reports whether an instance is active without claiming the marker
func (a *App) Status() (state.Status, error) {
	st := state.Status{MarkerPath: a.Settings.MarkerPath}

	active, err := toggle.Probe(a.Settings.MarkerPath)
	if err != nil {
		return st, err
	}
	st.Active = active
	if !active {
		return st, nil
	}

	pid, err := toggle.ReadPID(a.Settings.MarkerPath)
	if err != nil && !errors.Is(err, toggle.ErrNoPID) {
		return st, err
	}
	st.PID = pid

	if a.Settings.SessionPath == "" {
		return st, nil
	}
	session, err := state.LoadSessionFrom(a.Settings.SessionPath)
	switch {
	case errors.Is(err, state.ErrNoSession):
	case err != nil:
		a.Logger.Warn().Err(err).Msg("unreadable session file")
	case pid == 0 || session.PID == pid:
		st.Session = session
	}
	return st, nil
}

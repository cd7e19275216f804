// Package toggle implements the start/stop toggle: a marker file under an
// exclusive advisory lock that records the pid of the confining instance.
package toggle

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

var (
	// ErrNoPID is returned when the marker does not start with a process id
	ErrNoPID = errors.New("marker holds no process id")
	// ErrProcessGone is returned when the recorded process no longer exists
	ErrProcessGone = errors.New("process no longer running")
	// ErrMarkerBusy is returned when status probes keep the marker shared
	ErrMarkerBusy = errors.New("marker held by status probes")
)

const (
	claimRetries    = 50
	claimRetryDelay = 2 * time.Millisecond
)

// Marker is the pid file used as the single-instance lock
type Marker struct {
	path string
	file *os.File
	log  zerolog.Logger
}

// Open prepares a marker at path. Nothing is touched until Claim.
func Open(path string, logger zerolog.Logger) *Marker {
	return &Marker{
		path: path,
		log:  logger.With().Str("marker", path).Logger(),
	}
}

// Claim reports whether another instance is active.
// When it is not, this instance takes the lock, records its pid and holds
// both until Release or process exit. When it is, the file is left as is.
//
// Only an exclusive holder counts as an instance. Shared holders are status
// probes; Claim waits for them to let go, for at most claimRetries attempts.
func (m *Marker) Claim() (bool, error) {
	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_RDWR, 0666)
	if err != nil {
		return false, fmt.Errorf("failed to open marker: %w", err)
	}
	fd := int(f.Fd())

	for attempt := 1; ; attempt++ {
		err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EWOULDBLOCK) {
			f.Close()
			return false, fmt.Errorf("failed to lock marker: %w", err)
		}

		// Held by someone: a shared lock is only refused by an instance
		if err := unix.Flock(fd, unix.LOCK_SH|unix.LOCK_NB); err != nil {
			f.Close()
			if errors.Is(err, unix.EWOULDBLOCK) {
				m.log.Debug().Msg("marker locked by another instance")
				return true, nil
			}
			return false, fmt.Errorf("failed to lock marker: %w", err)
		}

		if attempt >= claimRetries {
			f.Close()
			return false, ErrMarkerBusy
		}
		m.log.Debug().Int("attempt", attempt).Msg("marker shared by a status probe, retrying")
		time.Sleep(claimRetryDelay)
	}

	if err := writePID(f, os.Getpid()); err != nil {
		f.Close()
		return false, err
	}

	m.file = f
	m.log.Debug().Msg("marker claimed")
	return false, nil
}

// Release drops the lock. The file itself is left for the next invocation.
func (m *Marker) Release() {
	if m.file == nil {
		return
	}
	unix.Flock(int(m.file.Fd()), unix.LOCK_UN)
	m.file.Close()
	m.file = nil
}

func writePID(f *os.File, pid int) error {
	if err := f.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate marker: %w", err)
	}
	if _, err := f.WriteAt([]byte(strconv.Itoa(pid)+"\n"), 0); err != nil {
		return fmt.Errorf("failed to write pid: %w", err)
	}
	return nil
}

// ReadPID reads the process id recorded in the marker at path.
// A marker that cannot be opened is an error; unparsable contents yield ErrNoPID.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read marker: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0, ErrNoPID
	}
	pid, err := strconv.Atoi(fields[0])
	if err != nil || pid <= 0 {
		return 0, ErrNoPID
	}
	return pid, nil
}

// Terminate asks the process to stop with SIGTERM
func Terminate(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("refusing to signal pid %d", pid)
	}
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		if errors.Is(err, unix.ESRCH) {
			return ErrProcessGone
		}
		return fmt.Errorf("failed to signal pid %d: %w", pid, err)
	}
	return nil
}

// Remove deletes the marker; a missing file is not an error
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove marker: %w", err)
	}
	return nil
}

// Probe reports whether an instance holds the marker lock without
// creating the file or claiming it.
func Probe(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open marker: %w", err)
	}
	defer f.Close()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_SH|unix.LOCK_NB); err != nil {
		if errors.Is(err, unix.EWOULDBLOCK) {
			return true, nil
		}
		return false, fmt.Errorf("failed to probe marker: %w", err)
	}
	unix.Flock(int(f.Fd()), unix.LOCK_UN)
	return false, nil
}

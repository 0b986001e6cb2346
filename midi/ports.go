package midi

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// ScanTimeout bounds port enumeration (CoreMIDI can hang)
const ScanTimeout = 3 * time.Second

var (
	// ErrScanTimeout is returned when the driver does not answer in time.
	// User needs to run: sudo killall coreaudiod midiserver
	ErrScanTimeout = errors.New("timed out listing MIDI ports")
	// ErrNoPort is returned when a port name or index matches nothing
	ErrNoPort = errors.New("no such MIDI port")
)

// Ports is a snapshot of the available ports
type Ports struct {
	Ins  []drivers.In
	Outs []drivers.Out
}

// InNames returns the input port names in index order
func (p Ports) InNames() []string {
	names := make([]string, len(p.Ins))
	for i, in := range p.Ins {
		names[i] = in.String()
	}
	return names
}

// OutNames returns the output port names in index order
func (p Ports) OutNames() []string {
	names := make([]string, len(p.Outs))
	for i, out := range p.Outs {
		names[i] = out.String()
	}
	return names
}

// Scan lists MIDI ports, giving up after ScanTimeout
func Scan() (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{Ins: gomidi.GetInPorts(), Outs: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(ScanTimeout):
		return Ports{}, ErrScanTimeout
	}
}

// Select picks a port by index ("2"), exact name, or case-insensitive
// name substring, in that order
func Select(names []string, sel string) (int, error) {
	sel = strings.TrimSpace(sel)
	if sel == "" {
		return -1, errors.Wrap(ErrNoPort, "empty selection")
	}
	if idx, err := strconv.Atoi(sel); err == nil {
		if idx < 0 || idx >= len(names) {
			return -1, errors.Wrapf(ErrNoPort, "index %d out of range (0-%d)", idx, len(names)-1)
		}
		return idx, nil
	}

	// exact match wins over substring
	for i, name := range names {
		if name == sel {
			return i, nil
		}
	}
	lower := strings.ToLower(sel)
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), lower) {
			return i, nil
		}
	}
	return -1, errors.Wrapf(ErrNoPort, "%q", sel)
}

// CloseDriver releases the MIDI driver
func CloseDriver() {
	gomidi.CloseDriver()
}

package midi

import (
	"github.com/pkg/errors"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Ignore selects system messages the input drops before they reach the
// handler. Clock, start/stop and the like are always delivered.
type Ignore struct {
	SysEx       bool `json:"sysex"`
	ActiveSense bool `json:"activeSense"`
	TimeCode    bool `json:"timeCode"`
}

// IgnoreAll drops every maskable system message
var IgnoreAll = Ignore{SysEx: true, ActiveSense: true, TimeCode: true}

// pick keeps the options whose flag is set
func pick[O any](keep []bool, opts ...O) []O {
	var out []O
	for i, o := range opts {
		if keep[i] {
			out = append(out, o)
		}
	}
	return out
}

// Handler receives one raw message per event. The driver calls it from a
// single goroutine, one message at a time.
type Handler func(raw []byte)

// Input is an open listening connection on an input port
type Input struct {
	port drivers.In
	stop func()
}

// Listen opens in and delivers each message to h. Driver errors during
// listening are passed to onErr (may be nil).
func Listen(in drivers.In, ig Ignore, h Handler, onErr func(error)) (*Input, error) {
	if in == nil {
		return nil, errors.Wrap(ErrNoPort, "listen")
	}

	opts := pick(
		[]bool{!ig.SysEx, !ig.ActiveSense, !ig.TimeCode, onErr != nil},
		gomidi.UseSysEx(), gomidi.UseActiveSense(), gomidi.UseTimeCode(), gomidi.HandleError(onErr),
	)

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		h([]byte(msg))
	}, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %q", in.String())
	}
	return &Input{port: in, stop: stop}, nil
}

func (i *Input) Name() string {
	return i.port.String()
}

// Close stops delivery and closes the port
func (i *Input) Close() error {
	if i.stop != nil {
		i.stop()
		i.stop = nil
	}
	return i.port.Close()
}

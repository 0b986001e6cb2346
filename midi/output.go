package midi

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// OutPort is the part of drivers.Out the forwarder needs
type OutPort interface {
	Open() error
	Close() error
	Send(data []byte) error
	String() string
}

// Output forwards raw messages unmodified to an output port
type Output struct {
	port OutPort
	sent uint64
}

// OpenOutput opens port for forwarding
func OpenOutput(port OutPort) (*Output, error) {
	if port == nil {
		return nil, errors.Wrap(ErrNoPort, "open output")
	}
	if err := port.Open(); err != nil {
		return nil, errors.Wrapf(err, "open output %q", port.String())
	}
	return &Output{port: port}, nil
}

// Send writes raw as-is
func (o *Output) Send(raw []byte) error {
	if err := o.port.Send(raw); err != nil {
		return errors.Wrapf(err, "forward to %q", o.port.String())
	}
	atomic.AddUint64(&o.sent, 1)
	return nil
}

// Sent is the number of successfully forwarded messages
func (o *Output) Sent() uint64 {
	return atomic.LoadUint64(&o.sent)
}

func (o *Output) Name() string {
	return o.port.String()
}

func (o *Output) Close() error {
	return o.port.Close()
}

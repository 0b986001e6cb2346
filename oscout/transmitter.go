package oscout

import (
	"net"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Transmitter owns one bound UDP socket and a fixed destination.
// Sends are fire-and-forget: no retries, no queue.
type Transmitter struct {
	conn *net.UDPConn
	dest *net.UDPAddr

	sent   uint64
	failed uint64
}

// Listen binds bind (host:port, port 0 for ephemeral) and targets dest
func Listen(bind, dest string) (*Transmitter, error) {
	laddr, err := net.ResolveUDPAddr("udp", bind)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve bind address %q", bind)
	}
	raddr, err := net.ResolveUDPAddr("udp", dest)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve destination %q", dest)
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, errors.Wrapf(err, "bind %s", bind)
	}
	return &Transmitter{conn: conn, dest: raddr}, nil
}

// Send writes frame as one datagram
func (t *Transmitter) Send(frame []byte) error {
	if _, err := t.conn.WriteToUDP(frame, t.dest); err != nil {
		atomic.AddUint64(&t.failed, 1)
		return errors.Wrapf(err, "send to %s", t.dest)
	}
	atomic.AddUint64(&t.sent, 1)
	return nil
}

func (t *Transmitter) LocalAddr() *net.UDPAddr {
	return t.conn.LocalAddr().(*net.UDPAddr)
}

func (t *Transmitter) Dest() *net.UDPAddr {
	return t.dest
}

// Counts returns sent and failed datagram totals
func (t *Transmitter) Counts() (sent, failed uint64) {
	return atomic.LoadUint64(&t.sent), atomic.LoadUint64(&t.failed)
}

func (t *Transmitter) Close() error {
	return t.conn.Close()
}

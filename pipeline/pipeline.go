// Package pipeline is the per-event driver: it forwards raw MIDI, folds the
// event into the held pitch classes and emits the new state over OSC.
package pipeline

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"pitchcast/debug"
	"pitchcast/midi"
	"pitchcast/pitch"
)

// Sink receives raw messages for forwarding (a MIDI output port)
type Sink interface {
	Send(raw []byte) error
}

// Encoder serializes a held set into a frame
type Encoder interface {
	Encode(held []pitch.Class) ([]byte, error)
}

// Transmitter puts a frame on the wire
type Transmitter interface {
	Send(frame []byte) error
}

// UpdateFunc observes the held set after every event
type UpdateFunc func(ev midi.Event, held []pitch.Class)

// Options configures a Pipeline. Forward and OnUpdate may be nil.
type Options struct {
	Forward     Sink
	Encoder     Encoder
	Transmitter Transmitter
	Policy      midi.Policy
	Logger      logrus.FieldLogger
	OnUpdate    UpdateFunc
}

// Report describes what happened to one event. Errors are informational:
// Handle has already logged them and carried on.
type Report struct {
	Event      midi.Event
	Held       []pitch.Class
	Frame      []byte
	ForwardErr error
	EncodeErr  error
	SendErr    error
}

// Sent reports whether the frame reached the transmitter without error
func (r Report) Sent() bool {
	return r.EncodeErr == nil && r.SendErr == nil
}

// Stats are cumulative counters
type Stats struct {
	Events        uint64
	NoteOns       uint64
	NoteOffs      uint64
	Unmatched     uint64 // note-offs with nothing to release
	Frames        uint64
	ForwardErrors uint64
	EncodeErrors  uint64
	SendErrors    uint64
}

// Pipeline owns the held set. Handle must not be called concurrently; MIDI
// drivers deliver messages one at a time from a single goroutine.
type Pipeline struct {
	held  *pitch.Set
	opts  Options
	log   logrus.FieldLogger
	stats Stats
}

// New builds a pipeline with an empty held set
func New(opts Options) (*Pipeline, error) {
	if opts.Encoder == nil {
		return nil, errors.New("pipeline: encoder required")
	}
	if opts.Transmitter == nil {
		return nil, errors.New("pipeline: transmitter required")
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{
		held: pitch.NewSet(),
		opts: opts,
		log:  log.WithField("category", "pipeline"),
	}, nil
}

// Handle processes one raw message: forward, classify, update, encode, send.
// A failed step is logged and never stops the following ones, except that a
// frame which fails to encode is not sent.
func (p *Pipeline) Handle(raw []byte) Report {
	p.stats.Events++
	var r Report

	if p.opts.Forward != nil {
		if err := p.opts.Forward.Send(raw); err != nil {
			r.ForwardErr = err
			p.stats.ForwardErrors++
			p.log.WithError(err).Warn("forwarding failed")
		}
	}

	r.Event = midi.Classify(raw, p.opts.Policy)
	switch r.Event.Kind {
	case midi.KindNoteOn:
		p.stats.NoteOns++
		p.held.Add(r.Event.Class)
	case midi.KindNoteOff:
		p.stats.NoteOffs++
		if !p.held.RemoveFirst(r.Event.Class) {
			p.stats.Unmatched++
			p.log.Debugf("note off for unheld pitch class %s", r.Event.Class)
		}
	}

	r.Held = p.held.Snapshot()
	debug.LogEvery(64, "event", "%s held=[%s]", r.Event, pitch.Names(r.Held))

	frame, err := p.opts.Encoder.Encode(r.Held)
	if err != nil {
		r.EncodeErr = err
		p.stats.EncodeErrors++
		p.log.WithError(err).Error("encoding failed, frame dropped")
	} else {
		r.Frame = frame
		if err := p.opts.Transmitter.Send(frame); err != nil {
			r.SendErr = err
			p.stats.SendErrors++
			p.log.WithError(err).Warn("send failed, frame dropped")
		} else {
			p.stats.Frames++
		}
	}

	if p.opts.OnUpdate != nil {
		p.opts.OnUpdate(r.Event, r.Held)
	}
	return r
}

// Held returns a copy of the current held pitch classes
func (p *Pipeline) Held() []pitch.Class {
	return p.held.Snapshot()
}

// Stats returns the counters. Call from the handling goroutine or after
// the input has stopped.
func (p *Pipeline) Stats() Stats {
	return p.stats
}

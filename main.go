package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"pitchcast/config"
	"pitchcast/debug"
	"pitchcast/midi"
	"pitchcast/oscout"
	"pitchcast/pipeline"
	"pitchcast/theme"
	"pitchcast/tui"
)

// errNoInputs ends the program cleanly: there is nothing to listen to
var errNoInputs = errors.New("no MIDI input ports available")

func main() {
	fmt.Println("pitchcast: MIDI pitch classes to OSC")

	var flags config.Flags
	flags.Register(flag.CommandLine)
	flag.Parse()

	err := run(&flags)
	switch {
	case err == nil, errors.Cause(err) == errNoInputs, errors.Cause(err) == tui.ErrCancelled:
		if err != nil {
			fmt.Println(err)
		}
	default:
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(flags *config.Flags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.Path != "" {
		cfg, err = config.LoadFile(flags.Path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	flags.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config")
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) error {
	level, _ := cfg.Level()
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})

	if cfg.DebugLog != "" {
		if err := debug.Enable(cfg.DebugLog); err != nil {
			return errors.Wrap(err, "debug log")
		}
		log.AddHook(debug.Hook{})
	}
	return nil
}

func run(flags *config.Flags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	defer debug.Disable()

	th, err := theme.Load(cfg.Palette)
	if err != nil {
		return err
	}
	policy, _ := cfg.Policy()

	ports, err := midi.Scan()
	if err != nil {
		return err
	}
	defer midi.CloseDriver()

	if len(ports.Ins) == 0 {
		return errNoInputs
	}

	inIdx, err := choose("Select input port", ports.InNames(), flags.In, cfg.Ports.Input, th)
	if err != nil {
		return errors.Wrap(err, "input port")
	}
	inPort := ports.Ins[inIdx]
	cfg.Ports.Input = inPort.String()

	forward := false
	if cfg.Ports.Forward != nil {
		forward = *cfg.Ports.Forward
	} else if len(ports.Outs) > 0 {
		if forward, err = tui.Ask("Forward MIDI to an output port?", true, th); err != nil {
			return err
		}
	}

	var out *midi.Output
	if forward {
		outIdx, err := choose("Select output port", ports.OutNames(), flags.Out, cfg.Ports.Output, th)
		if err != nil {
			return errors.Wrap(err, "output port")
		}
		if out, err = midi.OpenOutput(ports.Outs[outIdx]); err != nil {
			return err
		}
		defer out.Close()
		cfg.Ports.Output = out.Name()
	}
	cfg.Ports.Forward = &forward

	enc, err := oscout.NewEncoder(cfg.Network.OSCAddress)
	if err != nil {
		return err
	}
	tx, err := oscout.Listen(cfg.Network.BindAddr, cfg.Network.DestAddr)
	if err != nil {
		return err
	}
	defer tx.Close()

	opts := pipeline.Options{
		Encoder:     enc,
		Transmitter: tx,
		Policy:      policy,
		Logger:      log.StandardLogger(),
		OnUpdate:    tui.NewMonitor(os.Stdout, th).Update,
	}
	// a nil *midi.Output must not become a non-nil Sink
	if out != nil {
		opts.Forward = out
	}
	p, err := pipeline.New(opts)
	if err != nil {
		return err
	}

	in, err := midi.Listen(inPort, cfg.Ignore, func(raw []byte) { p.Handle(raw) }, func(err error) {
		log.WithError(err).Warn("midi input error")
	})
	if err != nil {
		return err
	}

	banner(th, cfg, in.Name(), out, enc.Address(), policy)

	if flags.Save {
		if err := save(flags, cfg); err != nil {
			log.WithError(err).Warn("could not save config")
		}
	}

	waitForQuit()

	fmt.Println("Closing connections")
	if err := in.Close(); err != nil {
		log.WithError(err).Debug("close input")
	}
	st := p.Stats()
	sent, failed := tx.Counts()
	log.WithFields(log.Fields{
		"events":  st.Events,
		"frames":  sent,
		"dropped": failed + st.EncodeErrors,
		"fwdErrs": st.ForwardErrors,
	}).Info("done")
	return nil
}

// pickPort is the interactive fallback; tests replace it
var pickPort = tui.Pick

// choose resolves a port from the command line, then the remembered name,
// then the picker. A command-line selection that matches nothing is an error.
func choose(title string, names []string, flagSel, remembered string, th *theme.Theme) (int, error) {
	if flagSel != "" {
		return midi.Select(names, flagSel)
	}
	if remembered != "" {
		idx, err := midi.Select(names, remembered)
		if err == nil {
			return idx, nil
		}
		log.WithError(err).Warnf("%q not found, choose another", remembered)
	}
	return pickPort(title, names, th)
}

func save(flags *config.Flags, cfg *config.Config) error {
	if flags.Path != "" {
		return cfg.SaveFile(flags.Path)
	}
	return cfg.Save()
}

func banner(th *theme.Theme, cfg *config.Config, inName string, out *midi.Output, address string, policy midi.Policy) {
	rule := lipgloss.NewStyle().Foreground(th.Muted()).Render("------------------------------------------------")
	label := lipgloss.NewStyle().Foreground(th.Accent()).Bold(true)

	fmt.Println()
	fmt.Println(rule)
	fmt.Printf("  %s %q\n", label.Render("Reading MIDI in on port"), inName)
	if out != nil {
		fmt.Printf("  %s %q\n", label.Render("Sending MIDI out on port"), out.Name())
	} else {
		fmt.Printf("  %s\n", label.Render("MIDI forwarding off"))
	}
	fmt.Printf("  %s %s -> %s %s\n", label.Render("OSC"), cfg.Network.BindAddr, cfg.Network.DestAddr, address)
	fmt.Printf("  %s %s\n", label.Render("Note-off policy"), policy)
	fmt.Println(rule)
	fmt.Println("Connections open (press enter to exit) ...")
}

// waitForQuit blocks until a line arrives on stdin or the process is interrupted
func waitForQuit() {
	done := make(chan struct{}, 2)
	go func() {
		readLine(os.Stdin)
		done <- struct{}{}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)

	select {
	case <-done:
	case <-sig:
	}
}

// readLine waits for one line on r. A closed or failing reader also returns.
func readLine(r io.Reader) {
	if _, err := bufio.NewReader(r).ReadString('\n'); err != nil {
		log.WithError(err).Debug("stdin closed, shutting down")
	}
}

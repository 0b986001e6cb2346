package config

import "flag"

// Flags are command-line overrides. Empty strings leave the file value.
type Flags struct {
	Path    string
	Bind    string
	Dest    string
	Address string
	In      string
	Out     string
	Forward string // "yes", "no" or "" (ask)
	Policy  string
	Palette string
	Debug   string
	Verbose bool
	Save    bool
}

// Register binds the flags to fs
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Path, "config", "", "config file (default ~/.config/pitchcast/config.json)")
	fs.StringVar(&f.Bind, "bind", "", "local UDP address to send from")
	fs.StringVar(&f.Dest, "dest", "", "UDP address to send OSC frames to")
	fs.StringVar(&f.Address, "address", "", "OSC address pattern")
	fs.StringVar(&f.In, "in", "", "MIDI input port (index or name)")
	fs.StringVar(&f.Out, "out", "", "MIDI output port for forwarding (index or name)")
	fs.StringVar(&f.Forward, "forward", "", "forward MIDI to an output port: yes or no")
	fs.StringVar(&f.Policy, "policy", "", "note-off detection: status or velocity")
	fs.StringVar(&f.Palette, "palette", "", "GPL palette for terminal colours")
	fs.StringVar(&f.Debug, "debug", "", "write a debug log to this file")
	fs.BoolVar(&f.Verbose, "v", false, "verbose logging")
	fs.BoolVar(&f.Save, "save", false, "remember chosen ports in the config file")
}

// Apply copies set flags over cfg. In and Out are left to the caller:
// a port named on the command line must exist, a remembered one may not.
func (f *Flags) Apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Network.BindAddr, f.Bind)
	set(&cfg.Network.DestAddr, f.Dest)
	set(&cfg.Network.OSCAddress, f.Address)
	set(&cfg.NoteOffPolicy, f.Policy)
	set(&cfg.Palette, f.Palette)
	set(&cfg.DebugLog, f.Debug)

	switch f.Forward {
	case "yes", "y", "true":
		yes := true
		cfg.Ports.Forward = &yes
	case "no", "n", "false":
		no := false
		cfg.Ports.Forward = &no
	}
	// naming an output implies forwarding unless told otherwise
	if f.Out != "" && cfg.Ports.Forward == nil {
		yes := true
		cfg.Ports.Forward = &yes
	}

	if f.Verbose {
		cfg.LogLevel = "debug"
	}
}

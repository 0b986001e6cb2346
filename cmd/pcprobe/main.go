package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"pitchcast/config"
	"pitchcast/midi"
	"pitchcast/oscout"
	"pitchcast/pitch"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		err = listPorts()
	case "listen":
		err = listen(arg(2, config.DefaultDestAddr), arg(3, oscout.DefaultAddress))
	case "send":
		err = send(os.Args[2:])
	default:
		usage()
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func arg(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func usage() {
	fmt.Println("pitchcast probe")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list                     - List all MIDI ports")
	fmt.Println("  listen [addr] [path]     - Print /pc frames arriving on addr (default " + config.DefaultDestAddr + ")")
	fmt.Println("  send <note>...           - Send one /pc frame for the given note numbers to " + config.DefaultDestAddr)
}

func listPorts() error {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ports, err := midi.Scan()
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return err
	}
	defer midi.CloseDriver()

	for i, name := range ports.InNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, name := range ports.OutNames() {
		fmt.Printf("  %d: %s\n", i, name)
	}
	return nil
}

func listen(addr, path string) error {
	enc, err := oscout.NewEncoder(path)
	if err != nil {
		return err
	}
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Listening for %s on %s (UDP). Ctrl+C to exit.\n", path, conn.LocalAddr())
	return serve(conn, enc, os.Stdout)
}

// serve prints each datagram on conn until a read fails; frames that
// don't decode are reported and skipped
func serve(conn net.PacketConn, enc *oscout.Encoder, w io.Writer) error {
	buf := make([]byte, 1024)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			return err
		}
		held, err := enc.Decode(buf[:n])
		if err != nil {
			fmt.Fprintf(w, "%s: bad frame: %v\n", from, err)
			continue
		}
		fmt.Fprintf(w, "%s (%d): [%s]\n", enc.Address(), len(held), pitch.Names(held))
	}
}

func send(notes []string) error {
	held := make([]pitch.Class, 0, len(notes))
	for _, n := range notes {
		v, err := strconv.ParseUint(n, 10, 8)
		if err != nil || v > 127 {
			return fmt.Errorf("bad note number %q", n)
		}
		held = append(held, pitch.FromNote(uint8(v)))
	}

	enc, err := oscout.NewEncoder(oscout.DefaultAddress)
	if err != nil {
		return err
	}
	frame, err := enc.Encode(held)
	if err != nil {
		return err
	}

	tx, err := oscout.Listen("127.0.0.1:0", config.DefaultDestAddr)
	if err != nil {
		return err
	}
	defer tx.Close()

	if err := tx.Send(frame); err != nil {
		return err
	}
	fmt.Printf("Sent [%s] from %s to %s\n", pitch.Names(held), tx.LocalAddr(), tx.Dest())
	return nil
}

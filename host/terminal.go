package host

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// TerminalHost implements Host against the real terminal and filesystem.
type TerminalHost struct {
	in  *bufio.Reader
	out io.Writer

	mem   [65536]byte
	ports [256]byte

	readFile   *os.File
	fileReader *bufio.Reader
	writeFile  *os.File

	rng *RNG

	rawState *term.State
	rawOK    bool
}

// NewTerminalHost returns a host reading from stdin and writing to stdout.
func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		in:  bufio.NewReader(os.Stdin),
		out: os.Stdout,
		rng: NewRNG(),
	}
}

// Getch returns one byte from the currently open read file, if any,
// otherwise from stdin; EOF yields the EOF sentinel.
func (h *TerminalHost) Getch() byte {
	r := h.in
	if h.fileReader != nil {
		r = h.fileReader
	}
	b, err := r.ReadByte()
	if err != nil {
		return EOF
	}
	return b
}

// Putch writes one byte to the currently open write file, if any, otherwise stdout.
func (h *TerminalHost) Putch(b byte) {
	if h.writeFile != nil {
		_, _ = h.writeFile.Write([]byte{b})
		return
	}
	_, _ = h.out.Write([]byte{b})
}

// PutNL writes the platform end-of-line sequence. While the terminal is in
// raw mode output post-processing is off, so the carriage return must be
// emitted explicitly.
func (h *TerminalHost) PutNL() {
	if h.writeFile == nil && h.rawOK {
		h.Putch('\r')
	}
	h.Putch('\n')
}

// OpenRead opens name for subsequent Getch calls.
func (h *TerminalHost) OpenRead(name string) error {
	f, err := os.Open(name) // #nosec G304 -- program-directed file access is the feature
	if err != nil {
		return fmt.Errorf("open %s for read: %w", name, err)
	}
	h.readFile = f
	h.fileReader = bufio.NewReader(f)
	return nil
}

// OpenWrite opens (creating/truncating) name for subsequent Putch calls.
func (h *TerminalHost) OpenWrite(name string) error {
	f, err := os.Create(name) // #nosec G304 -- program-directed file access is the feature
	if err != nil {
		return fmt.Errorf("open %s for write: %w", name, err)
	}
	h.writeFile = f
	return nil
}

// CloseFile closes whichever file stream is currently open.
func (h *TerminalHost) CloseFile() error {
	var err error
	if h.readFile != nil {
		err = h.readFile.Close()
		h.readFile = nil
		h.fileReader = nil
	}
	if h.writeFile != nil {
		if cerr := h.writeFile.Close(); cerr != nil && err == nil {
			err = cerr
		}
		h.writeFile = nil
	}
	if err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	return nil
}

// Peek reads a byte from the host's 64 KiB memory, distinct from the arena.
func (h *TerminalHost) Peek(addr int16) byte { return h.mem[uint16(addr)] }

// Poke writes a byte to the host's 64 KiB memory.
func (h *TerminalHost) Poke(addr int16, v byte) { h.mem[uint16(addr)] = v }

// Inp is a port-I/O stub; no real port is accessed. A read returns the last
// value Outp wrote to that port, or 0 if none was written.
func (h *TerminalHost) Inp(port int16) byte { return h.ports[uint16(port)&0xFF] }

// Outp is a port-I/O stub that records the last-written value per port.
func (h *TerminalHost) Outp(port int16, v byte) { h.ports[uint16(port)&0xFF] = v }

// Rand returns the next Park-Miller value mod n.
func (h *TerminalHost) Rand(n int16) int16 { return h.rng.Next(n) }

// KeyHit polls for a pending keystroke without blocking. Requires raw
// mode; returns false if raw mode could not be enabled, so break
// detection degrades to best-effort.
func (h *TerminalHost) KeyHit() bool {
	if !h.rawOK {
		return false
	}
	if h.in.Buffered() > 0 {
		return true
	}
	return pollStdin()
}

// EnableRawMode attempts to put the terminal into raw mode, returning
// whether it succeeded.
func (h *TerminalHost) EnableRawMode() bool {
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		h.rawOK = false
		return false
	}
	h.rawState = state
	h.rawOK = true
	return true
}

// DisableRawMode restores the terminal's prior mode.
func (h *TerminalHost) DisableRawMode() {
	if h.rawState == nil {
		return
	}
	fd := int(os.Stdin.Fd())
	_ = term.Restore(fd, h.rawState)
	h.rawState = nil
	h.rawOK = false
}

// Sleep blocks for at least ms milliseconds.
func (h *TerminalHost) Sleep(ms int16) {
	if ms <= 0 {
		return
	}
	time.Sleep(time.Duration(ms) * time.Millisecond)
}

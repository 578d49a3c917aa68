package host

import (
	"fmt"
	"strings"
)

// ScriptedHost is an in-memory Host used by tests to script keystrokes and
// capture output deterministically, without a real terminal.
type ScriptedHost struct {
	input  []byte
	pos    int
	Output strings.Builder

	mem   [65536]byte
	ports [256]byte
	rng   *RNG

	files map[string]*strings.Builder
	reads map[string][]byte

	readBuf  []byte
	readPos  int
	writeBuf *strings.Builder

	Sleeps []int16
}

// NewScriptedHost returns a host that yields the bytes of input to Getch
// and records everything written via Putch in Output.
func NewScriptedHost(input string) *ScriptedHost {
	return &ScriptedHost{
		input: []byte(input),
		rng:   NewRNG(),
		files: make(map[string]*strings.Builder),
		reads: make(map[string][]byte),
	}
}

// SeedFile preloads a virtual file so a subsequent OpenRead/Getch sequence
// can consume it without touching the real filesystem.
func (h *ScriptedHost) SeedFile(name, contents string) {
	h.reads[name] = []byte(contents)
}

// WrittenFile returns the contents written to name via OpenWrite/Putch.
func (h *ScriptedHost) WrittenFile(name string) string {
	if b, ok := h.files[name]; ok {
		return b.String()
	}
	return ""
}

func (h *ScriptedHost) Getch() byte {
	if h.readBuf != nil {
		if h.readPos >= len(h.readBuf) {
			return EOF
		}
		b := h.readBuf[h.readPos]
		h.readPos++
		return b
	}
	if h.pos >= len(h.input) {
		return EOF
	}
	b := h.input[h.pos]
	h.pos++
	return b
}

func (h *ScriptedHost) Putch(b byte) {
	if h.writeBuf != nil {
		h.writeBuf.WriteByte(b)
		return
	}
	h.Output.WriteByte(b)
}

func (h *ScriptedHost) PutNL() { h.Putch('\n') }

// OpenRead resolves name against seeded files first, then anything written
// earlier via OpenWrite, so a scripted SAVE/LOAD round trip works.
func (h *ScriptedHost) OpenRead(name string) error {
	if b, ok := h.reads[name]; ok {
		h.readBuf = b
	} else if f, ok := h.files[name]; ok {
		h.readBuf = []byte(f.String())
	} else {
		return fmt.Errorf("open %s for read: no such file", name)
	}
	h.readPos = 0
	return nil
}

func (h *ScriptedHost) OpenWrite(name string) error {
	b := &strings.Builder{}
	h.files[name] = b
	h.writeBuf = b
	return nil
}

func (h *ScriptedHost) CloseFile() error {
	h.readBuf = nil
	h.writeBuf = nil
	return nil
}

func (h *ScriptedHost) Peek(addr int16) byte    { return h.mem[uint16(addr)] }
func (h *ScriptedHost) Poke(addr int16, v byte) { h.mem[uint16(addr)] = v }
func (h *ScriptedHost) Inp(port int16) byte     { return h.ports[uint16(port)&0xFF] }
func (h *ScriptedHost) Outp(port int16, v byte) { h.ports[uint16(port)&0xFF] = v }
func (h *ScriptedHost) Rand(n int16) int16      { return h.rng.Next(n) }
func (h *ScriptedHost) KeyHit() bool            { return false }
func (h *ScriptedHost) EnableRawMode() bool     { return false }
func (h *ScriptedHost) DisableRawMode()         {}
func (h *ScriptedHost) Sleep(ms int16)          { h.Sleeps = append(h.Sleeps, ms) }

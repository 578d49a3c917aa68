// Package host implements the external-collaborator surface the
// interpreter core consumes: character I/O, byte-stream file access, the
// peek/poke memory, port stubs, raw-mode terminal control, and the
// Park-Miller random number generator.
package host

// EOF is the sentinel Getch returns at end of file input.
const EOF = 0x1A

// Host is the interface the interpreter core is built against. TerminalHost
// implements it against a real terminal and filesystem; tests use
// ScriptedHost instead.
type Host interface {
	Getch() byte
	Putch(b byte)
	PutNL()
	OpenRead(name string) error
	OpenWrite(name string) error
	CloseFile() error

	Peek(addr int16) byte
	Poke(addr int16, v byte)

	Inp(port int16) byte
	Outp(port int16, v byte)

	Rand(n int16) int16

	KeyHit() bool
	EnableRawMode() bool
	DisableRawMode()

	Sleep(ms int16)
}

package interp

import "github.com/sbelectronics/tbasic/host"

// LineStatus reports how ReadLine's accumulation ended.
type LineStatus int

const (
	// LineOK means the line terminated normally on CR or LF.
	LineOK LineStatus = iota
	// LineCancelled means Ctrl-C was seen; the partial line is discarded.
	LineCancelled
	// LineEOF means the host's input was exhausted before any byte of the
	// line was read; a partial line ended by EOF is returned as LineOK.
	LineEOF
)

// ReadLine accumulates bytes until CR, LF, or EOF; backspace/DEL retracts
// one byte (echoing the screen-erase sequence when echo is on); Ctrl-C
// cancels. maxLen bounds the buffer: once it holds maxLen-2 bytes, further
// bytes ring the bell and are dropped.
func ReadLine(h host.Host, echo bool, maxLen int) (line []byte, status LineStatus) {
	var buf []byte
	for {
		b := h.Getch()
		switch {
		case b == host.EOF:
			if len(buf) == 0 {
				return nil, LineEOF
			}
			return buf, LineOK
		case b == '\r' || b == '\n':
			if echo {
				h.PutNL()
			}
			return buf, LineOK
		case b == 0x03: // Ctrl-C
			return nil, LineCancelled
		case b == 0x08 || b == 0x7F: // backspace / DEL
			if len(buf) > 0 {
				buf = buf[:len(buf)-1]
				if echo {
					h.Putch(0x08)
					h.Putch(' ')
					h.Putch(0x08)
				}
			}
		default:
			if len(buf) >= maxLen-2 {
				h.Putch(0x07) // bell; drop the byte
				continue
			}
			buf = append(buf, b)
			if echo {
				h.Putch(b)
			}
		}
	}
}

// defaultLineBufferSize bounds interactively entered lines.
const defaultLineBufferSize = 256

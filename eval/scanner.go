// Package eval implements the byte scanner, numeric parsing, and the
// recursive-descent expression evaluator.
package eval

// Scanner is a cursor over a single line's bytes.
type Scanner struct {
	Buf []byte
	Pos int
}

// NewScanner returns a scanner positioned at the start of buf.
func NewScanner(buf []byte) *Scanner {
	return &Scanner{Buf: buf}
}

// AtEnd reports whether the cursor has reached the end of the line: the
// newline byte or the end of the buffer.
func (s *Scanner) AtEnd() bool {
	return s.Pos >= len(s.Buf) || s.Buf[s.Pos] == '\n'
}

// Peek returns the byte at the cursor, or 0 past the end.
func (s *Scanner) Peek() byte {
	if s.Pos >= len(s.Buf) {
		return 0
	}
	return s.Buf[s.Pos]
}

// SkipBlanks advances the cursor past spaces and tabs.
func (s *Scanner) SkipBlanks() {
	for s.Pos < len(s.Buf) && (s.Buf[s.Pos] == ' ' || s.Buf[s.Pos] == '\t') {
		s.Pos++
	}
}

func upperByte(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

// The "no match" index MatchTable returns is not stored anywhere; it is
// always equal to the table's own entry count, computed at match time
// (StmtUnknown, FuncUnknown and RelUnknown name it for each table).

// MatchTable attempts to match the cursor's prefix against a keyword table
// built by BuildTable: the table is a concatenation of keyword
// bodies where the last byte of each keyword has its high bit set, and the
// table is terminated by a zero byte. Matching is prefix-greedy in table
// order. On match, the cursor advances past the matched keyword and past
// any following blanks, and the zero-based index of the matched entry is
// returned. On no match, the returned index equals the entry count.
func (s *Scanner) MatchTable(table []byte) int {
	start := s.Pos
	tp := 0
	idx := 0
	for table[tp] != 0 {
		ip := start
		tq := tp
		matched := true
		for {
			ch := table[tq] &^ 0x80
			isLast := table[tq]&0x80 != 0
			if matched {
				if ip >= len(s.Buf) || upperByte(s.Buf[ip]) != ch {
					matched = false
				} else {
					ip++
				}
			}
			tq++
			if isLast {
				break
			}
		}
		if matched {
			s.Pos = ip
			s.SkipBlanks()
			return idx
		}
		tp = tq
		idx++
	}
	return idx
}

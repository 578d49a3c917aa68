package eval

// ParseLineNumber consumes decimal digits into an unsigned accumulator.
// If the accumulator would exceed 65000 it clamps the result to
// 65535, the overflow sentinel, and stops consuming further digits.
// Returns 0 if no digit was present.
func (s *Scanner) ParseLineNumber() uint16 {
	var n uint32
	saw := false
	for s.Pos < len(s.Buf) && isDigit(s.Buf[s.Pos]) {
		saw = true
		n = n*10 + uint32(s.Buf[s.Pos]-'0')
		if n > 65000 {
			// Skip any remaining digits; the result is pinned at the sentinel.
			for s.Pos < len(s.Buf) && isDigit(s.Buf[s.Pos]) {
				s.Pos++
			}
			return 65535
		}
		s.Pos++
	}
	if !saw {
		return 0
	}
	return uint16(n)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'A' && b <= 'F') || (b >= 'a' && b <= 'f')
}

func hexValue(b byte) int16 {
	switch {
	case b >= '0' && b <= '9':
		return int16(b - '0')
	case b >= 'A' && b <= 'F':
		return int16(b-'A') + 10
	default:
		return int16(b-'a') + 10
	}
}

// ParseDecimalLiteral consumes one or more decimal digits as a 16-bit
// signed value with wraparound on overflow. ok is false if no digit was
// present.
func (s *Scanner) ParseDecimalLiteral() (value int16, ok bool) {
	if s.Pos >= len(s.Buf) || !isDigit(s.Buf[s.Pos]) {
		return 0, false
	}
	var v int16
	for s.Pos < len(s.Buf) && isDigit(s.Buf[s.Pos]) {
		v = v*10 + int16(s.Buf[s.Pos]-'0')
		s.Pos++
	}
	return v, true
}

// TryParseHexLiteral attempts to consume a hex literal: '&' then 'H' or
// 'h', then one or more hex digits. A lone '&' or an '&H' with no digit
// after it is not a literal and leaves the cursor untouched.
func (s *Scanner) TryParseHexLiteral() (value int16, ok bool) {
	if s.Pos+1 >= len(s.Buf) || s.Buf[s.Pos] != '&' {
		return 0, false
	}
	c := s.Buf[s.Pos+1]
	if c != 'H' && c != 'h' {
		return 0, false
	}
	p := s.Pos + 2
	if p >= len(s.Buf) || !isHexDigit(s.Buf[p]) {
		return 0, false
	}
	var v int16
	for p < len(s.Buf) && isHexDigit(s.Buf[p]) {
		v = v*16 + hexValue(s.Buf[p])
		p++
	}
	s.Pos = p
	return v, true
}

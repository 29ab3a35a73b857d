// Package esc decodes the small set of backslash escapes Nightfury allows
// inside strings loaded from the serialized FSM format: \n, \t, \r, \\, and
// \xH / \xHH.
//
// Grounded on original_source/nightfury/src/esc_seq.rs, adapted to the
// spec's pass-through-on-unknown-escape rule instead of the original's
// panic.
package esc

import "strings"

type state int

const (
	stateNothing state = iota
	stateBackslash
	stateHighHex
	stateLowHex
)

// Resolve decodes backslash escapes in s. Any \X for an X it does not
// recognize is passed through literally as the two characters \X. A
// trailing lone \ or \x is passed through literally. Resolve is idempotent
// on escape-free input.
func Resolve(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	st := stateNothing
	var pending []rune // literal run to flush verbatim if an escape turns out malformed
	var highNibble byte

	flushPending := func() {
		for _, r := range pending {
			b.WriteRune(r)
		}
		pending = pending[:0]
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch st {
		case stateNothing:
			if c == '\\' {
				pending = append(pending, c)
				st = stateBackslash
			} else {
				b.WriteRune(c)
			}
		case stateBackslash:
			switch c {
			case 'n':
				b.WriteRune('\n')
				pending = pending[:0]
				st = stateNothing
			case 't':
				b.WriteRune('\t')
				pending = pending[:0]
				st = stateNothing
			case 'r':
				b.WriteRune('\r')
				pending = pending[:0]
				st = stateNothing
			case '\\':
				b.WriteRune('\\')
				pending = pending[:0]
				st = stateNothing
			case 'x':
				pending = append(pending, c)
				st = stateHighHex
			default:
				// unrecognized escape: pass through literally
				pending = append(pending, c)
				flushPending()
				st = stateNothing
			}
		case stateHighHex:
			if d, ok := hexDigit(c); ok {
				highNibble = d << 4
				pending = append(pending, c)
				st = stateLowHex
			} else {
				// \x not followed by a hex digit: pass through \x literally
				flushPending()
				st = stateNothing
				i-- // reprocess c as an ordinary character
			}
		case stateLowHex:
			if d, ok := hexDigit(c); ok {
				b.WriteByte(highNibble | d)
				pending = pending[:0]
				st = stateNothing
			} else {
				// single hex digit form \xH: that one digit is the whole value
				b.WriteByte(highNibble >> 4)
				pending = pending[:0]
				st = stateNothing
				i-- // reprocess c as an ordinary character
			}
		}
	}
	// trailing incomplete sequence at end of input
	switch st {
	case stateBackslash, stateHighHex:
		flushPending()
	case stateLowHex:
		b.WriteByte(highNibble >> 4)
	}
	return b.String()
}

func hexDigit(c rune) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0'), true
	case c >= 'a' && c <= 'f':
		return byte(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return byte(c-'A') + 10, true
	default:
		return 0, false
	}
}

// Encode is the inverse of Resolve, sufficient for round-tripping values
// through the serialized FSM format: it escapes only the characters that
// would otherwise corrupt the line-oriented format (tab, newline,
// backslash itself).
func Encode(s string) string {
	if !strings.ContainsAny(s, "\t\n\\") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '\t':
			b.WriteString(`\t`)
		case '\n':
			b.WriteString(`\n`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

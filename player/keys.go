package player

import "io"

type key int

const (
	keyNone key = iota
	keyQuit
	keyPause
	keyFaster
	keySlower
	keyBack
	keyForward
	keyNextMarker
	keyPrevMarker
)

// readKeys decodes raw-mode input into player keys until r closes.
// Only the player's own bindings are decoded; everything else is
// dropped.
func readKeys(r io.Reader, out chan<- key) {
	defer close(out)

	buf := make([]byte, 1)
	var esc []byte
	for {
		if _, err := r.Read(buf); err != nil {
			return
		}
		b := buf[0]

		if len(esc) > 0 {
			esc = append(esc, b)
			if k, done := decodeEscape(esc); done {
				esc = nil
				if k != keyNone {
					out <- k
				}
			}
			continue
		}

		switch b {
		case 0x1b:
			esc = []byte{b}
		case 'q', 0x03: // q or ctrl-c
			out <- keyQuit
		case ' ':
			out <- keyPause
		case '+', '=':
			out <- keyFaster
		case '-':
			out <- keySlower
		case 'h':
			out <- keyBack
		case 'l':
			out <- keyForward
		case ']':
			out <- keyNextMarker
		case '[':
			out <- keyPrevMarker
		}
	}
}

// decodeEscape handles the CSI arrow keys. done is false while the
// sequence may still grow.
func decodeEscape(seq []byte) (key, bool) {
	if len(seq) == 2 {
		if seq[1] != '[' {
			return keyNone, true // lone ESC followed by something else
		}
		return keyNone, false
	}
	if len(seq) < 3 {
		return keyNone, false
	}

	switch seq[2] {
	case 'C':
		return keyForward, true
	case 'D':
		return keyBack, true
	}
	return keyNone, true
}

// Package files handles recording storage: filesystem-safe filename
// generation from templates and listing the recordings directory.
package files

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// FallbackName replaces names that sanitize to nothing.
	FallbackName = "recording"

	// most filesystems cap a single name at 255 bytes
	maxFilenameLength = 255

	minDirectoryMaxLength = 1

	DefaultTemplate           = "{directory}_{date}_{time}"
	DefaultDirectoryMaxLength = 50

	defaultDateLayout = "060102"
	defaultTimeLayout = "1504"
)

// windowsReserved device names can't be used as filenames even with
// an extension attached.
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

var ErrNameTooLong = errors.New("filename exceeds filesystem limit")

// stripMarks decomposes and drops combining marks, so "café" folds
// to "cafe" before the ASCII filter runs.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Sanitize turns an arbitrary string into a filesystem-safe name
// component: diacritics folded to ASCII, whitespace and hyphen runs
// collapsed to single hyphens, everything outside [A-Za-z0-9_.]
// dropped, edges trimmed of dots/spaces/hyphens, Windows reserved
// names prefixed with an underscore. An empty result becomes
// FallbackName.
func Sanitize(input string) string {
	folded, _, err := transform.String(stripMarks, input)
	if err != nil {
		folded = input
	}

	var sb strings.Builder
	lastHyphen := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		case r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'):
			sb.WriteRune(r)
			lastHyphen = false
		default:
			// invalid or non-ASCII, dropped
		}
	}

	name := strings.Trim(sb.String(), ".- ")
	name = guardReserved(name)
	if name == "" {
		return FallbackName
	}
	return name
}

// SanitizeDirectory is Sanitize plus truncation to maxLen runes, for
// the {directory} tag.
func SanitizeDirectory(input string, maxLen int) string {
	if maxLen < minDirectoryMaxLength {
		maxLen = minDirectoryMaxLength
	}
	name := Sanitize(input)
	if rs := []rune(name); len(rs) > maxLen {
		name = string(rs[:maxLen])
	}
	return name
}

func guardReserved(name string) string {
	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	if windowsReserved[strings.ToUpper(base)] {
		return "_" + name
	}
	return name
}

// segment is one parsed piece of a filename template.
type segment struct {
	literal string
	tag     string // "directory", "date" or "time"; empty for literals
	layout  string // Go time layout for date/time tags
}

// Template is a parsed filename template. Tags: {directory}, {date}
// and {time}; the latter two accept a Go time layout after a colon,
// e.g. {date:2006-01-02}.
type Template struct {
	segments []segment
}

func ParseTemplate(s string) (*Template, error) {
	if s == "" {
		return nil, errors.New("template is empty")
	}

	t := &Template{}
	lit := strings.Builder{}
	rest := s

	for len(rest) > 0 {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if strings.ContainsRune(rest, '}') {
				return nil, errors.New("unmatched '}' in template")
			}
			lit.WriteString(rest)
			break
		}
		if pre := rest[:open]; pre != "" {
			if strings.ContainsRune(pre, '}') {
				return nil, errors.New("unmatched '}' in template")
			}
			lit.WriteString(pre)
		}

		rest = rest[open+1:]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return nil, errors.New("unclosed '{' in template")
		}
		tag := rest[:end]
		rest = rest[end+1:]

		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}

		name, layout, _ := strings.Cut(tag, ":")
		switch name {
		case "directory":
			t.segments = append(t.segments, segment{tag: name})
		case "date":
			if layout == "" {
				layout = defaultDateLayout
			}
			t.segments = append(t.segments, segment{tag: name, layout: layout})
		case "time":
			if layout == "" {
				layout = defaultTimeLayout
			}
			t.segments = append(t.segments, segment{tag: name, layout: layout})
		default:
			return nil, fmt.Errorf("unknown template tag {%s}", tag)
		}
	}

	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{literal: lit.String()})
	}
	return t, nil
}

// Render fills the template in. directory must already be sanitized.
func (t *Template) Render(directory string, now time.Time) string {
	var sb strings.Builder
	for _, seg := range t.segments {
		switch seg.tag {
		case "":
			sb.WriteString(seg.literal)
		case "directory":
			sb.WriteString(directory)
		case "date", "time":
			sb.WriteString(now.Format(seg.layout))
		}
	}
	return sb.String()
}

// Generate produces the final recording filename: template rendered
// with the sanitized directory name and now, ".cast" appended if
// missing, total length validated.
func Generate(directory, template string, dirMaxLen int, now time.Time) (string, error) {
	t, err := ParseTemplate(template)
	if err != nil {
		return "", err
	}

	name := t.Render(SanitizeDirectory(directory, dirMaxLen), now)
	if !strings.HasSuffix(name, ".cast") {
		name += ".cast"
	}

	if len(name) > maxFilenameLength {
		return "", fmt.Errorf("%q is %d bytes: %w", name, len(name), ErrNameTooLong)
	}
	return name, nil
}

package wexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// wordFullRE anchors the tokenizer's word pattern at both ends, for the
// encoder's bareword test: a string only prints unquoted when the lexer
// would read it back as a single word token and nothing else.
var wordFullRE = regexp.MustCompile(`^[^<>*#@();\[\]\s]+$`)

// EncodeOptions configures Encode.
type EncodeOptions struct {
	Pretty      bool
	BinaryPaths map[string]bool
}

// Encoder walks a Value tree producing canonical wexpr text. Warnings
// accumulate per call and reset at the start of every Encode.
type Encoder struct {
	Warnings  []Warning
	LastError error
}

// Encode renders v as wexpr text. Paths are dotted, rooted at "-";
// binaryPaths forces specific string paths to render as base64 blobs
// regardless of their UTF-8 validity. The only fatal encode error is a
// map key that is not valid UTF-8; every other anomaly (an unencodable
// KindInvalid value) is recorded as a warning and the entry is elided.
func (e *Encoder) Encode(v Value, opts EncodeOptions) (string, error) {
	e.Warnings = nil
	e.LastError = nil

	var sb strings.Builder
	_, err := e.encodeValue(v, "-", 0, &sb, opts)
	if err != nil {
		e.LastError = err
		return "", err
	}
	return sb.String(), nil
}

// Encode is the one-shot convenience entry point; it discards warnings.
// Callers who need them should use an *Encoder directly.
func Encode(v Value, pretty bool, binaryPaths map[string]bool) (string, error) {
	return (&Encoder{}).Encode(v, EncodeOptions{Pretty: pretty, BinaryPaths: binaryPaths})
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// encodeValue dispatches on v.Kind, returning ok=false when the entry
// should be elided (an unencodable value) and a non-nil error only for
// the fatal non-UTF-8 map key case, raised by encodeMapValue at any depth
// and passed back up unchanged.
func (e *Encoder) encodeValue(v Value, path string, level int, sb *strings.Builder, opts EncodeOptions) (bool, error) {
	switch v.Kind {
	case KindNull:
		sb.WriteString("null")
		return true, nil
	case KindBool:
		if v.Bool {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
		return true, nil
	case KindNumber:
		sb.WriteString(formatNumber(v.Num))
		return true, nil
	case KindString:
		e.encodeStringScalar(v.Str, path, sb, opts)
		return true, nil
	case KindBinary:
		sb.WriteString("<")
		sb.WriteString(base64Encode(v.Bin))
		sb.WriteString(">")
		return true, nil
	case KindArray:
		return true, e.encodeArrayValue(v.Arr, path, level, sb, opts)
	case KindMap:
		return true, e.encodeMapValue(v.Map, path, level, sb, opts)
	default:
		e.Warnings = append(e.Warnings, Warning{Message: fmt.Sprintf("Cannot insert %s %s", v.Kind, path)})
		return false, nil
	}
}

// isBareword reports whether s would lex back as a single word token and
// isn't one of the four reserved barewords.
func isBareword(s string) bool {
	if !wordFullRE.MatchString(s) {
		return false
	}
	switch s {
	case "true", "false", "nil", "null":
		return false
	default:
		return true
	}
}

func (e *Encoder) encodeStringScalar(s, path string, sb *strings.Builder, opts EncodeOptions) {
	if opts.BinaryPaths[path] || !validUTF8([]byte(s)) {
		sb.WriteString("<")
		sb.WriteString(base64Encode([]byte(s)))
		sb.WriteString(">")
		return
	}
	if isBareword(s) {
		sb.WriteString(s)
		return
	}
	sb.WriteByte('"')
	sb.WriteString(escapeString(s))
	sb.WriteByte('"')
}

func (e *Encoder) encodeArrayValue(items []Value, path string, level int, sb *strings.Builder, opts EncodeOptions) error {
	rendered := make([]string, 0, len(items))
	for i, item := range items {
		childPath := path + "." + strconv.Itoa(i+1)
		var itemSB strings.Builder
		ok, err := e.encodeValue(item, childPath, level+1, &itemSB, opts)
		if err != nil {
			return err
		}
		if ok {
			rendered = append(rendered, itemSB.String())
		}
	}
	writeContainer(sb, "#(", ")", rendered, level, opts.Pretty)
	return nil
}

// isArrayShaped implements the arrayness test: a map's keys are exactly
// the integers 1..n with no gaps.
func isArrayShaped(m map[Key]Value) bool {
	n := len(m)
	if n == 0 {
		return false
	}
	for i := 1; i <= n; i++ {
		if _, ok := m[NumberKey(float64(i))]; !ok {
			return false
		}
	}
	return true
}

func (e *Encoder) encodeMapValue(m map[Key]Value, path string, level int, sb *strings.Builder, opts EncodeOptions) error {
	if isArrayShaped(m) {
		n := len(m)
		rendered := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			childPath := path + "." + strconv.Itoa(i)
			var itemSB strings.Builder
			ok, err := e.encodeValue(m[NumberKey(float64(i))], childPath, level+1, &itemSB, opts)
			if err != nil {
				return err
			}
			if ok {
				rendered = append(rendered, itemSB.String())
			}
		}
		writeContainer(sb, "#(", ")", rendered, level, opts.Pretty)
		return nil
	}

	rendered := make([]string, 0, len(m))
	for key, val := range m {
		var keyText, pathComponent string
		if key.Numeric {
			keyText = formatNumber(key.Num)
			pathComponent = keyText
		} else {
			if !validUTF8([]byte(key.Str)) {
				return fmt.Errorf("Cannot encode map key at %s: key is not valid UTF-8", path)
			}
			if isBareword(key.Str) {
				keyText = key.Str
			} else {
				keyText = `"` + escapeString(key.Str) + `"`
			}
			pathComponent = key.Str
		}
		childPath := path + "." + pathComponent
		var valSB strings.Builder
		ok, err := e.encodeValue(val, childPath, level+1, &valSB, opts)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		rendered = append(rendered, keyText+" "+valSB.String())
	}
	writeContainer(sb, "@(", ")", rendered, level, opts.Pretty)
	return nil
}

// writeContainer writes open, the joined items, then close, applying the
// pretty-printing indentation rules.
func writeContainer(sb *strings.Builder, open, close string, items []string, level int, pretty bool) {
	sb.WriteString(open)
	if len(items) == 0 {
		sb.WriteString(close)
		return
	}
	if !pretty {
		for i, it := range items {
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(it)
		}
		sb.WriteString(close)
		return
	}
	for _, it := range items {
		sb.WriteByte('\n')
		writeIndent(sb, level+1)
		sb.WriteString(it)
	}
	sb.WriteByte('\n')
	writeIndent(sb, level)
	sb.WriteString(close)
}

func writeIndent(sb *strings.Builder, level int) {
	for i := 0; i < level; i++ {
		sb.WriteByte('\t')
	}
}

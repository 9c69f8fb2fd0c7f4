package wexpr

// Decoder decodes wexpr source into a Value tree. Its zero value is ready
// to use. Warnings and the last error accumulate per call and are reset
// at the start of every Decode.
type Decoder struct {
	Warnings  []string
	LastError error
}

// Decode parses source into a Value tree. If prepopulated is non-nil
// and the document's top-level value is a map or array, decode merges
// into it using the container-reuse rule. On success err
// is nil and the returned *Value is non-nil; a KindNull value is itself a
// legitimate successful result when the document is literally "null" or
// "nil", so callers must check err, not the value's kind, to detect
// failure. On failure the returned *Value is nil.
func (d *Decoder) Decode(source []byte, prepopulated *Value) (*Value, error) {
	d.Warnings = nil
	d.LastError = nil

	value, warnings, err := parseDocument(tokenize(source), len(source), prepopulated)
	d.Warnings = renderWarnings(source, warnings)
	if err != nil {
		d.LastError = renderError(source, err)
		return nil, d.LastError
	}
	return &value, nil
}

// Decode is the one-shot convenience entry point; it discards warnings.
// Callers who need them should use a *Decoder directly.
func Decode(source []byte, prepopulated *Value) (*Value, error) {
	return (&Decoder{}).Decode(source, prepopulated)
}

func renderError(source []byte, err error) error {
	le, ok := err.(*lexError)
	if !ok {
		return err
	}
	lt := newLineTable(source)
	length := le.length
	if length <= 0 {
		length = 1
	}
	return &Diagnostic{Text: lt.diagnostic(le.offset, length, le.message)}
}

func renderWarnings(source []byte, warnings []Warning) []string {
	if len(warnings) == 0 {
		return nil
	}
	lt := newLineTable(source)
	out := make([]string, len(warnings))
	for i, w := range warnings {
		out[i] = lt.diagnostic(w.Offset, 1, w.Message)
	}
	return out
}

// Diagnostic is the error type returned by Decode: its Error() text is
// exactly the "LINE:COL:MESSAGE\nSOURCELINE\nINDICATOR" form. Encode's
// fatal error is a plain error value, not a Diagnostic.
type Diagnostic struct {
	Text string
}

func (d *Diagnostic) Error() string { return d.Text }

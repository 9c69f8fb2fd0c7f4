package wexpr

import (
	"fmt"
	"iter"
	"strconv"
)

// ReferenceEntry records where a reference name was defined and the value
// it resolved to.
type ReferenceEntry struct {
	DefiningToken Token
	Value         Value
}

// parser performs a single recursive-descent pass over a syntactic token
// stream, producing a Value tree and maintaining the reference table.
// Tokens come from a pulled iter.Seq2, buffered one token ahead so peek
// and advance can share the same lookahead slot.
type parser struct {
	next       func() (Token, error, bool)
	tok        *Token
	err        error
	eof        bool
	sourceSize int

	refs     map[string]ReferenceEntry
	warnings []Warning
}

// Warning is a non-fatal diagnostic recorded during decode or encode: a
// byte offset plus a message, rendered through the source's lineTable by
// the codec facade.
type Warning struct {
	Offset  int
	Message string
}

func (p *parser) eofError() error {
	return &lexError{offset: p.sourceSize, length: 1, message: "Syntax Error: File ended unexpectedly"}
}

func (p *parser) peek() (Token, error) {
	if p.err != nil {
		return Token{}, p.err
	}
	if p.tok != nil {
		return *p.tok, nil
	}
	tok, err, ok := p.next()
	for ok && err == nil && tok.Kind.nonSyntactic() {
		tok, err, ok = p.next()
	}
	if !ok {
		p.eof = true
		p.err = p.eofError()
		return Token{}, p.err
	}
	if err != nil {
		p.err = err
		return Token{}, err
	}
	p.tok = &tok
	return tok, nil
}

func (p *parser) advance() (Token, error) {
	tok, err := p.peek()
	if err != nil {
		return Token{}, err
	}
	p.tok = nil
	return tok, nil
}

func syntaxErrorAt(offset int, format string, args ...any) error {
	return &lexError{offset: offset, length: 1, message: fmt.Sprintf(format, args...)}
}

// parseValueWithMerge reads the value produced by tok (already consumed),
// honoring the container-reuse rule against existing when tok opens a
// container of the matching kind.
func (p *parser) parseValueWithMerge(tok Token, existing *Value) (Value, error) {
	switch tok.Kind {
	case TokenMapOpen:
		var prepop *Value
		if existing != nil && existing.Kind == KindMap {
			prepop = existing
		}
		return p.parseMap(prepop)
	case TokenArrayOpen:
		var prepop *Value
		if existing != nil && existing.Kind == KindArray {
			prepop = existing
		}
		return p.parseArray(prepop)
	default:
		return p.parseScalar(tok)
	}
}

// parseScalar handles every value-producing token kind that isn't a
// container: string, number, word, binary, reference, and reference
// definitions.
func (p *parser) parseScalar(tok Token) (Value, error) {
	switch tok.Kind {
	case TokenString:
		unescaped := unescapeString(string(tok.Lexeme[1 : len(tok.Lexeme)-1]))
		return String(unescaped), nil
	case TokenNumber:
		n, err := strconv.ParseFloat(string(tok.Lexeme), 64)
		if err != nil {
			return Value{}, syntaxErrorAt(tok.Offset, "Syntax Error: Invalid number.")
		}
		return Number(n), nil
	case TokenWord:
		switch string(tok.Lexeme) {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "nil", "null":
			return Null(), nil
		default:
			return String(string(tok.Lexeme)), nil
		}
	case TokenBinary:
		payload := tok.Lexeme[1 : len(tok.Lexeme)-1]
		return Binary(base64Decode(string(payload))), nil
	case TokenReference:
		name := string(tok.Lexeme[2 : len(tok.Lexeme)-1])
		entry, ok := p.refs[name]
		if !ok {
			return Value{}, syntaxErrorAt(tok.Offset, "Syntax Error: Reference [%s] is undefined.", name)
		}
		return entry.Value, nil
	case TokenReferenceDef:
		return p.parseReferenceDef(tok)
	default:
		return Value{}, syntaxErrorAt(tok.Offset, "Syntax Error: Unexpected %s.", tok.Kind)
	}
}

// parseReferenceDef reads the value immediately following a "[ident]"
// token, registers it in the reference table and returns it. A reference
// definition is a transparent value wrapper: it evaluates to the value it
// wraps.
func (p *parser) parseReferenceDef(defTok Token) (Value, error) {
	name := referenceDefName(defTok.Lexeme)
	valTok, err := p.advance()
	if err != nil {
		return Value{}, err
	}
	if !isValueToken(valTok.Kind) {
		return Value{}, syntaxErrorAt(valTok.Offset, "Syntax Error: Expected a value but instead found %s.", describeKind(valTok.Kind))
	}
	value, err := p.parseValueWithMerge(valTok, nil)
	if err != nil {
		return Value{}, err
	}
	if p.refs == nil {
		p.refs = map[string]ReferenceEntry{}
	}
	if prior, ok := p.refs[name]; ok {
		p.warnings = append(p.warnings,
			Warning{Offset: defTok.Offset, Message: fmt.Sprintf("Warning: Reference [%s] redefined.", name)},
			Warning{Offset: prior.DefiningToken.Offset, Message: fmt.Sprintf("Warning: Prior definition of [%s] is here.", name)},
		)
	}
	p.refs[name] = ReferenceEntry{DefiningToken: defTok, Value: value}
	return value, nil
}

// referenceDefName extracts the identifier from a "[ ident ]" lexeme,
// trimming the optional surrounding whitespace the grammar allows.
func referenceDefName(lexeme []byte) string {
	inner := lexeme[1 : len(lexeme)-1]
	start, end := 0, len(inner)
	for start < end && (inner[start] == ' ' || inner[start] == '\t') {
		start++
	}
	for end > start && (inner[end-1] == ' ' || inner[end-1] == '\t') {
		end--
	}
	return string(inner[start:end])
}

func isValueToken(k TokenKind) bool {
	switch k {
	case TokenString, TokenNumber, TokenWord, TokenBinary, TokenMapOpen, TokenArrayOpen, TokenReference, TokenReferenceDef:
		return true
	default:
		return false
	}
}

func describeKind(k TokenKind) string {
	switch k {
	case TokenMapOpen:
		return "map"
	case TokenArrayOpen:
		return "array"
	case TokenCloseScope:
		return "end of container"
	case TokenReference:
		return "reference"
	case TokenReferenceDef:
		return "reference definition"
	case TokenBinary:
		return "binary"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenWord:
		return "word"
	default:
		return k.String()
	}
}

// parseKey reads a map key token, which must be word, number or string. A
// string key whose unescaped value is not valid UTF-8 is a syntax error.
func (p *parser) parseKey(tok Token) (Key, error) {
	switch tok.Kind {
	case TokenWord:
		return StringKey(string(tok.Lexeme)), nil
	case TokenNumber:
		n, err := strconv.ParseFloat(string(tok.Lexeme), 64)
		if err != nil {
			return Key{}, syntaxErrorAt(tok.Offset, "Syntax Error: Invalid number.")
		}
		return NumberKey(n), nil
	case TokenString:
		unescaped := unescapeString(string(tok.Lexeme[1 : len(tok.Lexeme)-1]))
		if !validUTF8([]byte(unescaped)) {
			return Key{}, syntaxErrorAt(tok.Offset, "Syntax Error: Map key is not valid UTF-8.")
		}
		return StringKey(unescaped), nil
	default:
		return Key{}, syntaxErrorAt(tok.Offset, "Syntax Error: Expected map key as word, number, or string but instead found %s.", describeKind(tok.Kind))
	}
}

// parseMap consumes tokens until close_scope, merging into existing when
// it is non-nil.
func (p *parser) parseMap(existing *Value) (Value, error) {
	m := NewMap()
	if existing != nil {
		m = *existing
	}
	for {
		keyTok, err := p.advance()
		if err != nil {
			return Value{}, err
		}
		if keyTok.Kind == TokenCloseScope {
			return m, nil
		}
		// A reference definition used in key position acts as its own key
		// (the identifier) and its own value in one step: it has already
		// consumed its trailing value by the time parseKey would normally
		// hand off to a separate value read.
		if keyTok.Kind == TokenReferenceDef {
			val, err := p.parseReferenceDef(keyTok)
			if err != nil {
				return Value{}, err
			}
			m.Map[StringKey(referenceDefName(keyTok.Lexeme))] = val
			continue
		}
		key, err := p.parseKey(keyTok)
		if err != nil {
			return Value{}, err
		}
		valTok, err := p.advance()
		if err != nil {
			return Value{}, err
		}
		if !isValueToken(valTok.Kind) {
			return Value{}, syntaxErrorAt(valTok.Offset, "Syntax Error: Expected a value but instead found %s.", describeKind(valTok.Kind))
		}
		var mergeTarget *Value
		if existingChild, ok := m.Map[key]; ok {
			mergeTarget = &existingChild
		}
		val, err := p.parseValueWithMerge(valTok, mergeTarget)
		if err != nil {
			return Value{}, err
		}
		m.Map[key] = val
	}
}

// parseArray consumes tokens until close_scope, assigning consecutive
// 1-based indices and merging into existing when it is non-nil.
func (p *parser) parseArray(existing *Value) (Value, error) {
	arr := NewArray()
	if existing != nil {
		arr = *existing
	}
	idx := 0
	for {
		tok, err := p.advance()
		if err != nil {
			return Value{}, err
		}
		if tok.Kind == TokenCloseScope {
			return arr, nil
		}
		if !isValueToken(tok.Kind) {
			return Value{}, syntaxErrorAt(tok.Offset, "Syntax Error: Expected a value but instead found %s.", describeKind(tok.Kind))
		}
		var mergeTarget *Value
		if idx < len(arr.Arr) {
			mergeTarget = &arr.Arr[idx]
		}
		val, err := p.parseValueWithMerge(tok, mergeTarget)
		if err != nil {
			return Value{}, err
		}
		if idx < len(arr.Arr) {
			arr.Arr[idx] = val
		} else {
			arr.Arr = append(arr.Arr, val)
		}
		idx++
	}
}

// parseDocument reads exactly one top-level value, optionally merging
// into prepopulated, then asserts no tokens remain.
func parseDocument(tokens iter.Seq2[Token, error], sourceSize int, prepopulated *Value) (Value, []Warning, error) {
	next, stop := iter.Pull2(tokens)
	defer stop()
	p := &parser{next: next, sourceSize: sourceSize}

	tok, err := p.advance()
	if err != nil {
		return Value{}, nil, err
	}
	if tok.Kind == TokenCloseScope || !isValueToken(tok.Kind) {
		return Value{}, nil, syntaxErrorAt(tok.Offset, "Syntax Error: Expected a value but instead found %s.", describeKind(tok.Kind))
	}
	var merge *Value
	if prepopulated != nil && (tok.Kind == TokenMapOpen || tok.Kind == TokenArrayOpen) {
		merge = prepopulated
	}
	value, err := p.parseValueWithMerge(tok, merge)
	if err != nil {
		return Value{}, nil, err
	}
	extra, err := p.peek()
	if err == nil {
		return Value{}, nil, syntaxErrorAt(extra.Offset, "Syntax Error: Garbage at end of file")
	}
	if !p.eof {
		return Value{}, nil, err
	}
	return value, p.warnings, nil
}

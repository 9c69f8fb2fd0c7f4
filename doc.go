// Package wexpr implements a codec for the wexpr data format: a small,
// human-writable hierarchical format similar in spirit to JSON or
// textproto, with maps, arrays, scalars, base64 binary blobs, comments,
// and intra-document references.
//
// # Documents
//
// A document is a single top-level value: a map, an array, or a scalar.
// Maps are written "@( key value key value ... )"; arrays are written
// "#( value value ... )". Map keys are words, quoted strings, or
// numbers.
//
//	@( name "example" count 3 tags #( "a" "b" ) )
//
// # Scalars
//
// Numbers are plain decimal, optionally negative and fractional; there
// is no exponent form. Strings are double-quoted with a five-entry
// escape set (\\, \r, \n, \t, \"), or written unquoted as a bareword
// when they contain none of the characters that would make them
// ambiguous with other tokens. true, false, nil and null are reserved
// barewords for the boolean and null values. Binary blobs are written
// between angle brackets as base64, e.g. <aGVsbG8=>.
//
// # Comments
//
// Line comments start with ";" and run to the end of the line.
// Block comments are written ";(-- ... --)" and may not be nested.
//
// # References
//
// "[ident] value" defines a named reference and evaluates to value;
// "*[ident]" reuses a previously defined reference's value anywhere a
// value is expected. References are resolved within a single document
// and do not persist across Decode calls.
//
// # Struct binding
//
// Unmarshal and Marshal bind a document's top-level map to or from a Go
// struct using `wexpr:"..."` field tags, the same way encoding/json
// binds to struct tags.
package wexpr

package wexpr

import (
	"strings"
	"testing"
)

func TestEncodeScalars(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		in   Value
		want string
	}{
		{Null(), "null"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Number(42), "42"},
		{Number(-3.5), "-3.5"},
		{String("bareword"), "bareword"},
		{String("has space"), `"has space"`},
		{String("true"), `"true"`},
		{String("null"), `"null"`},
		{Binary([]byte("hi")), "<aGk=>"},
	} {
		got, err := Encode(tc.in, false, nil)
		if err != nil {
			t.Fatalf("Encode(%+v) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("Encode(%+v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEncodeStringForcedBinary(t *testing.T) {
	t.Parallel()

	got, err := Encode(String("string"), false, map[string]bool{"-": true})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if got != "<c3RyaW5n>" {
		t.Errorf("Encode = %q, want %q", got, "<c3RyaW5n>")
	}
}

func TestEncodeNonUTF8StringIsAlwaysBinary(t *testing.T) {
	t.Parallel()

	got, err := Encode(String("\xff\xfe"), false, nil)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !strings.HasPrefix(got, "<") || !strings.HasSuffix(got, ">") {
		t.Errorf("Encode(non-UTF-8 string) = %q, want a <base64> blob", got)
	}
}

func TestEncodeArrayShapedMap(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Map[NumberKey(1)] = Number(10)
	m.Map[NumberKey(2)] = Number(20)
	m.Map[NumberKey(3)] = Number(30)

	got, err := Encode(m, false, nil)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if got != "#(10 20 30)" {
		t.Errorf("Encode(array-shaped map) = %q, want %q", got, "#(10 20 30)")
	}
}

func TestEncodeNonSequentialMapIsNotArray(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Map[NumberKey(1)] = Number(10)
	m.Map[NumberKey(3)] = Number(30)

	got, err := Encode(m, false, nil)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !strings.HasPrefix(got, "@(") {
		t.Errorf("Encode(gappy numeric keys) = %q, want a @(...) map, not an array", got)
	}
}

func TestEncodeEmptyMapIsNotArray(t *testing.T) {
	t.Parallel()

	got, err := Encode(NewMap(), false, nil)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if got != "@()" {
		t.Errorf("Encode(empty map) = %q, want %q", got, "@()")
	}
}

func TestEncodeFatalNonUTF8Key(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Map[StringKey("\xff")] = Number(1)

	_, err := Encode(m, false, nil)
	if err == nil {
		t.Fatal("expected an error encoding a non-UTF-8 map key")
	}
}

func TestEncodeUnencodableValueWarns(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Map[StringKey("bad")] = Value{Kind: KindInvalid}
	m.Map[StringKey("good")] = Number(1)

	e := &Encoder{}
	got, err := e.Encode(m, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if len(e.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(e.Warnings))
	}
	if strings.Contains(got, "bad") {
		t.Errorf("Encode output %q should have elided the unencodable entry", got)
	}
	if !strings.Contains(got, "good") {
		t.Errorf("Encode output %q should still contain the encodable entry", got)
	}
}

// TestEncodeScenario5 pretty-prints a map containing a nested array.
func TestEncodeScenario5(t *testing.T) {
	t.Parallel()

	m := NewMap()
	m.Map[StringKey("key1")] = String("string")
	m.Map[StringKey("key2")] = String("hi")
	m.Map[StringKey("key3")] = Bool(true)
	arr := NewArray()
	arr.Arr = []Value{Number(1), Number(2), Number(3)}
	m.Map[StringKey("key4")] = arr
	m.Map[StringKey("key5")] = String("foo")

	got, err := Encode(m, true, map[string]bool{"-.key1": true, "-.key2": true})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	for _, want := range []string{
		"key1 <c3RyaW5n>",
		"key2 <aGk=>",
		"key3 true",
		"key5 foo",
		"key4 #(\n\t\t1\n\t\t2\n\t\t3\n\t)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Encode output missing %q; full output:\n%s", want, got)
		}
	}
	if !strings.HasPrefix(got, "@(\n\t") || !strings.HasSuffix(got, "\n)") {
		t.Errorf("Encode output not pretty-printed as expected:\n%s", got)
	}

	decoded, err := Decode([]byte(got), nil)
	if err != nil {
		t.Fatalf("re-decoding encoded output failed: %v", err)
	}
	// The binary-forced strings come back as Binary values.
	want := NewMap()
	for k, v := range m.Map {
		want.Map[k] = v
	}
	want.Map[StringKey("key1")] = Binary([]byte("string"))
	want.Map[StringKey("key2")] = Binary([]byte("hi"))
	if !decoded.Equal(want) {
		t.Errorf("round-trip mismatch: got %+v, want %+v", decoded, want)
	}
}

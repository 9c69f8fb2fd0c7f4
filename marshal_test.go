package wexpr

import "testing"

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	type nested struct {
		Field int64 `wexpr:"field"`
	}
	type message struct {
		Str    string  `wexpr:"str"`
		Num    float64 `wexpr:"num"`
		Flag   bool    `wexpr:"flag"`
		Nested nested  `wexpr:"nested"`
		List   []int64 `wexpr:"list"`
		Bytes  []byte  `wexpr:"bytes"`
	}

	in := message{
		Str:    "hello there",
		Num:    3.5,
		Flag:   true,
		Nested: nested{Field: 10},
		List:   []int64{1, 2, 3},
		Bytes:  []byte("hi"),
	}

	data, err := Marshal(&in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var out message
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}

	if out.Str != in.Str || out.Num != in.Num || out.Flag != in.Flag || out.Nested != in.Nested {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
	if len(out.List) != len(in.List) {
		t.Fatalf("List = %v, want %v", out.List, in.List)
	}
	for i := range out.List {
		if out.List[i] != in.List[i] {
			t.Errorf("List[%d] = %d, want %d", i, out.List[i], in.List[i])
		}
	}
	if string(out.Bytes) != string(in.Bytes) {
		t.Errorf("Bytes = %q, want %q", out.Bytes, in.Bytes)
	}
}

func TestMarshalRejectsNonStruct(t *testing.T) {
	t.Parallel()

	if _, err := Marshal(42); err == nil {
		t.Fatal("expected an error for a non-struct value")
	}
}

func TestMarshalSkipsTaggedField(t *testing.T) {
	t.Parallel()

	type message struct {
		Visible string `wexpr:"visible"`
		Hidden  string `wexpr:"-"`
	}
	data, err := Marshal(&message{Visible: "x", Hidden: "y"})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	v, err := Decode(data, nil)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if _, ok := v.Map[StringKey("Hidden")]; ok {
		t.Errorf("expected the tagged-out field to be absent from %+v", v.Map)
	}
	if _, ok := v.Map[StringKey("hidden")]; ok {
		t.Errorf("expected the tagged-out field to be absent from %+v", v.Map)
	}
}

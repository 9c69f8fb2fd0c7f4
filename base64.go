package wexpr

// Standard base64 alphabet and padding. A hand-rolled codec rather than
// encoding/base64: the decoder's permissive "drop anything that isn't
// alphabet or padding" behavior isn't something the standard library's
// strict CorruptInputError-on-bad-byte decoder can express, and that
// permissiveness is required, not optional here.
const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64DecodeTable [256]int8

func init() {
	for i := range base64DecodeTable {
		base64DecodeTable[i] = -1
	}
	for i := 0; i < len(base64Alphabet); i++ {
		base64DecodeTable[base64Alphabet[i]] = int8(i)
	}
}

// base64Encode encodes b into standard base64 text with "=" padding.
func base64Encode(b []byte) string {
	out := make([]byte, 0, (len(b)+2)/3*4)
	for i := 0; i < len(b); i += 3 {
		remaining := len(b) - i
		var n uint32
		n = uint32(b[i]) << 16
		if remaining > 1 {
			n |= uint32(b[i+1]) << 8
		}
		if remaining > 2 {
			n |= uint32(b[i+2])
		}
		out = append(out,
			base64Alphabet[(n>>18)&0x3f],
			base64Alphabet[(n>>12)&0x3f],
			base64Alphabet[(n>>6)&0x3f],
			base64Alphabet[n&0x3f],
		)
		switch remaining {
		case 1:
			out[len(out)-2] = '='
			out[len(out)-1] = '='
		case 2:
			out[len(out)-1] = '='
		}
	}
	return string(out)
}

// base64Decode decodes standard base64 text into bytes. Any byte that is
// not in the alphabet and not "=" is silently ignored; a trailing group of
// fewer than 8 valid decoded bits is silently dropped. No error is ever
// returned.
func base64Decode(s string) []byte {
	out := make([]byte, 0, len(s)/4*3+3)
	var acc uint32
	var bits int
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' {
			continue
		}
		v := base64DecodeTable[c]
		if v < 0 {
			continue
		}
		acc = acc<<6 | uint32(v)
		bits += 6
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>uint(bits)))
		}
	}
	return out
}

package fsr2

import "unicode/utf16"

// WChar matches the platform wchar_t: UTF-16 code units on Windows.
type WChar = uint16

func encodeName(dst []WChar, name string) {
	clear(dst)
	units := utf16.Encode([]rune(name))
	n := copy(dst[:len(dst)-1], units)
	// Don't leave half a surrogate pair behind a truncation.
	if n > 0 && n < len(units) && dst[n-1] >= 0xd800 && dst[n-1] < 0xdc00 {
		dst[n-1] = 0
	}
}

func decodeName(src []WChar) string {
	n := 0
	for n < len(src) && src[n] != 0 {
		n++
	}
	return string(utf16.Decode(src[:n]))
}

//go:build !windows

package fsr2

// WChar matches the platform wchar_t: UTF-32 code points outside Windows.
type WChar = uint32

func encodeName(dst []WChar, name string) {
	clear(dst)
	i := 0
	for _, r := range name {
		if i == len(dst)-1 {
			break
		}
		dst[i] = WChar(r)
		i++
	}
}

func decodeName(src []WChar) string {
	runes := make([]rune, 0, len(src))
	for _, c := range src {
		if c == 0 {
			break
		}
		runes = append(runes, rune(c))
	}
	return string(runes)
}

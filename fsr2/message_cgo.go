//go:build cgo && (vk || dx12) && !stub

package fsr2

/*
#include <stdint.h>
#include <wchar.h>
*/
import "C"

import "unsafe"

//export goFsr2Message
func goFsr2Message(msgType C.int32_t, message *C.wchar_t) {
	deliverMessage(MsgType(msgType), wideString(unsafe.Pointer(message)))
}

// wideString copies a NUL-terminated wchar_t string out of C memory.
func wideString(p unsafe.Pointer) string {
	if p == nil {
		return ""
	}
	var buf []WChar
	for i := uintptr(0); ; i++ {
		c := *(*WChar)(unsafe.Add(p, i*unsafe.Sizeof(WChar(0))))
		if c == 0 {
			break
		}
		buf = append(buf, c)
	}
	return decodeName(buf)
}

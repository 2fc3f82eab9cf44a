package fsr2

import "sync"

// MessageHandler receives debug messages emitted by the native library
// when a context is created with EnableDebugChecking.
type MessageHandler func(t MsgType, message string)

var (
	messageMu      sync.RWMutex
	messageHandler MessageHandler
)

// SetMessageHandler installs h as the process-wide sink for native debug
// messages. A nil handler drops them.
func SetMessageHandler(h MessageHandler) {
	messageMu.Lock()
	messageHandler = h
	messageMu.Unlock()
}

func deliverMessage(t MsgType, message string) {
	messageMu.RLock()
	h := messageHandler
	messageMu.RUnlock()
	if h != nil {
		h(t, message)
	}
}

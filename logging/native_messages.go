package logging

import (
	"go.uber.org/zap"

	"go_fsr2/fsr2"
)

// NativeMessageHandler returns an fsr2.MessageHandler that forwards debug
// messages from the native library to logger. Errors are logged at error
// level and everything else at warn.
func NativeMessageHandler(logger *Logger) fsr2.MessageHandler {
	l := logger.Named("fsr2")
	return func(t fsr2.MsgType, message string) {
		fields := []zap.Field{zap.Stringer("msg_type", t)}
		if t == fsr2.MsgTypeError {
			l.Error(message, fields...)
			return
		}
		l.Warn(message, fields...)
	}
}

package core

import "context"

// ShutdownFunc is a cleanup handler run when the command exits. It should
// return promptly once ctx is done.
type ShutdownFunc func(ctx context.Context) error

package wrap

import (
	"context"
)

// Error wraps an error with the current LogCtx from the context
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	c := LogCtx{}
	if x, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
		c = x
	}

	// If already wrapped at the top level, just refresh the logCtx
	if e, ok := err.(*errorWithLogCtx); ok {
		return &errorWithLogCtx{
			err:    e.err,
			logCtx: c,
		}
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: c,
	}
}

// Package internal contains helpers shared by threadcodec packages only.
package internal

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/threadcodec/logger"
)

// Assert panics (through the logger, so the message is flushed together with
// the contextual fields) if mustBeTrue is false.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}

	logger.Panic(ctx, "assertion failed", extraArgs)
	panic(fmt.Sprintf("assertion failed: %v", extraArgs))
}

//go:build !tinygo

package kernel

import (
	"fmt"
	"runtime"
	"strings"
)

const maxStackFrames = 32

// stackFrames formats the stack as "func file:line". When called from a
// deferred recover, frames up to the runtime's panic entry are dropped so the
// first line is the code that panicked.
func stackFrames(skip int) []string {
	pcs := make([]uintptr, maxStackFrames)
	n := runtime.Callers(skip, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var out []string
	for {
		f, more := frames.Next()
		switch {
		case f.Function == "runtime.gopanic":
			out = out[:0]
		case !strings.HasPrefix(f.Function, "runtime."):
			out = append(out, fmt.Sprintf("%s %s:%d", f.Function, f.File, f.Line))
		}
		if !more {
			return out
		}
	}
}

package kernel

import "fmt"

// PanicInfo describes a panic recovered from a task's Handle.
type PanicInfo struct {
	TaskID TaskID
	Kind   uint16
	Value  any
	// Stack lists the panicking goroutine's frames, innermost first. It is
	// empty on TinyGo.
	Stack []string
}

func (p PanicInfo) Error() string {
	return fmt.Sprintf("task %d panicked handling kind %d: %v", p.TaskID, p.Kind, p.Value)
}

// OnPanic sets the function told about each task that panics. A task that
// panics is disabled, so fn runs at most once per task. It is called on the
// goroutine running Step and must not panic.
func (k *Kernel) OnPanic(fn func(PanicInfo)) { k.onPanic = fn }

// Panicked reports whether any task has been disabled by a panic.
func (k *Kernel) Panicked() bool { return k.panics > 0 }

func (k *Kernel) recovered(info PanicInfo) {
	k.panics++
	info.Stack = stackFrames(2)
	if k.onPanic != nil {
		k.onPanic(info)
	}
}

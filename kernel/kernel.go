// Package kernel is the face's single logical execution context.
//
// Host callbacks, timers and input pumps never touch face state directly; they
// post messages, and the host's frame step drains them with Step on one
// goroutine. Every task therefore sees its messages strictly one at a time.
package kernel

import (
	"context"
	"sync"
)

// MaxMessageBytes is the maximum payload size for a message.
const MaxMessageBytes = 64

// DefaultSlots is the mailbox depth used when New is given a non-positive size.
const DefaultSlots = 32

type TaskID uint8

const maxTasks = 8

// Message is a fixed-size message envelope.
type Message struct {
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
}

// Payload returns the used part of Data.
func (m *Message) Payload() []byte { return m.Data[:m.Len] }

// SendResult describes the outcome of a post attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrPayloadTooLarge
	SendErrQueueFull
	SendErrClosed
	SendErrCanceled
)

func (r SendResult) String() string {
	switch r {
	case SendOK:
		return "ok"
	case SendErrPayloadTooLarge:
		return "payload too large"
	case SendErrQueueFull:
		return "queue full"
	case SendErrClosed:
		return "kernel closed"
	case SendErrCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Task receives every dispatched message.
type Task interface {
	Handle(*Context, Message)
}

type taskState struct {
	task Task
	dead bool
}

// Kernel is a mailbox plus an ordered set of tasks.
type Kernel struct {
	q chan Message

	closeOnce sync.Once
	done      chan struct{}

	tasks     [maxTasks]taskState
	taskCount TaskID

	onPanic func(PanicInfo)
	panics  int
}

// New creates a kernel whose mailbox holds slots messages.
func New(slots int) *Kernel {
	if slots <= 0 {
		slots = DefaultSlots
	}
	return &Kernel{
		q:    make(chan Message, slots),
		done: make(chan struct{}),
	}
}

// AddTask registers a task and returns its ID. Tasks must be added before the
// first Step.
func (k *Kernel) AddTask(t Task) (TaskID, bool) {
	if k.taskCount >= maxTasks || t == nil {
		return 0, false
	}
	id := k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{task: t}
	return id, true
}

// Post enqueues a message without blocking. It is safe from any goroutine.
func (k *Kernel) Post(kind uint16, payload []byte) SendResult {
	msg, res := envelope(kind, payload)
	if res != SendOK {
		return res
	}
	if k.closed() {
		return SendErrClosed
	}
	select {
	case k.q <- msg:
		return SendOK
	default:
		return SendErrQueueFull
	}
}

// PostWait enqueues a message, blocking while the mailbox is full. It must not
// be called from inside a task: only Step drains the mailbox.
func (k *Kernel) PostWait(ctx context.Context, kind uint16, payload []byte) SendResult {
	msg, res := envelope(kind, payload)
	if res != SendOK {
		return res
	}
	if k.closed() {
		return SendErrClosed
	}
	select {
	case k.q <- msg:
		return SendOK
	case <-k.done:
		return SendErrClosed
	case <-ctx.Done():
		return SendErrCanceled
	}
}

// Step dispatches up to budget queued messages on the caller's goroutine and
// returns how many it took. A non-positive budget drains what is queued now.
func (k *Kernel) Step(budget int) int {
	if budget <= 0 {
		budget = cap(k.q)
	}
	n := 0
	for n < budget {
		select {
		case msg := <-k.q:
			k.dispatch(msg)
			n++
		default:
			return n
		}
	}
	return n
}

// Pending returns the number of queued messages.
func (k *Kernel) Pending() int { return len(k.q) }

// Close rejects further posts and releases blocked PostWait callers. Queued
// messages can still be drained with Step.
func (k *Kernel) Close() {
	k.closeOnce.Do(func() { close(k.done) })
}

func (k *Kernel) closed() bool {
	select {
	case <-k.done:
		return true
	default:
		return false
	}
}

func (k *Kernel) dispatch(msg Message) {
	for id := TaskID(0); id < k.taskCount; id++ {
		st := &k.tasks[id]
		if st.dead {
			continue
		}
		if !k.run(id, st.task, msg) {
			st.dead = true
		}
	}
}

func (k *Kernel) run(id TaskID, t Task, msg Message) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			k.recovered(PanicInfo{TaskID: id, Kind: msg.Kind, Value: r})
			ok = false
		}
	}()
	t.Handle(&Context{k: k, taskID: id}, msg)
	return true
}

func envelope(kind uint16, payload []byte) (Message, SendResult) {
	var msg Message
	if len(payload) > MaxMessageBytes {
		return msg, SendErrPayloadTooLarge
	}
	msg.Kind = kind
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)
	return msg, SendOK
}

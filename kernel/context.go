package kernel

// Context provides task-local access to kernel operations.
type Context struct {
	k      *Kernel
	taskID TaskID
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// Post enqueues a follow-up message. It never blocks, so a task cannot
// deadlock on its own mailbox.
func (c *Context) Post(kind uint16, payload []byte) SendResult {
	if c == nil || c.k == nil {
		return SendErrClosed
	}
	return c.k.Post(kind, payload)
}

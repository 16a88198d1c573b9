package bridge

// DefaultQueueSize bounds the messages buffered between two ticks.
const DefaultQueueSize = 256

// Queue is a bounded multi-producer, single-consumer FIFO of messages.
// Push never blocks: when the queue is full the message is dropped.
type Queue struct {
	ch chan Message
}

// NewQueue creates a queue holding up to size messages. A size below 1
// uses DefaultQueueSize.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Queue{ch: make(chan Message, size)}
}

// Push appends m. It reports false if the queue was full and m was dropped.
func (q *Queue) Push(m Message) bool {
	select {
	case q.ch <- m:
		return true
	default:
		return false
	}
}

// Drain hands every message queued at the time of the call to fn, in
// arrival order, and returns how many were handled. Messages pushed while
// draining wait for the next call, so a busy producer cannot stall a tick.
func (q *Queue) Drain(fn func(Message)) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		select {
		case m := <-q.ch:
			fn(m)
		default:
			return i
		}
	}
	return n
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return len(q.ch)
}

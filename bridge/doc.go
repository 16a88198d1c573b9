// Package bridge connects the background receive loop to the tick context.
//
// The Receiver reads datagrams from the shared transport, runs each one
// through the protocol codec with Classify, and pushes the resulting owned
// Message onto a Queue. The tick context drains the queue at the start of
// every tick. The queue is the only thing both sides touch, so session state
// needs no lock.
//
//	recv loop:  ReadFrom -> Classify -> Queue.Push
//	tick:       Queue.Drain -> apply -> maybe send
//
// The receiver has no stop method. Closing the transport makes the next read
// fail, and the loop exits.
package bridge

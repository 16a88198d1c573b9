// Package dataref is the boundary between the streaming engine and the
// simulator host.
//
// The engine never touches host state directly. It resolves named datarefs
// into opaque handles through an API implementation supplied by the host
// adapter, and reads or writes values through those handles. Every read on
// a handle that failed to resolve yields the zero value.
package dataref

// Handle is an opaque reference to a resolved dataref.
type Handle uintptr

// API is the capability surface the host adapter provides.
//
// Implementations are called only from the tick context, one call at a
// time, so they need not be safe for concurrent use by the engine.
type API interface {
	// Resolve looks up a dataref by path.
	Resolve(path string) (Handle, bool)

	ReadFloat(h Handle) float32
	ReadDouble(h Handle) float64
	ReadInt(h Handle) int32

	// ReadFloatArray fills out with up to len(out) elements starting at
	// offset and returns how many were copied.
	ReadFloatArray(h Handle, offset int, out []float32) int

	WriteFloat(h Handle, value float32)
	WriteInt(h Handle, value int32)

	// Log writes a line to the host's log.
	Log(message string)
}

// Package op defines the Operation contract consumed by the internal/mux
// connection multiplexer, and a small set of concrete operations speaking
// the CacheMir wire protocol (pkg/protocol).
//
// The multiplexer never downcasts an Operation; it only reacts to the
// capability set described here. Concrete operations are free to
// implement additional interfaces (Combinable) that the multiplexer
// checks for opportunistically.
package op

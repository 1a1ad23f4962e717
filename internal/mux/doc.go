// Package mux implements a single-threaded, non-blocking I/O multiplexer
// over a fixed pool of connections to a fleet of cache servers. One I/O
// thread drives readiness-based reads and writes across every connection,
// multiplexes pending Operations onto per-connection queues, and
// reconnects failed peers with backoff while preserving pending work.
//
// Producers submit work via Pool.AddOperation from any goroutine; a
// single dedicated goroutine must drive Pool.HandleIO (or call Pool.Run)
// to make progress. No other package functions are safe to call from
// outside that goroutine once a Pool is constructed.
package mux

// Package rate provides the Redis-backed fixed-window counter behind the
// signup and login rate limits.
//
// # Window semantics
//
// Fixed-window counters: INCR + conditional EXPIRE on first hit. A request
// that lands over the limit still increments the counter, so a client that
// keeps retrying keeps the window full. Keys are built as
// <prefix>:rl:<action>:<client>.
package rate

// Package delay provides fixed integer delays for latency alignment.
//
// Line is a raw circular buffer. Fixed wraps it with a constant delay and
// block processing, which is what a dry signal needs when a parallel wet
// path introduces latency.
package delay

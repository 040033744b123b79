// Package trace is the compiler's diagnostic event stream.
//
// The CLI enables it with flags:
//
//	tonnikala compile --trace=- --trace-level=detail page.tk
//
// Tracers:
//
//   - Nop: used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory for crash dumps
//   - MultiTracer: fans out to several tracers
//
// Levels gate scopes: phase shows driver and pass boundaries, detail adds
// per-template events, debug adds node-level events from the IR generator.
//
// The active tracer travels in a context.Context (WithTracer/FromContext);
// spans nest through WithSpanContext so the text format can indent.
package trace

// Package audit buffers security events and hands them to a [Sink] off the
// request path.
//
// The [Dispatcher] never decides what to emit; the engine does. Sinks provided
// here write to a channel, a JSON-lines writer, or a logrus logger.
package audit

package goSession

import (
	"io"

	"github.com/MrEthical07/goSession/internal/audit"
	"github.com/sirupsen/logrus"
)

// AuditEvent is one security-relevant engine event.
type AuditEvent = audit.Event

// AuditSink receives audit events from the engine's dispatcher goroutine.
type AuditSink = audit.Sink

// NoOpSink discards events.
type NoOpSink = audit.NoOpSink

// ChannelSink forwards events into a buffered channel.
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes one JSON object per line.
type JSONWriterSink = audit.JSONWriterSink

// LogrusSink writes events as structured log entries.
type LogrusSink = audit.LogrusSink

// NewChannelSink returns a sink buffering up to buffer events.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink returns a sink writing JSON lines to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// NewLogrusSink returns a sink logging through logger.
func NewLogrusSink(logger logrus.FieldLogger) *LogrusSink {
	return audit.NewLogrusSink(logger)
}

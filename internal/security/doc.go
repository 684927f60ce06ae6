// Package security derives a static posture report from engine settings.
//
// It has no dependency on the root package so the report shape can be
// tested in isolation.
package security

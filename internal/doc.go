// Package internal holds small helpers shared by the engine and the binaries.
package internal

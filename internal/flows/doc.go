// Package flows contains the orchestration behind each Engine operation.
//
// Every Run function takes a dependency struct of plain functions and returns
// a result without holding state between calls. The Engine owns the JWT
// manager, registry, user store, audit dispatcher, and metrics; flows only
// sequence calls to them.
//
// This package must not import the root package.
package flows

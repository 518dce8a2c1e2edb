// Package registry is the single entry point between the shell and storage.
//
// Service runs validation, calls the store, logs each request under a
// request token, and turns failures into user-facing messages with Message.
// It adds no business rules of its own.
package registry

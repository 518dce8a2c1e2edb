// Package attendee defines the attendee record and the error taxonomy shared
// by validation, storage and the registry service.
//
// # Lifecycle
//
// An Attendee is created only by registration after its Payload passes
// validation. Records are never updated in place and never deleted.
//
// # Errors
//
// Every failure surfaced to callers is an *Error carrying a Kind. Use IsKind
// or KindOf to branch on the kind; both see through wrapping.
package attendee

// Package apperr defines the classified error kinds used across a
// digest run. Every failure that reaches the run loop is one of these;
// callers switch on the type, never on message contents.
package apperr

import "fmt"

// FetchError reports a failed metadata resolution call (owners or
// tags). It is fatal to the run: proceeding with an unbound map would
// make every owner lookup ambiguous between "unknown" and "fetch
// failed".
type FetchError struct {
	Operation string // "owners" or "tags"
	Err       error
}

// Error implements error.
func (e *FetchError) Error() string {
	return fmt.Sprintf("metadata fetch %q failed: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying transport or decode error.
func (e *FetchError) Unwrap() error { return e.Err }

// MissingOwnerError reports a hostname that an in-scope labor
// references but the (successful) owner resolution did not cover. The
// labor is skipped, never attributed to a default owner.
type MissingOwnerError struct {
	LaborID  int
	Hostname string
}

// Error implements error.
func (e *MissingOwnerError) Error() string {
	return fmt.Sprintf("labor %d: no owner resolved for host %q", e.LaborID, e.Hostname)
}

// DeliveryError reports a single owner's notification failing to send.
// It is per-item: the batch records it and continues.
type DeliveryError struct {
	Address string
	Err     error
}

// Error implements error.
func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %s failed: %v", e.Address, e.Err)
}

// Unwrap returns the underlying transport error.
func (e *DeliveryError) Unwrap() error { return e.Err }

// This file complements the interfaces in estimator.go and transformer.go
// with the resource-ownership contract for models holding device state.
package model

// Closer is the interface for estimators that own native or device-side
// resources. An instance exclusively owns its handles: they are acquired in
// Fit, replaced on the next Fit, and must be released by Close when the
// estimator is no longer needed. Close is safe to call more than once.
type Closer interface {
	Close() error
}

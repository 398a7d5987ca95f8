// Package domain defines domain-level errors for the inventory feature.
package domain

import "errors"

// Error kinds for the scan pipeline. Callers use errors.Is to tell the fatal
// configuration failure apart from failures scoped to a single source.
var (
	// ErrConfiguration indicates that a required dependency (credential, model
	// client) is missing or invalid. It aborts a scan before any source is processed.
	ErrConfiguration = errors.New("required configuration is missing or invalid")

	// ErrAcquisition indicates that the image payload for one source could not
	// be retrieved. Scoped to that source.
	ErrAcquisition = errors.New("image acquisition failed")

	// ErrDetection indicates that the detection collaborator failed on one
	// image payload. Scoped to that source.
	ErrDetection = errors.New("object detection failed")

	// ErrInvalidDetection indicates a detection whose confidence lies outside
	// the [0, 1] range. The aggregator rejects the whole input rather than
	// correcting it.
	ErrInvalidDetection = errors.New("detection confidence out of range")

	// ErrInvalidMetadata indicates an empty source identifier or environment
	// type when building a report. Scoped to that source.
	ErrInvalidMetadata = errors.New("report metadata is missing")
)

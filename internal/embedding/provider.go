// Package embedding defines the seam to C1, the embedding provider: an
// opaque face-detector+embedder consumed as an external collaborator. The
// real model (and its gRPC wire format) lives in a separate service; this
// package only specifies the Go-side contract and one concrete client.
package embedding

import "context"

// BoundingBox is a face location in normalized image coordinates, [0,1].
type BoundingBox struct {
	X, Y, W, H float64
}

// Area is a convenience used by the enrollment coordinator's A_MIN check.
func (b BoundingBox) Area() float64 {
	return b.W * b.H
}

// Face is one detected face: its location, a quality score in [0,1], and a
// unit-norm embedding vector of length index.Dimension. Quality and the
// embedding are opaque model outputs — this package makes no claim about
// how they were produced.
type Face struct {
	BBox      BoundingBox
	Quality   float64
	Embedding []float32
}

// Provider is C1. Detect returns zero or more faces found in a single
// decoded-or-encoded image frame; it is safe to call concurrently.
type Provider interface {
	Detect(ctx context.Context, imageData []byte) ([]Face, error)
}

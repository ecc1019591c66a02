package sigs

import "github.com/iov-one/htlc/errors"

// x/sigs reserves 20 ~ 29.
var (
	// ErrInvalidSequence is returned when a signature sequence does not
	// match the stored one.
	ErrInvalidSequence = errors.Register(20, "invalid sequence number")
)

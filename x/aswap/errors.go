package aswap

import "github.com/iov-one/htlc/errors"

var (
	// ErrSecretMismatch is returned when a claimed secret hash does not
	// match the commitment.
	ErrSecretMismatch = errors.Register(1010, "secret mismatch")

	// ErrInsufficientDeposit is returned when the deposit does not cover
	// the escrowed amount together with the required margin.
	ErrInsufficientDeposit = errors.Register(1011, "insufficient deposit")
)

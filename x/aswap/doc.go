/*
Package aswap implements a hash-timelock escrow, known as an atomic swap.

A depositor locks funds in a custody account derived from the escrow ID. The
recipient can claim the escrowed amount by revealing a secret whose sha256
hash was registered when the escrow was created, as long as the lock deadline
was not reached. Once the deadline is passed, anyone can claim the escrow and
the whole held balance goes back to the depositor.

An escrow is never deleted. Reverted and Committed states are final and the
record remains in the database.

Funds are never moved directly by a claim. The claim records the state change
and appends transfers to the queue. The queue is processed at the beginning of
the next block.
*/
package aswap

package aswap

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"math"
	"math/big"
	"strconv"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/shopspring/decimal"
	"github.com/tendermint/tendermint/libs/common"
)

// HashSecret returns the commitment of given secret.
func HashSecret(secret []byte) []byte {
	h := sha256.Sum256(secret)
	return h[:]
}

// NewEscrow returns an escrow in the Init state, locked until
// height+lockDuration.
func NewEscrow(depositor, recipient htlc.Address, amount uint64, secretHash []byte, height, lockDuration int64) (*Escrow, error) {
	if lockDuration <= 0 {
		return nil, errors.Wrap(errors.ErrInput, "lock duration must be positive")
	}
	if height > math.MaxInt64-lockDuration {
		return nil, errors.Wrap(errors.ErrOverflow, "lock deadline")
	}
	e := &Escrow{
		Depositor:    depositor,
		Amount:       amount,
		Recipient:    recipient,
		SecretHash:   secretHash,
		LockDeadline: height + lockDuration,
		State:        StateInit,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

var maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(math.MaxUint64), 0)

// MinDeposit returns the smallest deposit accepted for given amount, that is
// amount + floor(amount * margin).
func MinDeposit(amount uint64, margin decimal.Decimal) (uint64, error) {
	if margin.IsNegative() {
		return 0, errors.Wrapf(errors.ErrInput, "negative margin %s", margin)
	}
	a := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0)
	total := a.Add(a.Mul(margin).Floor())
	if total.Cmp(maxUint64) > 0 {
		return 0, errors.Wrapf(errors.ErrOverflow, "deposit for %d", amount)
	}
	n, err := strconv.ParseUint(total.String(), 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrHuman, err.Error())
	}
	return n, nil
}

// RequiredDeposit returns the smallest deposit that keeps at least amount
// available for payout once reserve is withheld from the custody account.
func RequiredDeposit(amount uint64, margin decimal.Decimal, reserve uint64) (uint64, error) {
	n, err := MinDeposit(amount, margin)
	if err != nil {
		return 0, err
	}
	if n > math.MaxUint64-reserve {
		return 0, errors.Wrapf(errors.ErrOverflow, "deposit for %d with reserve %d", amount, reserve)
	}
	return n + reserve, nil
}

// IsExpired returns true if no claim by the recipient is accepted anymore at
// given height.
func IsExpired(e *Escrow, height int64) bool {
	return height > e.LockDeadline
}

// Payout is a transfer from the custody account scheduled by a transition.
type Payout struct {
	To     htlc.Address
	Amount uint64
	Reason string
}

// Payout reasons.
const (
	ReasonPayout  = "payout"
	ReasonSurplus = "surplus"
	ReasonRefund  = "refund"
)

// Event describes a change of an escrow state.
type Event struct {
	Kind   string
	Escrow []byte
	State  State
	Height int64
}

// Event kinds.
const (
	EventCreate = "create"
	EventClaim  = "claim"
)

// Tags returns the event representation attached to a transaction result.
func (ev Event) Tags() []common.KVPair {
	return []common.KVPair{
		htlc.Tag("aswap.action", []byte(ev.Kind)),
		htlc.Tag("aswap.escrow", []byte(hex.EncodeToString(ev.Escrow))),
		htlc.Tag("aswap.state", []byte(ev.State.String())),
	}
}

// Transition is the outcome of a successful claim. Payouts must be executed
// in order, after the new state was stored.
type Transition struct {
	State   State
	Payouts []Payout
	Event   Event
}

// ClaimInput is everything a claim is evaluated against, besides the escrow
// itself.
type ClaimInput struct {
	// ID of the claimed escrow.
	ID []byte
	// Height is the current block height.
	Height int64
	// Callers are the authenticated addresses of the claim sender.
	Callers []htlc.Address
	Secret  []byte
	// Held is the custody balance available for payouts.
	Held uint64
}

// Claim evaluates a claim of given escrow. The escrow is not modified. An
// error means that no transition happens.
//
// Past the lock deadline anybody can claim and the whole held balance is
// refunded. Before the deadline only the recipient can claim, and only with
// the right secret. The recipient gets the amount and the rest of the held
// balance goes back to the depositor.
func Claim(e *Escrow, in ClaimInput) (*Transition, error) {
	if e.State != StateInit {
		return nil, errors.Wrapf(errors.ErrState, "cannot claim escrow in %s state", e.State)
	}
	state := StateClaimed

	if IsExpired(e, in.Height) {
		state = StateReverted
		var payouts []Payout
		if in.Held > 0 {
			payouts = []Payout{{To: e.Depositor, Amount: in.Held, Reason: ReasonRefund}}
		}
		return newTransition(state, payouts, in), nil
	}

	if !isCaller(e.Recipient, in.Callers) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only the recipient can claim before the deadline")
	}
	if subtle.ConstantTimeCompare(HashSecret(in.Secret), e.SecretHash) != 1 {
		return nil, errors.Wrap(ErrSecretMismatch, "secret does not match the hash")
	}
	if in.Held < e.Amount {
		return nil, errors.Wrapf(errors.ErrInsufficientAmount, "held %d, want %d", in.Held, e.Amount)
	}

	state = StateCommitted
	payouts := []Payout{{To: e.Recipient, Amount: e.Amount, Reason: ReasonPayout}}
	if surplus := in.Held - e.Amount; surplus > 0 {
		payouts = append(payouts, Payout{To: e.Depositor, Amount: surplus, Reason: ReasonSurplus})
	}
	return newTransition(state, payouts, in), nil
}

func newTransition(state State, payouts []Payout, in ClaimInput) *Transition {
	return &Transition{
		State:   state,
		Payouts: payouts,
		Event: Event{
			Kind:   EventClaim,
			Escrow: in.ID,
			State:  state,
			Height: in.Height,
		},
	}
}

func isCaller(addr htlc.Address, callers []htlc.Address) bool {
	for _, c := range callers {
		if addr.Equals(c) {
			return true
		}
	}
	return false
}

// HeldBalance returns the custody balance that can be paid out, which is
// the balance minus the storage reserve, never less than zero.
func HeldBalance(balance, reserve uint64) uint64 {
	if balance <= reserve {
		return 0
	}
	return balance - reserve
}

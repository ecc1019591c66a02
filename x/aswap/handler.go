package aswap

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/gconf"
	"github.com/iov-one/htlc/queue"
	"github.com/iov-one/htlc/x"
	"github.com/iov-one/htlc/x/cash"
)

const (
	// pay escrow cost up-front
	createEscrowCost int64 = 300
	claimEscrowCost  int64 = 0
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r htlc.Registry, auth x.Authenticator, control cash.Controller) {
	bucket := NewBucket()
	r.Handle(pathCreateMsg, NewCreateHandler(auth, bucket, control))
	r.Handle(pathClaimMsg, NewClaimHandler(auth, bucket, control))
	r.Handle(pathUpdateConfigurationMsg,
		gconf.NewUpdateConfigurationHandler(ConfigurationPkg, &Configuration{}, auth, nil))
}

// CreateHandler creates an escrow and moves the deposit into its custody
// account.
type CreateHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	control cash.Controller
}

var _ htlc.Handler = CreateHandler{}

func NewCreateHandler(auth x.Authenticator, bucket Bucket, control cash.Controller) CreateHandler {
	return CreateHandler{auth: auth, bucket: bucket, control: control}
}

// Check does the validation and sets the cost of the transaction
func (h CreateHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return htlc.NewCheck(createEscrowCost, ""), nil
}

// Deliver stores the escrow and moves the deposit to its custody account.
// The ID of the created escrow is returned as the result data.
func (h CreateHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	id, err := h.bucket.Create(db, escrow)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	if err := h.control.MoveCoins(db, msg.Depositor, EscrowAddr(id), msg.Deposit); err != nil {
		return nil, errors.Wrap(err, "cannot move deposit")
	}

	height, _ := htlc.GetHeight(ctx)
	ev := Event{Kind: EventCreate, Escrow: id, State: escrow.State, Height: height}
	htlc.GetLogger(ctx).Info("escrow created",
		"escrow", id, "state", ev.State.String(), "height", height,
		"amount", msg.Amount, "deposit", msg.Deposit, "reserve", escrow.StorageReserve,
		"deadline", escrow.LockDeadline)
	return &htlc.DeliverResult{Data: id, Tags: ev.Tags()}, nil
}

// validate returns the message together with the escrow it creates. The
// current storage reserve is recorded in the escrow, so that a later
// configuration change cannot reduce what is available for the payout.
func (h CreateHandler) validate(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*CreateMsg, *Escrow, error) {
	var msg CreateMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	if err := x.RequireSigner(ctx, h.auth, msg.Depositor, "depositor"); err != nil {
		return nil, nil, err
	}
	height, ok := htlc.GetHeight(ctx)
	if !ok {
		return nil, nil, errors.Wrap(errors.ErrHuman, "height not in context")
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, nil, err
	}
	if msg.LockDuration < conf.MinLockDuration || msg.LockDuration > conf.MaxLockDuration {
		return nil, nil, errors.Field("LockDuration", errors.ErrInput,
			"must be between %d and %d", conf.MinLockDuration, conf.MaxLockDuration)
	}
	margin, err := conf.Margin()
	if err != nil {
		return nil, nil, err
	}
	required, err := RequiredDeposit(msg.Amount, margin, conf.StorageReserve)
	if err != nil {
		return nil, nil, err
	}
	if msg.Deposit < required {
		return nil, nil, errors.Wrapf(ErrInsufficientDeposit,
			"deposit %d, want at least %d (reserve %d)", msg.Deposit, required, conf.StorageReserve)
	}

	escrow, err := NewEscrow(msg.Depositor, msg.Recipient, msg.Amount, msg.SecretHash, height, msg.LockDuration)
	if err != nil {
		return nil, nil, err
	}
	escrow.StorageReserve = conf.StorageReserve
	return &msg, escrow, nil
}

// ClaimHandler evaluates claims. A successful claim stores the new escrow
// state and queues the resulting transfers.
type ClaimHandler struct {
	auth    x.Authenticator
	bucket  Bucket
	control cash.Controller
}

var _ htlc.Handler = ClaimHandler{}

func NewClaimHandler(auth x.Authenticator, bucket Bucket, control cash.Controller) ClaimHandler {
	return ClaimHandler{auth: auth, bucket: bucket, control: control}
}

// Check evaluates the claim without modifying the state.
func (h ClaimHandler) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if _, _, _, err := h.evaluate(ctx, db, tx); err != nil {
		return nil, err
	}
	return htlc.NewCheck(claimEscrowCost, ""), nil
}

// Deliver stores the new escrow state and queues the transfers in the same
// store transaction. The resulting state name is returned as the result data.
func (h ClaimHandler) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	id, escrow, tr, err := h.evaluate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	escrow.State = tr.State
	if err := h.bucket.Put(db, id, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}
	custody := EscrowAddr(id)
	for _, p := range tr.Payouts {
		t := &queue.Transfer{From: custody, To: p.To, Amount: p.Amount, Ref: id, Reason: p.Reason}
		if _, err := queue.Put(db, t); err != nil {
			return nil, errors.Wrapf(err, "cannot queue %s", p.Reason)
		}
	}

	htlc.GetLogger(ctx).Info("escrow claimed",
		"escrow", id, "state", tr.State.String(), "height", tr.Event.Height,
		"payouts", len(tr.Payouts))
	return &htlc.DeliverResult{
		Data: []byte(tr.State.String()),
		Tags: tr.Event.Tags(),
	}, nil
}

func (h ClaimHandler) evaluate(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx) ([]byte, *Escrow, *Transition, error) {
	var msg ClaimMsg
	if err := htlc.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	height, ok := htlc.GetHeight(ctx)
	if !ok {
		return nil, nil, nil, errors.Wrap(errors.ErrHuman, "height not in context")
	}
	escrow, err := h.bucket.GetEscrow(db, msg.EscrowID)
	if err != nil {
		return nil, nil, nil, err
	}
	held, err := h.heldBalance(db, msg.EscrowID, escrow)
	if err != nil {
		return nil, nil, nil, err
	}

	tr, err := Claim(escrow, ClaimInput{
		ID:      msg.EscrowID,
		Height:  height,
		Callers: x.GetAddresses(ctx, h.auth),
		Secret:  msg.Secret,
		Held:    held,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return msg.EscrowID, escrow, tr, nil
}

func (h ClaimHandler) heldBalance(db htlc.KVStore, id []byte, e *Escrow) (uint64, error) {
	balance, err := h.control.Balance(db, EscrowAddr(id))
	if err != nil {
		return 0, errors.Wrap(err, "custody balance")
	}
	return HeldBalance(balance, e.StorageReserve), nil
}

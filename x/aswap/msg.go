package aswap

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/orm"
)

const (
	pathCreateMsg              = "aswap/create"
	pathClaimMsg               = "aswap/claim"
	pathUpdateConfigurationMsg = "aswap/update_configuration"

	maxSecretSize = 256
)

// CreateMsg creates a new escrow. Deposit is moved from the depositor to the
// custody account and must cover Amount with the configured margin.
type CreateMsg struct {
	Depositor    htlc.Address
	Recipient    htlc.Address
	Amount       uint64
	Deposit      uint64
	SecretHash   []byte
	LockDuration int64
}

var _ htlc.Msg = (*CreateMsg)(nil)

func (CreateMsg) Path() string {
	return pathCreateMsg
}

func (m *CreateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Depositor", m.Depositor.Validate())
	errs = errors.AppendField(errs, "Recipient", m.Recipient.Validate())
	if m.Depositor.Equals(m.Recipient) {
		errs = errors.Append(errs, errors.Field("Recipient", errors.ErrInput, "must differ from depositor"))
	}
	if m.Amount == 0 {
		errs = errors.Append(errs, errors.Field("Amount", errors.ErrAmount, "must be positive"))
	}
	if m.Deposit < m.Amount {
		errs = errors.Append(errs, errors.Field("Deposit", ErrInsufficientDeposit, "must cover the amount"))
	}
	errs = errors.AppendField(errs, "SecretHash", validateSecretHash(m.SecretHash))
	if m.LockDuration <= 0 {
		errs = errors.Append(errs, errors.Field("LockDuration", errors.ErrInput, "must be positive"))
	}
	return errs
}

func (m *CreateMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.Depositor).
		Bytes(2, m.Recipient).
		Uint64(3, m.Amount).
		Uint64(4, m.Deposit).
		Bytes(5, m.SecretHash).
		Int64(6, m.LockDuration).
		Result(), nil
}

func (m *CreateMsg) Unmarshal(raw []byte) error {
	*m = CreateMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.Depositor, err = d.Bytes(wire)
		case 2:
			m.Recipient, err = d.Bytes(wire)
		case 3:
			m.Amount, err = d.Uint64(wire)
		case 4:
			m.Deposit, err = d.Uint64(wire)
		case 5:
			m.SecretHash, err = d.Bytes(wire)
		case 6:
			m.LockDuration, err = d.Int64(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "create msg")
		}
	}
	return nil
}

// ClaimMsg claims an escrow. Before the deadline it must be signed by the
// recipient and carry the secret. After the deadline it can be signed by
// anybody and the secret is ignored.
type ClaimMsg struct {
	EscrowID []byte
	Secret   []byte
}

var _ htlc.Msg = (*ClaimMsg)(nil)

func (ClaimMsg) Path() string {
	return pathClaimMsg
}

func (m *ClaimMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "EscrowID", orm.ValidateSequence(m.EscrowID))
	if len(m.Secret) > maxSecretSize {
		errs = errors.Append(errs, errors.Field("Secret", errors.ErrInput, "cannot be longer than %d", maxSecretSize))
	}
	return errs
}

func (m *ClaimMsg) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, m.EscrowID).
		Bytes(2, m.Secret).
		Result(), nil
}

func (m *ClaimMsg) Unmarshal(raw []byte) error {
	*m = ClaimMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			m.EscrowID, err = d.Bytes(wire)
		case 2:
			m.Secret, err = d.Bytes(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "claim msg")
		}
	}
	return nil
}

// UpdateConfigurationMsg patches the escrow configuration. Only non zero
// fields of the patch are applied.
type UpdateConfigurationMsg struct {
	Patch *Configuration
}

var _ htlc.Msg = (*UpdateConfigurationMsg)(nil)

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Field("Patch", errors.ErrEmpty, "required")
	}
	return nil
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	e := codec.NewEncoder()
	if m.Patch != nil {
		if err := e.Message(1, m.Patch); err != nil {
			return nil, err
		}
	}
	return e.Result(), nil
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	*m = UpdateConfigurationMsg{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			var b []byte
			if b, err = d.Bytes(wire); err == nil {
				m.Patch = &Configuration{}
				err = m.Patch.Unmarshal(b)
			}
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "update configuration msg")
		}
	}
	return nil
}

package aswap

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/gconf"
	"github.com/shopspring/decimal"
)

// ConfigurationPkg is the name under which the configuration is stored and
// declared in genesis.
const ConfigurationPkg = "aswap"

// Configuration holds the escrow policy.
type Configuration struct {
	// Owner is allowed to update the configuration.
	Owner htlc.Address `json:"owner"`
	// MinMargin is the decimal fraction of the amount that must be
	// deposited on top of it, for example "0.1".
	MinMargin string `json:"min_margin"`
	// StorageReserve is withheld from the custody balance and never paid
	// out.
	StorageReserve uint64 `json:"storage_reserve"`
	// MinLockDuration and MaxLockDuration bound the lock duration of a new
	// escrow, in blocks.
	MinLockDuration int64 `json:"min_lock_duration"`
	MaxLockDuration int64 `json:"max_lock_duration"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

func (c *Configuration) GetOwner() htlc.Address {
	return c.Owner
}

// Margin returns the parsed MinMargin value.
func (c *Configuration) Margin() (decimal.Decimal, error) {
	m, err := decimal.NewFromString(c.MinMargin)
	if err != nil {
		return decimal.Zero, errors.Wrapf(errors.ErrInput, "min margin %q", c.MinMargin)
	}
	if m.IsNegative() {
		return decimal.Zero, errors.Wrapf(errors.ErrInput, "min margin %q is negative", c.MinMargin)
	}
	return m, nil
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if _, err := c.Margin(); err != nil {
		errs = errors.AppendField(errs, "MinMargin", err)
	}
	if c.MinLockDuration <= 0 {
		errs = errors.Append(errs, errors.Field("MinLockDuration", errors.ErrInput, "must be positive"))
	}
	if c.MaxLockDuration < c.MinLockDuration {
		errs = errors.Append(errs, errors.Field("MaxLockDuration", errors.ErrInput, "must not be less than %d", c.MinLockDuration))
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.NewEncoder().
		Bytes(1, c.Owner).
		String(2, c.MinMargin).
		Uint64(3, c.StorageReserve).
		Int64(4, c.MinLockDuration).
		Int64(5, c.MaxLockDuration).
		Result(), nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	*c = Configuration{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			c.Owner, err = d.Bytes(wire)
		case 2:
			c.MinMargin, err = d.String(wire)
		case 3:
			c.StorageReserve, err = d.Uint64(wire)
		case 4:
			c.MinLockDuration, err = d.Int64(wire)
		case 5:
			c.MaxLockDuration, err = d.Int64(wire)
		default:
			err = d.Skip(wire)
		}
		if err != nil {
			return errors.Wrap(err, "configuration")
		}
	}
	return nil
}

func loadConf(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, ConfigurationPkg, &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

// NewConfiguration returns an empty configuration. Use it to register this
// package with gconf.Initializer.
func NewConfiguration() gconf.Configuration {
	return &Configuration{}
}

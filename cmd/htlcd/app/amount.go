package app

import (
	"strconv"

	"github.com/iov-one/htlc/errors"
	"github.com/shopspring/decimal"
)

// AmountDecimals is the number of fractional digits of a whole unit. All
// amounts stored on chain are in base units.
const AmountDecimals = 6

var unit = decimal.New(1, AmountDecimals)

// ParseAmount converts a human readable amount, for example "12.5", into
// base units.
func ParseAmount(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrAmount, "cannot parse %q", s)
	}
	if d.IsNegative() {
		return 0, errors.Wrapf(errors.ErrAmount, "negative amount %q", s)
	}
	base := d.Mul(unit)
	if !base.Equal(base.Floor()) {
		return 0, errors.Wrapf(errors.ErrAmount, "more than %d fractional digits in %q", AmountDecimals, s)
	}
	n, err := strconv.ParseUint(base.String(), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrOverflow, "amount %q", s)
	}
	return n, nil
}

// FormatAmount renders base units as a human readable amount.
func FormatAmount(base uint64) string {
	d, _ := decimal.NewFromString(strconv.FormatUint(base, 10))
	return d.Div(unit).String()
}

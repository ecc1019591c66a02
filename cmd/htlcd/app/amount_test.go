package app

import (
	"testing"

	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
)

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		input   string
		want    uint64
		wantErr *errors.Error
	}{
		"whole":              {input: "12", want: 12000000},
		"fraction":           {input: "0.5", want: 500000},
		"smallest unit":      {input: "0.000001", want: 1},
		"zero":               {input: "0", want: 0},
		"too precise":        {input: "0.0000001", wantErr: errors.ErrAmount},
		"negative":           {input: "-1", wantErr: errors.ErrAmount},
		"not a number":       {input: "ten", wantErr: errors.ErrAmount},
		"too big for uint64": {input: "100000000000000000000", wantErr: errors.ErrOverflow},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			assert.IsErr(t, tc.wantErr, err)
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12", FormatAmount(12000000))
	assert.Equal(t, "0.000001", FormatAmount(1))
	assert.Equal(t, "1.5", FormatAmount(1500000))
	assert.Equal(t, "18446744073709.551615", FormatAmount(^uint64(0)))
}

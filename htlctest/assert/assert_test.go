package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/htlc/errors"
)

type recorder struct {
	failed bool
}

func (r *recorder) Helper() {}

func (r *recorder) Fatal(...interface{}) { r.failed = true }

func (r *recorder) Fatalf(string, ...interface{}) { r.failed = true }

func TestAssertions(t *testing.T) {
	var nilErr error
	var nilPtr *int

	cases := map[string]struct {
		fn       func(Tester)
		wantFail bool
	}{
		"nil interface":  {fn: func(t Tester) { Nil(t, nilErr) }},
		"nil pointer":    {fn: func(t Tester) { Nil(t, nilPtr) }},
		"not nil":        {fn: func(t Tester) { Nil(t, 1) }, wantFail: true},
		"equal":          {fn: func(t Tester) { Equal(t, []int{1}, []int{1}) }},
		"not equal":      {fn: func(t Tester) { Equal(t, 1, int64(1)) }, wantFail: true},
		"panics":         {fn: func(t Tester) { Panics(t, func() { panic("x") }) }},
		"does not panic": {fn: func(t Tester) { Panics(t, func() {}) }, wantFail: true},
		"error kind":     {fn: func(t Tester) { IsErr(t, errors.ErrState, errors.Wrap(errors.ErrState, "x")) }},
		"wrong kind":     {fn: func(t Tester) { IsErr(t, errors.ErrState, errors.ErrEmpty) }, wantFail: true},
		"nil kind":       {fn: func(t Tester) { IsErr(t, nil, nil) }},
		"unwanted error": {fn: func(t Tester) { IsErr(t, nil, fmt.Errorf("x")) }, wantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var r recorder
			tc.fn(&r)
			if r.failed != tc.wantFail {
				t.Fatalf("want failed=%v", tc.wantFail)
			}
		})
	}
}

func TestFieldError(t *testing.T) {
	err := errors.Append(
		errors.Field("Amount", errors.ErrAmount, "zero"),
		errors.Field("SecretHash", errors.ErrInput, "size"),
	)
	FieldError(t, err, "Amount", errors.ErrAmount)
	FieldError(t, err, "SecretHash", errors.ErrInput)
	FieldError(t, err, "Recipient", nil)
}

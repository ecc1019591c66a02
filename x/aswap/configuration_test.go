package aswap

import (
	"testing"

	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/gconf"
	"github.com/iov-one/htlc/htlctest"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
	"github.com/shopspring/decimal"
)

func TestConfigurationValidate(t *testing.T) {
	owner := htlctest.NewCondition().Address()

	cases := map[string]struct {
		Conf      Configuration
		WantField string
		WantErr   *errors.Error
	}{
		"valid": {
			Conf: Configuration{Owner: owner, MinMargin: "0.1", MinLockDuration: 1, MaxLockDuration: 10},
		},
		"zero margin": {
			Conf: Configuration{Owner: owner, MinMargin: "0", MinLockDuration: 1, MaxLockDuration: 1},
		},
		"missing owner": {
			Conf:      Configuration{MinMargin: "0.1", MinLockDuration: 1, MaxLockDuration: 10},
			WantField: "Owner",
			WantErr:   errors.ErrEmpty,
		},
		"missing margin": {
			Conf:      Configuration{Owner: owner, MinLockDuration: 1, MaxLockDuration: 10},
			WantField: "MinMargin",
			WantErr:   errors.ErrInput,
		},
		"negative margin": {
			Conf:      Configuration{Owner: owner, MinMargin: "-1", MinLockDuration: 1, MaxLockDuration: 10},
			WantField: "MinMargin",
			WantErr:   errors.ErrInput,
		},
		"zero min lock duration": {
			Conf:      Configuration{Owner: owner, MinMargin: "0.1", MaxLockDuration: 10},
			WantField: "MinLockDuration",
			WantErr:   errors.ErrInput,
		},
		"max below min": {
			Conf:      Configuration{Owner: owner, MinMargin: "0.1", MinLockDuration: 10, MaxLockDuration: 9},
			WantField: "MaxLockDuration",
			WantErr:   errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.Conf.Validate()
			if tc.WantErr == nil {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.WantField, tc.WantErr)
		})
	}
}

func TestConfigurationMargin(t *testing.T) {
	c := Configuration{MinMargin: "0.25"}
	m, err := c.Margin()
	assert.Nil(t, err)
	if !m.Equal(decimal.New(25, -2)) {
		t.Fatalf("unexpected margin: %s", m)
	}
}

func TestLoadConfiguration(t *testing.T) {
	db := store.MemStore()
	_, err := loadConf(db)
	assert.IsErr(t, errors.ErrNotFound, err)

	want := &Configuration{
		Owner:           htlctest.NewCondition().Address(),
		MinMargin:       "0.1",
		StorageReserve:  7,
		MinLockDuration: 2,
		MaxLockDuration: 200,
	}
	assert.Nil(t, gconf.Save(db, ConfigurationPkg, want))
	got, err := loadConf(db)
	assert.Nil(t, err)
	assert.Equal(t, want, got)
}

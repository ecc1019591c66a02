package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/htlctest/assert"
	"github.com/iov-one/htlc/store"
)

func TestGenesisInitializer(t *testing.T) {
	const genesis = `
		{
			"gconf": {
				"mypkg": {
					"Owner": "D2A1F84143A9754057E42DB6D6C9F986FE0FF673",
					"Num": 321,
					"Str": "hello"
				}
			}
		}
	`
	ini := NewInitializer(map[string]func() Configuration{
		"mypkg": func() Configuration { return &myconfig{} },
	})

	var opts htlc.Options
	if err := json.Unmarshal([]byte(genesis), &opts); err != nil {
		t.Fatalf("cannot unmarshal genesis: %s", err)
	}

	db := store.MemStore()
	if err := ini.FromGenesis(opts, db); err != nil {
		t.Fatalf("cannot load genesis: %s", err)
	}

	owner, err := htlc.ParseAddress("D2A1F84143A9754057E42DB6D6C9F986FE0FF673")
	assert.Nil(t, err)

	var got myconfig
	assert.Nil(t, Load(db, "mypkg", &got))
	want := &myconfig{
		Owner: owner,
		Num:   321,
		Str:   "hello",
	}
	assert.Equal(t, want, &got)
}

func TestGenesisInitializerErrors(t *testing.T) {
	cases := map[string]struct {
		Genesis string
		WantErr *errors.Error
	}{
		"missing package configuration": {
			Genesis: `{"gconf": {"otherpkg": {}}}`,
			WantErr: errors.ErrNotFound,
		},
		"missing gconf section": {
			Genesis: `{}`,
			WantErr: errors.ErrNotFound,
		},
		"invalid configuration": {
			Genesis: `{"gconf": {"mypkg": {"Num": 1}}}`,
			WantErr: errors.ErrEmpty,
		},
		"malformed configuration": {
			Genesis: `{"gconf": {"mypkg": {"Num": "one"}}}`,
			WantErr: errors.ErrInput,
		},
	}

	ini := NewInitializer(map[string]func() Configuration{
		"mypkg": func() Configuration { return &myconfig{} },
	})

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var opts htlc.Options
			if err := json.Unmarshal([]byte(tc.Genesis), &opts); err != nil {
				t.Fatalf("cannot unmarshal genesis: %s", err)
			}
			err := ini.FromGenesis(opts, store.MemStore())
			assert.IsErr(t, tc.WantErr, err)
		})
	}
}

package app

import (
	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/codec"
	"github.com/iov-one/htlc/errors"
)

// ResultSet contains a list of keys or values returned by a query.
// Empty entries are kept so that keys and values stay aligned.
type ResultSet struct {
	Results [][]byte
}

var _ htlc.Persistent = (*ResultSet)(nil)

func (r *ResultSet) Marshal() ([]byte, error) {
	return codec.NewEncoder().RepeatedBytes(1, r.Results).Result(), nil
}

func (r *ResultSet) Unmarshal(raw []byte) error {
	*r = ResultSet{}
	d := codec.NewDecoder(raw)
	for d.More() {
		field, wire, err := d.Next()
		if err != nil {
			return err
		}
		if field != 1 {
			if err := d.Skip(wire); err != nil {
				return errors.Wrap(err, "result set")
			}
			continue
		}
		b, err := d.Bytes(wire)
		if err != nil {
			return errors.Wrap(err, "result set")
		}
		r.Results = append(r.Results, b)
	}
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []htlc.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []htlc.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes them a consistent whole again
func JoinResults(keys, values *ResultSet) ([]htlc.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "%d keys and %d values", len(kref), len(vref))
	}
	mods := make([]htlc.Model, len(kref))
	for i := range mods {
		mods[i] = htlc.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult parses a result set and, if it is not empty,
// unmarshals the first result into o.
func UnmarshalOneResult(raw []byte, o htlc.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(raw); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return errors.Wrap(errors.ErrNotFound, "empty result set")
	}
	return o.Unmarshal(res.Results[0])
}

package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	htlc.Persistent
	Validate() error
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucket stores models of a single type under a common key prefix.
type ModelBucket struct {
	name      string
	prefix    []byte
	modelType reflect.Type
}

// NewModelBucket returns a bucket storing models of the same type as given
// model. Bucket name must be unique within the application.
func NewModelBucket(name string, model Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return ModelBucket{
		name:      name,
		prefix:    append([]byte(name), ':'),
		modelType: reflect.TypeOf(model),
	}
}

// Name returns the name of this bucket.
func (b ModelBucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b ModelBucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// One query the database for a single model instance. Lookup is done by the
// primary key. Result is loaded into given destination model.
//
// This method returns ErrNotFound if the entity does not exist in the
// database. If given model type cannot be used to contain stored entity,
// ErrType is returned.
func (b ModelBucket) One(db htlc.ReadOnlyKVStore, key []byte, dest Model) error {
	if t := reflect.TypeOf(dest); t != b.modelType {
		return errors.Wrapf(errors.ErrType, "%s cannot be loaded into %s", b.modelType, t)
	}
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %s %X", b.name, key)
	}
	return nil
}

// Has returns nil if an entity with given key exists and ErrNotFound
// otherwise.
func (b ModelBucket) Has(db htlc.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(b.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return nil
}

// Put saves given model in the database. Model is validated first.
func (b ModelBucket) Put(db htlc.KVStore, key []byte, m Model) error {
	if t := reflect.TypeOf(m); t != b.modelType {
		return errors.Wrapf(errors.ErrType, "cannot store %s in %s bucket", t, b.name)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}
	// A model with only zero fields serializes to nothing. The iavl tree
	// refuses nil values.
	if raw == nil {
		raw = []byte{}
	}
	if err := db.Set(b.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

// Delete removes an entity with given primary key from the database.
// It returns ErrNotFound if an entity with given key does not exist.
func (b ModelBucket) Delete(db htlc.KVStore, key []byte) error {
	if err := b.Has(db, key); err != nil {
		return err
	}
	return db.Delete(b.DBKey(key))
}

// Sequence returns a Sequence by name
func (b ModelBucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// Register registers this bucket for queries under given path. The bucket
// name is used when path is empty.
func (b ModelBucket) Register(path string, r htlc.QueryRouter) {
	if path == "" {
		path = b.name
	}
	r.Register("/"+path, b)
}

// Query returns the raw model stored under the key given as data.
// Only the key query mode is supported.
func (b ModelBucket) Query(ctx htlc.Context, db htlc.ReadOnlyKVStore, mod string, data []byte) ([]htlc.Model, error) {
	if mod != htlc.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unsupported query mode %q", mod)
	}
	key := b.DBKey(data)
	value, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	// return nothing on miss
	if value == nil {
		return nil, nil
	}
	return []htlc.Model{htlc.Pair(key, value)}, nil
}

package gconf

import (
	"reflect"

	"github.com/iov-one/htlc"
	"github.com/iov-one/htlc/errors"
	"github.com/iov-one/htlc/x"
)

const updateConfigurationCost = 0

// OwnedConfig is a configuration that declares its owner. A configuration
// update message must be signed by the owner in order to be applied.
type OwnedConfig interface {
	Configuration
	GetOwner() htlc.Address
}

// UpdateConfigurationHandler applies a configuration patch carried by a
// message with a "Patch" field of the configuration type.
type UpdateConfigurationHandler struct {
	pkg       string
	config    OwnedConfig
	auth      x.Authenticator
	initAdmin func(htlc.ReadOnlyKVStore) (htlc.Address, error)
}

var _ htlc.Handler = (*UpdateConfigurationHandler)(nil)

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message.
//
// To pass authentication step, each message must be signed by the current
// configuration owner. When no configuration exists yet, initConfAdmin (if
// not nil) provides the address that is allowed to create it.
func NewUpdateConfigurationHandler(
	pkg string,
	config OwnedConfig,
	auth x.Authenticator,
	initConfAdmin func(htlc.ReadOnlyKVStore) (htlc.Address, error),
) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:       pkg,
		config:    config,
		auth:      auth,
		initAdmin: initConfAdmin,
	}
}

func (h UpdateConfigurationHandler) Check(ctx htlc.Context, store htlc.KVStore, tx htlc.Tx) (*htlc.CheckResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return htlc.NewCheck(updateConfigurationCost, ""), nil
}

func (h UpdateConfigurationHandler) Deliver(ctx htlc.Context, store htlc.KVStore, tx htlc.Tx) (*htlc.DeliverResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	htlc.GetLogger(ctx).Info("configuration updated", "pkg", h.pkg)
	return &htlc.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx htlc.Context, store htlc.KVStore, tx htlc.Tx) error {
	switch err := Load(store, h.pkg, h.config); {
	case err == nil:
		if err := x.RequireSigner(ctx, h.auth, h.config.GetOwner(), "owner"); err != nil {
			return err
		}
	case errors.ErrNotFound.Is(err):
		reset(h.config)
		if h.initAdmin == nil {
			return errors.Wrap(errors.ErrUnauthorized, "configuration does not exist and cannot be initialized")
		}
		admin, err := h.initAdmin(store)
		if err != nil {
			return errors.Wrap(err, "get init admin")
		}
		if err := x.RequireSigner(ctx, h.auth, admin, "initialization admin"); err != nil {
			return err
		}
	default:
		return errors.Wrap(err, "load current configuration")
	}

	payload, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(h.config, payload); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}
	if err := Save(store, h.pkg, h.config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// patch copies all non zero fields of the payload into the config.
func patch(config OwnedConfig, payload OwnedConfig) error {
	pType := reflect.TypeOf(payload)
	cType := reflect.TypeOf(config)
	if pType != cType {
		return errors.Wrapf(errors.ErrMsg, "config in message doesn't match store: %s != %s", pType, cType)
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()
	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)
		if isZero(got) {
			continue
		}
		cval.Field(i).Set(got)
	}
	return nil
}

// reset sets the configuration to its zero value.
func reset(config OwnedConfig) {
	val := reflect.ValueOf(config).Elem()
	val.Set(reflect.Zero(val.Type()))
}

func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload expects the transaction to have a message with "Patch" field of
// the same type as the configuration. Content of this field is extracted and
// returned.
func patchPayload(tx htlc.Tx) (OwnedConfig, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr || field.IsNil() {
		return nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}
	return payload, nil
}

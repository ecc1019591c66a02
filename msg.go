package htlc

import (
	"reflect"

	"github.com/iov-one/htlc/errors"
)

// assignMsg copies msg into destination, which must be a pointer to a value
// of the same type as msg.
func assignMsg(msg Msg, destination interface{}) error {
	dst := reflect.ValueOf(destination)
	if dst.Kind() != reflect.Ptr || dst.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must be a non nil pointer")
	}
	src := reflect.ValueOf(msg)
	dstElem := dst.Elem()

	switch {
	case src.Type().AssignableTo(dstElem.Type()):
		dstElem.Set(src)
	case src.Kind() == reflect.Ptr && src.Elem().Type().AssignableTo(dstElem.Type()):
		dstElem.Set(src.Elem())
	default:
		return errors.Wrapf(errors.ErrType, "want %s, got %T", dstElem.Type(), msg)
	}
	return nil
}

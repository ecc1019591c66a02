package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If no errors are given or all given errors are nil, nil is returned. If
// only one non nil error is provided, that error is returned unchanged.
// Provided multi errors are flattened.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if errIsNil(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	switch len(res) {
	case 0:
		return nil
	case 1:
		return res[0]
	default:
		return res
	}
}

// multiErr groups validation errors of a single object. Errors are kept in
// the order they were appended.
type multiErr []error

func (e multiErr) Error() string {
	points := make([]string, len(e))
	for i, err := range e {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(e), strings.Join(points, "\n\t"))
}

// ABCICode returns the code of the first error, consistent with a fail fast
// approach.
func (e multiErr) ABCICode() uint32 {
	if len(e) == 0 {
		return SuccessABCICode
	}
	return abciCode(e[0])
}

// Unpack returns all grouped errors.
func (e multiErr) Unpack() []error {
	return e
}

// unpacker is implemented by an error that groups other errors.
type unpacker interface {
	Unpack() []error
}

package utils

import (
	"strings"

	"github.com/iov-one/htlc"
)

// Tag keys appended by ActionTagger. Clients search deliveries with
// action='aswap/claim' or module='aswap'.
const (
	ActionKey = "action"
	ModuleKey = "module"
)

// ActionTagger tags every successful delivery with the message path and the
// name of the extension that handled it.
type ActionTagger struct{}

var _ htlc.Decorator = ActionTagger{}

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx, next htlc.Checker) (*htlc.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends the tags on success. A transaction without a message
// fails before reaching the handler.
func (ActionTagger) Deliver(ctx htlc.Context, db htlc.KVStore, tx htlc.Tx, next htlc.Deliverer) (*htlc.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	path := msg.Path()
	res.Tags = append(res.Tags,
		htlc.Tag(ActionKey, []byte(path)),
		htlc.Tag(ModuleKey, []byte(moduleName(path))),
	)
	return res, nil
}

// moduleName returns the first segment of a message path.
func moduleName(path string) string {
	if i := strings.IndexByte(path, '/'); i > 0 {
		return path[:i]
	}
	return path
}

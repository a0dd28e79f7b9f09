package action

import "errors"

// ErrDuplicateEntry is returned by Selector.Register when a Judgment with
// an ID already registered in its category is added again.
var ErrDuplicateEntry = errors.New("action: judgment already registered in category")

package audit

import "errors"

// ErrInboxFull signals the buffered notification channel overflowed and the
// event was dropped.
var ErrInboxFull = errors.New("notification inbox full")

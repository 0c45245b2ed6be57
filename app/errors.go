package app

import "errors"

// ErrNoPendingScore is returned by SubmitName when no finished game is
// waiting for a name.
var ErrNoPendingScore = errors.New("app: no score awaiting a name")

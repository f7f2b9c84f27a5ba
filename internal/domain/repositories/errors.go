package repositories

import "errors"

// ErrDuplicate is returned by inserts that hit a unique constraint. Callers
// decide whether the conflict is benign.
var ErrDuplicate = errors.New("duplicate key")

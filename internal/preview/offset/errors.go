package offset

import "errors"

// ErrMissingLineRange is returned by Build when a block carries no usable
// source line range. Such a block must never be offered to the index.
var ErrMissingLineRange = errors.New("block is missing line range metadata")

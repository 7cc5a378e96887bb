package execution

import "errors"

var ErrExecutionNotFound = errors.New("execution not found")

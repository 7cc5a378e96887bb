package target

import "errors"

var (
	ErrTargetNotFound         = errors.New("target not found")
	ErrTaskDefinitionNotFound = errors.New("task target definition not found")
)

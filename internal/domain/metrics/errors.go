package metrics

import "errors"

var (
	ErrInvalidDate       = errors.New("date must be in YYYY-MM-DD format")
	ErrDepartmentMissing = errors.New("department is required")
)

package report

import "errors"

var (
	ErrInvalidPeriod          = errors.New("period must be one of daily, weekly, monthly")
	ErrUnsupportedFormat      = errors.New("export format must be one of csv, json, yaml")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)

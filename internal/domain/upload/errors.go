package upload

import "errors"

var (
	ErrUnsupportedFormat = errors.New("legacy Excel files are not supported, please save the file as CSV and upload again")
	ErrEmptyFile         = errors.New("file is empty")
	ErrInvalidEncoding   = errors.New("file is not valid UTF-8 text")
	ErrFileTooLarge      = errors.New("file exceeds the maximum upload size")
	ErrUploadForbidden   = errors.New("only managers and admins can upload data")
)

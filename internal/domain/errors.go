package domain

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrFileTooLarge      = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed      = errors.New("file upload to storage failed")
	ErrAnalysisNotReady  = errors.New("analysis has not completed")
)

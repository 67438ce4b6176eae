package model

import "errors"

var (
	// ErrConfig is returned for invalid pipeline configuration e.g. an unknown strategy or column.
	ErrConfig = errors.New("configuration error")
	// ErrData is returned for empty, missing or malformed input.
	ErrData = errors.New("data error")
)

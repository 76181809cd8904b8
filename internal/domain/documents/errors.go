package documents

import "errors"

var (
	ErrNotFound    = errors.New("document not found")
	ErrFileMissing = errors.New("document file is missing from storage")
	ErrNotAnImage  = errors.New("photo must be an image")
)

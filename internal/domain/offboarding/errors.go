package offboarding

import "errors"

var (
	ErrNotFound     = errors.New("offboarding not found")
	ErrExists       = errors.New("offboarding already exists for this employee")
	ErrItemNotFound = errors.New("checklist item not found")
)

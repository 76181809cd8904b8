package employee

import (
	"errors"
	"strings"
)

var (
	ErrNotFound        = errors.New("employee not found")
	ErrDuplicateCode   = errors.New("employee code already exists")
	ErrUnknownSection  = errors.New("unknown employee section")
	ErrManagerNotFound = errors.New("no employee matches the reporting manager")
)

// AmbiguousManagerError is returned when a manager name matches several
// employees and the resolver is configured to refuse guessing.
type AmbiguousManagerError struct {
	Name  string
	Codes []string
}

func (e *AmbiguousManagerError) Error() string {
	return "reporting manager " + e.Name + " matches several employees: " + strings.Join(e.Codes, ", ")
}

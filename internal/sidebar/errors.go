package sidebar

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGroupNotFound is returned by operations that address a group by name.
// Rename does not return it: renaming a missing group is a silent no-op.
var ErrGroupNotFound = errors.New("group not found")

// DuplicateGroupError rejects a name already used by another group (case-insensitive).
type DuplicateGroupError struct {
	Name string
}

func (e DuplicateGroupError) Error() string {
	return fmt.Sprintf("%s is already a group name", strings.ToUpper(e.Name))
}

// InvalidGroupNameError rejects empty or over-long names.
type InvalidGroupNameError struct {
	Name   string
	Reason string
}

func (e InvalidGroupNameError) Error() string {
	return fmt.Sprintf("invalid group name %q: %s", e.Name, e.Reason)
}

package cli

import (
	"errors"
	"fmt"

	"fieldbar/internal/store"
)

var errNoSchema = errors.New("no schema: pass --schema <file.json> or --dataset <name> (see `fieldbar schema import`)")

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// catalogError maps catalog sentinels to user-facing errors.
func catalogError(err error, dataset string) error {
	if errors.Is(err, store.ErrDatasetNotFound) {
		return errNotFound("dataset", dataset)
	}
	return err
}

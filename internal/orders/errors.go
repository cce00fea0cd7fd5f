package orders

import (
	"errors"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when the requested order does not exist.
var ErrNotFound = errors.New("order not found")

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-client/internal/port"
)

// mapErr keeps "no such row" apart from every other database failure.
func mapErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return port.ErrNotFound
	}
	return port.Transport(op, err)
}

// Package infra assembles the backend adapters into the remote port.
package infra

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-client/internal/infra/authprovider"
	"github.com/BruksfildServices01/barber-client/internal/infra/repository"
	"github.com/BruksfildServices01/barber-client/internal/port"
)

type Remote struct {
	*authprovider.Provider
	*repository.CatalogGormRepository
	*repository.ProfileGormRepository
	*repository.AppointmentGormRepository
}

var _ port.RemoteDataPort = (*Remote)(nil)

func NewRemote(db *gorm.DB, auth *authprovider.Provider) *Remote {
	return &Remote{
		Provider:                  auth,
		CatalogGormRepository:     repository.NewCatalogGormRepository(db),
		ProfileGormRepository:     repository.NewProfileGormRepository(db),
		AppointmentGormRepository: repository.NewAppointmentGormRepository(db),
	}
}

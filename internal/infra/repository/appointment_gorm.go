package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-client/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-client/internal/models"
	"github.com/BruksfildServices01/barber-client/internal/port"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Insert
// --------------------------------------------------

func (r *AppointmentGormRepository) InsertAppointment(
	ctx context.Context,
	in port.NewAppointment,
) (*port.Appointment, error) {

	status := in.Status
	if status == "" {
		status = appointment.InitialStatus()
	}

	ap := models.Appointment{
		ID:        uuid.NewString(),
		UserID:    in.AccountID,
		ServiceID: in.ServiceID,
		BarberID:  in.BarberID,
		Date:      in.Date,
		Time:      in.Time,
		Status:    string(status),
	}

	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(&ap).Error; err != nil {
		return nil, mapErr("insert appointment", err)
	}

	out := toAppointment(ap)
	return &out, nil
}

// --------------------------------------------------
// Query
// --------------------------------------------------

func (r *AppointmentGormRepository) QueryAppointments(
	ctx context.Context,
	q port.AppointmentQuery,
) ([]port.AppointmentDetail, error) {

	tx := r.db.WithContext(ctx).
		Preload("Service").
		Preload("Barber").
		Where("user_id = ?", q.AccountID)

	if len(q.Statuses) > 0 {
		statuses := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			statuses[i] = string(s)
		}
		tx = tx.Where("status IN ?", statuses)
	}

	if q.DateFrom != "" {
		tx = tx.Where("date >= ?", q.DateFrom)
	}

	tx = tx.Order(clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Name: "date"}, Desc: q.Descending},
		{Column: clause.Column{Name: "time"}, Desc: q.Descending},
	}})

	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []models.Appointment
	if err := tx.Find(&rows).Error; err != nil {
		return nil, mapErr("query appointments", err)
	}

	out := make([]port.AppointmentDetail, len(rows))
	for i, row := range rows {
		out[i] = toDetail(row)
	}
	return out, nil
}

func toAppointment(m models.Appointment) port.Appointment {
	return port.Appointment{
		ID:        m.ID,
		AccountID: m.UserID,
		ServiceID: m.ServiceID,
		BarberID:  m.BarberID,
		Date:      m.Date,
		Time:      m.Time,
		Status:    appointment.Status(m.Status),
	}
}

// toDetail flattens the preloaded service and barber. A deleted
// association leaves its display fields empty.
func toDetail(m models.Appointment) port.AppointmentDetail {
	return port.AppointmentDetail{
		Appointment:  toAppointment(m),
		ServiceName:  m.Service.Name,
		ServicePrice: m.Service.Price,
		BarberName:   m.Barber.Name,
	}
}

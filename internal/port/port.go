// Package port describes what the client core needs from the remote
// backend: credential authentication with a session-change stream, the
// read-only catalog, account profiles and the appointments collection.
package port

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-client/internal/domain/appointment"
)

type Role string

const (
	RoleClient Role = "client"
	RoleAdmin  Role = "admin"
)

type Session struct {
	Token     string
	AccountID string
	Email     string
	ExpiresAt time.Time
}

type Account struct {
	ID    string
	Email string
}

// ProfileSeed carries what sign-up needs to create an account and its
// profile row.
type ProfileSeed struct {
	Name     string
	Email    string
	Password string
}

type AccountProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

type Service struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Duration string `json:"duration"`
	Icon     string `json:"icon"`
}

type Barber struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Image  string  `json:"image"`
	Rating float64 `json:"rating"`
}

type Appointment struct {
	ID        string             `json:"id"`
	AccountID string             `json:"account_id"`
	ServiceID string             `json:"service_id"`
	BarberID  string             `json:"barber_id"`
	Date      string             `json:"date"`
	Time      string             `json:"time"`
	Status    appointment.Status `json:"status"`
}

// AppointmentDetail is an appointment joined with the display fields of
// its service and barber.
type AppointmentDetail struct {
	Appointment
	ServiceName  string `json:"service_name"`
	ServicePrice string `json:"service_price"`
	BarberName   string `json:"barber_name"`
}

type NewAppointment struct {
	AccountID string
	ServiceID string
	BarberID  string
	Date      string
	Time      string
	Status    appointment.Status
}

// AppointmentQuery selects the appointments of one account. Zero values
// disable the optional filters; results are ordered by (date, time).
type AppointmentQuery struct {
	AccountID  string
	Statuses   []appointment.Status
	DateFrom   string
	Descending bool
	Limit      int
}

// AuthProvider is the external identity provider.
type AuthProvider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, seed ProfileSeed) (*Account, error)
	SignOut(ctx context.Context) error
	// CurrentSession returns the persisted session, or nil when there is none.
	CurrentSession(ctx context.Context) (*Session, error)
	// Subscribe delivers every session change; a nil session means signed out.
	Subscribe() (<-chan *Session, func())
}

type CatalogReader interface {
	Services(ctx context.Context) ([]Service, error)
	Barbers(ctx context.Context) ([]Barber, error)
}

type ProfileReader interface {
	Profile(ctx context.Context, accountID string) (*AccountProfile, error)
}

type AppointmentStore interface {
	InsertAppointment(ctx context.Context, in NewAppointment) (*Appointment, error)
	QueryAppointments(ctx context.Context, q AppointmentQuery) ([]AppointmentDetail, error)
}

// RemoteDataPort is the full backend contract.
type RemoteDataPort interface {
	AuthProvider
	CatalogReader
	ProfileReader
	AppointmentStore
}

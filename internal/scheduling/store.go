package scheduling

import (
	"context"
	"errors"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAvailabilityNotSet  = errors.New("availability template not set")
)

// AvailabilityStore holds the weekly template singleton.
type AvailabilityStore interface {
	GetAvailability(ctx context.Context) (*WeeklyAvailability, error)
	PutAvailability(ctx context.Context, av *WeeklyAvailability) error
}

// AppointmentStore is the booking ledger. CreateAppointment assigns the id and
// CreatedAt; implementations must keep ids strictly increasing for sequential
// callers. ListAppointments returns insertion order.
type AppointmentStore interface {
	ListAppointments(ctx context.Context) ([]Appointment, error)
	ListAppointmentsByDate(ctx context.Context, date string) ([]Appointment, error)
	GetAppointmentByID(ctx context.Context, id string) (*Appointment, error)
	CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id string, status AppointmentStatus) (*Appointment, error)
}

// CodeStore is the append-only ledger of issued meeting codes.
type CodeStore interface {
	CodeExists(ctx context.Context, code string) (bool, error)
	InsertUsedCode(ctx context.Context, uc UsedCode) error
}

// Store bundles the three collections; every backend implements all of them.
type Store interface {
	AvailabilityStore
	AppointmentStore
	CodeStore
}

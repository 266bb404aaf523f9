package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	ListApprovedDoctors(ctx context.Context) ([]Doctor, error)
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// Schedule and policy, read fresh on every operation.
	GetWorkWeek(ctx context.Context, doctorID uuid.UUID) (WorkWeek, error)
	ReplaceWorkWeek(ctx context.Context, doctorID uuid.UUID, week WorkWeek) error
	LoadPolicyRecord(ctx context.Context) (*PolicyRecord, error)

	// BookedTimes returns the live (non-cancelled) appointment times for a
	// doctor on a date.
	BookedTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) (map[TimeOfDay]bool, error)

	// CreateAppointment inserts the appointment. The storage-level uniqueness
	// over (doctor, date, time) for live rows is the authoritative conflict
	// guard; a violation surfaces as ErrSlotTaken.
	CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error)

	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// MoveAppointment updates date, time and notes of the same row, so the
	// moved appointment never conflicts with itself at an unchanged key.
	MoveAppointment(ctx context.Context, id uuid.UUID, newDate time.Time, newTime TimeOfDay, notes string) (*Appointment, error)

	// SetAppointmentStatus performs a compare-and-set on the status column.
	SetAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status, notes string) (*Appointment, error)

	ListAppointmentsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error)
	ListAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error)

	// Reminder worker support.
	FindReminderDue(ctx context.Context, from, to time.Time) ([]Appointment, error)
	MarkReminderSent(ctx context.Context, id uuid.UUID) error

	InsertEvent(ctx context.Context, ev EventLog) error
}

// Package notify delivers appointment events to interested consumers over a
// Redis pub/sub channel. Delivery is best-effort: failures are logged and
// never surfaced to the booking caller.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/digihealth/clinic-booking/internal/booking"
)

const Channel = "appointments.events"

type Event struct {
	Type          string         `json:"type"`
	AppointmentID uuid.UUID      `json:"appointment_id"`
	DoctorID      uuid.UUID      `json:"doctor_id"`
	PatientID     uuid.UUID      `json:"patient_id"`
	Date          string         `json:"date"`
	Time          string         `json:"time"`
	Status        string         `json:"status"`
	Detail        map[string]any `json:"detail,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

type Dispatcher struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewDispatcher(client *redis.Client, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{client: client, log: log}
}

var _ booking.Notifier = (*Dispatcher)(nil)

func (d *Dispatcher) AppointmentCreated(ctx context.Context, appt booking.Appointment) {
	d.publish(ctx, eventFrom("created", appt, nil))
}

func (d *Dispatcher) AppointmentRescheduled(ctx context.Context, appt booking.Appointment, oldDate time.Time, oldTime booking.TimeOfDay) {
	d.publish(ctx, eventFrom("rescheduled", appt, map[string]any{
		"old_date": oldDate.Format("2006-01-02"),
		"old_time": oldTime.String(),
	}))
}

func (d *Dispatcher) AppointmentStatusChanged(ctx context.Context, appt booking.Appointment, previous booking.Status) {
	d.publish(ctx, eventFrom("status_changed", appt, map[string]any{
		"previous_status": string(previous),
	}))
}

func (d *Dispatcher) AppointmentReminder(ctx context.Context, appt booking.Appointment) {
	d.publish(ctx, eventFrom("reminder", appt, nil))
}

func eventFrom(kind string, appt booking.Appointment, detail map[string]any) Event {
	return Event{
		Type:          kind,
		AppointmentID: appt.ID,
		DoctorID:      appt.DoctorID,
		PatientID:     appt.PatientID,
		Date:          appt.Date.Format("2006-01-02"),
		Time:          appt.Time.String(),
		Status:        string(appt.Status),
		Detail:        detail,
		OccurredAt:    time.Now(),
	}
}

func (d *Dispatcher) publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		d.log.Error().Err(err).Str("event", ev.Type).Msg("marshal notification event")
		return
	}

	// Detach from the request context so a cancelled booking call cannot
	// abort an already-committed change's notification.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := d.client.Publish(pubCtx, Channel, payload).Err(); err != nil {
		d.log.Error().Err(err).
			Str("event", ev.Type).
			Stringer("appointment_id", ev.AppointmentID).
			Msg("publish notification event")
	}
}

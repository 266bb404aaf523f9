package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var specialty *string

	err := row.Scan(
		&d.ID,
		&d.FullName,
		&specialty,
		&d.Approved,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	d.Specialty = specialty
	return &d, nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var email *string

	err := row.Scan(
		&p.ID,
		&p.FullName,
		&email,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	p.Email = email
	return &p, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var minutes int

	err := row.Scan(
		&a.ID,
		&a.DoctorID,
		&a.PatientID,
		&a.Date,
		&minutes,
		&a.Status,
		&a.Notes,
		&a.Symptoms,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	a.Time = TimeOfDay(minutes)
	return &a, nil
}

const appointmentColumns = `id, doctor_id, patient_id, appointment_date, appointment_time, status, notes, symptoms, created_at, updated_at`

// Interface methods

func (r *PgRepository) GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, specialty, approved, created_at, updated_at
		FROM doctors
		WHERE id = $1
	`, id)
	return scanDoctor(row)
}

func (r *PgRepository) ListApprovedDoctors(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, full_name, specialty, approved, created_at, updated_at
		FROM doctors
		WHERE approved
		ORDER BY full_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *d)
	}
	return result, rows.Err()
}

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, full_name, email, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetWorkWeek(ctx context.Context, doctorID uuid.UUID) (WorkWeek, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT weekday, start_minutes, end_minutes
		FROM doctor_work_days
		WHERE doctor_id = $1
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	week := make(WorkWeek)
	for rows.Next() {
		var weekday, start, end int
		if err := rows.Scan(&weekday, &start, &end); err != nil {
			return nil, err
		}
		week[time.Weekday(weekday)] = WorkingHours{Start: TimeOfDay(start), End: TimeOfDay(end)}
	}
	return week, rows.Err()
}

func (r *PgRepository) ReplaceWorkWeek(ctx context.Context, doctorID uuid.UUID, week WorkWeek) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace work week: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM doctor_work_days WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("clear work week: %w", err)
	}
	for day, hours := range week {
		_, err := tx.Exec(ctx, `
			INSERT INTO doctor_work_days (doctor_id, weekday, start_minutes, end_minutes)
			VALUES ($1, $2, $3, $4)
		`, doctorID, int(day), int(hours.Start), int(hours.End))
		if err != nil {
			return fmt.Errorf("insert work day: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *PgRepository) LoadPolicyRecord(ctx context.Context) (*PolicyRecord, error) {
	var rec PolicyRecord
	err := r.pool.QueryRow(ctx, `
		SELECT slot_minutes, min_advance_hours, max_advance_days,
		       allow_same_day_booking, auto_confirm, maintenance_mode
		FROM admin_settings
		WHERE id = 1
	`).Scan(
		&rec.SlotMinutes,
		&rec.MinAdvanceHours,
		&rec.MaxAdvanceDays,
		&rec.AllowSameDayBooking,
		&rec.AutoConfirm,
		&rec.MaintenanceMode,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absence of a stored policy is not a failure; defaults apply.
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *PgRepository) BookedTimes(ctx context.Context, doctorID uuid.UUID, date time.Time) (map[TimeOfDay]bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT appointment_time
		FROM appointments
		WHERE doctor_id = $1
		  AND appointment_date = $2
		  AND status <> 'CANCELLED'
	`, doctorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	booked := make(map[TimeOfDay]bool)
	for rows.Next() {
		var minutes int
		if err := rows.Scan(&minutes); err != nil {
			return nil, err
		}
		booked[TimeOfDay(minutes)] = true
	}
	return booked, rows.Err()
}

func (r *PgRepository) CreateAppointment(ctx context.Context, appt *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, doctor_id, patient_id, appointment_date, appointment_time, status, notes, symptoms, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		RETURNING `+appointmentColumns+`
	`, appt.ID, appt.DoctorID, appt.PatientID, appt.Date, int(appt.Time), appt.Status, appt.Notes, appt.Symptoms)

	created, err := scanAppointment(row)
	if err != nil {
		return nil, mapSlotConflict(err)
	}
	return created, nil
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) MoveAppointment(ctx context.Context, id uuid.UUID, newDate time.Time, newTime TimeOfDay, notes string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET appointment_date = $2,
		    appointment_time = $3,
		    notes = $4,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns+`
	`, id, newDate, int(newTime), notes)

	moved, err := scanAppointment(row)
	if err != nil {
		return nil, mapSlotConflict(err)
	}
	return moved, nil
}

func (r *PgRepository) SetAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status, notes string) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    notes = $3,
		    updated_at = now()
		WHERE id = $1
		  AND status = $4
		RETURNING `+appointmentColumns+`
	`, id, to, notes, from)
	return scanAppointment(row)
}

func (r *PgRepository) ListAppointmentsByDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	return r.listAppointments(ctx, `doctor_id`, doctorID)
}

func (r *PgRepository) ListAppointmentsByPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	return r.listAppointments(ctx, `patient_id`, patientID)
}

func (r *PgRepository) listAppointments(ctx context.Context, column string, id uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE `+column+` = $1
		ORDER BY appointment_date, appointment_time
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *PgRepository) FindReminderDue(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status IN ('SCHEDULED', 'CONFIRMED')
		  AND reminder_sent_at IS NULL
		  AND appointment_date + make_interval(mins => appointment_time) BETWEEN $1 AND $2
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}
	return result, rows.Err()
}

func (r *PgRepository) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET reminder_sent_at = now()
		WHERE id = $1 AND reminder_sent_at IS NULL
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}
	return nil
}

// mapSlotConflict turns a violation of the live-slot unique index into the
// authoritative SlotTaken signal.
func mapSlotConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrSlotTaken
	}
	return err
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

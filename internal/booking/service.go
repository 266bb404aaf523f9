package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	EventAppointmentCreated     = "APPOINTMENT_CREATED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentStatus      = "APPOINTMENT_STATUS_CHANGED"
)

// Rejection reasons. All are caller-correctable and never retried here.
var (
	ErrDoctorNotEligible   = errors.New("doctor is not approved for booking")
	ErrMaintenanceMode     = errors.New("booking is disabled for maintenance")
	ErrSameDayDisallowed   = errors.New("same-day booking is not allowed")
	ErrTooSoon             = errors.New("booking is below the minimum advance notice")
	ErrTooFarAhead         = errors.New("booking is beyond the maximum advance window")
	ErrOutsideWorkingHours = errors.New("time is outside the doctor's working hours")
	ErrUnalignedSlot       = errors.New("time is not aligned to the slot grid")
	ErrSlotTaken           = errors.New("time slot already booked")
	ErrForbidden           = errors.New("appointment belongs to another patient")
	ErrTerminalStatus      = errors.New("appointment status is terminal")
	ErrInvalidStatus       = errors.New("unknown appointment status")
	ErrInvalidWorkWeek     = errors.New("invalid working hours")
)

// SlotLocker serializes the booking critical section per slot key. It is an
// early-exit optimization in front of the storage uniqueness constraint,
// never the sole conflict guard.
type SlotLocker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// ErrLockBusy is returned by a SlotLocker when another request holds the key.
var ErrLockBusy = errors.New("slot lock busy")

// Notifier receives appointment events. Dispatch is best-effort; a failed
// notification never affects the operation that produced it.
type Notifier interface {
	AppointmentCreated(ctx context.Context, appt Appointment)
	AppointmentRescheduled(ctx context.Context, appt Appointment, oldDate time.Time, oldTime TimeOfDay)
	AppointmentStatusChanged(ctx context.Context, appt Appointment, previous Status)
	AppointmentReminder(ctx context.Context, appt Appointment)
}

type Service struct {
	repo     Repository
	locker   SlotLocker
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(repo Repository, locker SlotLocker, notifier Notifier, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

type ReserveRequest struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Date      time.Time
	Time      TimeOfDay
	Reason    string
	Symptoms  string
}

// Reserve validates the requested slot against policy, schedule and existing
// appointments and creates exactly one appointment row. Two concurrent calls
// for the same (doctor, date, time) cannot both succeed: a loser fails on the
// storage uniqueness constraint and gets ErrSlotTaken.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (*Appointment, error) {
	doctor, err := s.repo.GetDoctorByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Approved {
		return nil, ErrDoctorNotEligible
	}
	if _, err := s.repo.GetPatientByID(ctx, req.PatientID); err != nil {
		return nil, err
	}

	pol, week, err := s.loadPolicyAndWeek(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := validateSlot(week, pol, req.Date, req.Time, now); err != nil {
		return nil, err
	}

	status := StatusScheduled
	if pol.AutoConfirm {
		status = StatusConfirmed
	}
	appt := &Appointment{
		ID:        uuid.New(),
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.Date,
		Time:      req.Time,
		Status:    status,
		Notes:     req.Reason,
		Symptoms:  req.Symptoms,
	}

	var created *Appointment
	err = s.withSlotLock(ctx, req.DoctorID, req.Date, req.Time, func(lockCtx context.Context) error {
		// Early exit while holding the lock; the insert below is still
		// guarded by the unique index either way.
		booked, err := s.repo.BookedTimes(lockCtx, req.DoctorID, req.Date)
		if err != nil {
			return fmt.Errorf("check booked times: %w", err)
		}
		if booked[req.Time] {
			return ErrSlotTaken
		}

		created, err = s.repo.CreateAppointment(lockCtx, appt)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrLockBusy) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	s.logEvent(ctx, created.ID, EventAppointmentCreated, map[string]any{
		"doctor_id":  req.DoctorID.String(),
		"patient_id": req.PatientID.String(),
		"date":       created.Date.Format("2006-01-02"),
		"time":       created.Time.String(),
		"status":     string(created.Status),
	})
	if s.notifier != nil {
		s.notifier.AppointmentCreated(ctx, *created)
	}

	return created, nil
}

// Reschedule moves an existing appointment to a new date and time, preserving
// its identity. The moved appointment is excluded from the conflict check by
// construction: the same row is updated in place, and the uniqueness
// constraint only trips on a collision with a different live row.
func (s *Service) Reschedule(ctx context.Context, id, requesterPatientID uuid.UUID, newDate time.Time, newTime TimeOfDay, reason string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.PatientID != requesterPatientID {
		return nil, ErrForbidden
	}
	if appt.Status.Terminal() {
		return nil, ErrTerminalStatus
	}

	pol, week, err := s.loadPolicyAndWeek(ctx, appt.DoctorID)
	if err != nil {
		return nil, err
	}
	if err := validateSlot(week, pol, newDate, newTime, s.now()); err != nil {
		return nil, err
	}

	notes := appt.Notes
	if reason != "" {
		notes = appendNote(notes, "Reschedule Reason: "+reason)
	}

	oldDate, oldTime := appt.Date, appt.Time

	var moved *Appointment
	err = s.withSlotLock(ctx, appt.DoctorID, newDate, newTime, func(lockCtx context.Context) error {
		moved, err = s.repo.MoveAppointment(lockCtx, id, newDate, newTime, notes)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrLockBusy) {
			return nil, ErrSlotTaken
		}
		return nil, err
	}

	s.logEvent(ctx, moved.ID, EventAppointmentRescheduled, map[string]any{
		"old_date": oldDate.Format("2006-01-02"),
		"old_time": oldTime.String(),
		"new_date": moved.Date.Format("2006-01-02"),
		"new_time": moved.Time.String(),
	})
	if s.notifier != nil {
		s.notifier.AppointmentRescheduled(ctx, *moved, oldDate, oldTime)
	}

	return moved, nil
}

// UpdateStatus transitions an appointment to a target status. Terminal
// appointments refuse further transitions.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, target Status, reason string) (*Appointment, error) {
	if !target.Valid() {
		return nil, ErrInvalidStatus
	}

	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status.Terminal() {
		return nil, ErrTerminalStatus
	}
	if appt.Status == target {
		return appt, nil
	}

	notes := appt.Notes
	if target == StatusCancelled && reason != "" {
		notes = appendNote(notes, "Cancelled Reason: "+reason)
	}

	previous := appt.Status
	updated, err := s.repo.SetAppointmentStatus(ctx, id, previous, target, notes)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, updated.ID, EventAppointmentStatus, map[string]any{
		"from": string(previous),
		"to":   string(updated.Status),
	})
	if s.notifier != nil {
		s.notifier.AppointmentStatusChanged(ctx, *updated, previous)
	}

	return updated, nil
}

// OpenSlotsFor returns the open slot start times for a doctor on a date.
func (s *Service) OpenSlotsFor(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]TimeOfDay, error) {
	doctor, err := s.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Approved {
		return nil, ErrDoctorNotEligible
	}

	pol, week, err := s.loadPolicyAndWeek(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.BookedTimes(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load booked times: %w", err)
	}

	return OpenSlots(week, pol, booked, date, s.now()), nil
}

// WorkWeekInfo is the doctor-schedule payload clients use for pre-validation.
type WorkWeekInfo struct {
	Week   WorkWeek
	Policy Policy
}

func (s *Service) WorkWeekFor(ctx context.Context, doctorID uuid.UUID) (*WorkWeekInfo, error) {
	doctor, err := s.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !doctor.Approved {
		return nil, ErrDoctorNotEligible
	}

	pol, week, err := s.loadPolicyAndWeek(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return &WorkWeekInfo{Week: week, Policy: pol}, nil
}

// SetWorkWeek replaces a doctor's working hours.
func (s *Service) SetWorkWeek(ctx context.Context, doctorID uuid.UUID, week WorkWeek) error {
	if _, err := s.repo.GetDoctorByID(ctx, doctorID); err != nil {
		return err
	}
	for day, hours := range week {
		if day < time.Sunday || day > time.Saturday {
			return ErrInvalidWorkWeek
		}
		if hours.Start < 0 || hours.End > 24*60 || hours.Start >= hours.End {
			return fmt.Errorf("%w: %s %s-%s", ErrInvalidWorkWeek, day, hours.Start, hours.End)
		}
	}
	return s.repo.ReplaceWorkWeek(ctx, doctorID, week)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

func (s *Service) ListApprovedDoctors(ctx context.Context) ([]Doctor, error) {
	return s.repo.ListApprovedDoctors(ctx)
}

func (s *Service) ListForDoctor(ctx context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	return s.repo.ListAppointmentsByDoctor(ctx, doctorID)
}

func (s *Service) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	return s.repo.ListAppointmentsByPatient(ctx, patientID)
}

// DispatchReminders emits a reminder event for every live appointment
// starting within the lead window, marking each so it fires once. Called
// periodically by the reminder worker, not by any request path.
func (s *Service) DispatchReminders(ctx context.Context, lead time.Duration) (int, error) {
	now := s.now()
	due, err := s.repo.FindReminderDue(ctx, now, now.Add(lead))
	if err != nil {
		return 0, fmt.Errorf("find due reminders: %w", err)
	}

	sent := 0
	for _, appt := range due {
		if err := s.repo.MarkReminderSent(ctx, appt.ID); err != nil {
			s.log.Error().Err(err).Stringer("appointment_id", appt.ID).Msg("mark reminder sent")
			continue
		}
		if s.notifier != nil {
			s.notifier.AppointmentReminder(ctx, appt)
		}
		sent++
	}
	return sent, nil
}

// validateSlot runs the policy and schedule checks shared by Reserve and
// Reschedule. The first failing check wins.
func validateSlot(week WorkWeek, pol Policy, date time.Time, t TimeOfDay, now time.Time) error {
	if pol.MaintenanceMode {
		return ErrMaintenanceMode
	}
	if !pol.AllowSameDayBooking && sameDate(date, now) {
		return ErrSameDayDisallowed
	}
	if t.At(date).Sub(now) < time.Duration(pol.MinAdvanceHours)*time.Hour {
		return fmt.Errorf("%w: minimum advance is %d hours", ErrTooSoon, pol.MinAdvanceHours)
	}
	if daysBetween(now, date) > pol.MaxAdvanceDays {
		return fmt.Errorf("%w: maximum advance is %d days", ErrTooFarAhead, pol.MaxAdvanceDays)
	}
	hours, ok := week[date.Weekday()]
	if !ok {
		return ErrOutsideWorkingHours
	}
	if t < hours.Start || t >= hours.End {
		return fmt.Errorf("%w: working hours are %s-%s", ErrOutsideWorkingHours, hours.Start, hours.End)
	}
	if int(t)%pol.SlotMinutes != 0 {
		return fmt.Errorf("%w: slots start every %d minutes", ErrUnalignedSlot, pol.SlotMinutes)
	}
	return nil
}

func (s *Service) loadPolicyAndWeek(ctx context.Context, doctorID uuid.UUID) (Policy, WorkWeek, error) {
	rec, err := s.repo.LoadPolicyRecord(ctx)
	if err != nil {
		return Policy{}, nil, fmt.Errorf("load booking policy: %w", err)
	}
	week, err := s.repo.GetWorkWeek(ctx, doctorID)
	if err != nil {
		return Policy{}, nil, fmt.Errorf("load work week: %w", err)
	}
	return ResolvePolicy(rec), week, nil
}

func (s *Service) withSlotLock(ctx context.Context, doctorID uuid.UUID, date time.Time, t TimeOfDay, fn func(ctx context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}
	key := SlotKey(doctorID, date, t)
	return s.locker.WithSlotLock(ctx, key, fn)
}

// SlotKey identifies one bookable slot for locking purposes.
func SlotKey(doctorID uuid.UUID, date time.Time, t TimeOfDay) string {
	return fmt.Sprintf("%s:%s:%s", doctorID, date.Format("2006-01-02"), t)
}

func appendNote(existing, line string) string {
	if existing == "" {
		return line
	}
	return existing + "\n\n" + line
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("event_type", eventType).Msg("marshal event payload")
		data = nil
	}

	apptID := appointmentID
	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Error().Err(err).
			Str("event_type", eventType).
			Stringer("appointment_id", appointmentID).
			Msg("insert event log")
	}
}

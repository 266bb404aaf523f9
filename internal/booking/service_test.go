package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// fakeRepo is an in-memory Repository. Its insert/move paths enforce the
// live-slot uniqueness under a mutex, standing in for the database's partial
// unique index.
type fakeRepo struct {
	mu       sync.Mutex
	doctors  map[uuid.UUID]*Doctor
	patients map[uuid.UUID]*Patient
	weeks    map[uuid.UUID]WorkWeek
	policy   *PolicyRecord
	appts    map[uuid.UUID]*Appointment
	reminded map[uuid.UUID]bool
	events   []EventLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctors:  make(map[uuid.UUID]*Doctor),
		patients: make(map[uuid.UUID]*Patient),
		weeks:    make(map[uuid.UUID]WorkWeek),
		appts:    make(map[uuid.UUID]*Appointment),
		reminded: make(map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) GetDoctorByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.doctors[id]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

func (f *fakeRepo) ListApprovedDoctors(_ context.Context) ([]Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Doctor
	for _, d := range f.doctors {
		if d.Approved {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetPatientByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) GetWorkWeek(_ context.Context, doctorID uuid.UUID) (WorkWeek, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	week := make(WorkWeek, len(f.weeks[doctorID]))
	for day, hours := range f.weeks[doctorID] {
		week[day] = hours
	}
	return week, nil
}

func (f *fakeRepo) ReplaceWorkWeek(_ context.Context, doctorID uuid.UUID, week WorkWeek) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weeks[doctorID] = week
	return nil
}

func (f *fakeRepo) LoadPolicyRecord(_ context.Context) (*PolicyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.policy, nil
}

func (f *fakeRepo) BookedTimes(_ context.Context, doctorID uuid.UUID, date time.Time) (map[TimeOfDay]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	booked := make(map[TimeOfDay]bool)
	for _, a := range f.appts {
		if a.DoctorID == doctorID && sameDate(a.Date, date) && a.Status != StatusCancelled {
			booked[a.Time] = true
		}
	}
	return booked, nil
}

func (f *fakeRepo) liveConflictLocked(doctorID uuid.UUID, date time.Time, t TimeOfDay, exclude uuid.UUID) bool {
	for _, a := range f.appts {
		if a.ID == exclude {
			continue
		}
		if a.DoctorID == doctorID && sameDate(a.Date, date) && a.Time == t && a.Status != StatusCancelled {
			return true
		}
	}
	return false
}

func (f *fakeRepo) CreateAppointment(_ context.Context, appt *Appointment) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.liveConflictLocked(appt.DoctorID, appt.Date, appt.Time, uuid.Nil) {
		return nil, ErrSlotTaken
	}
	cp := *appt
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.appts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) MoveAppointment(_ context.Context, id uuid.UUID, newDate time.Time, newTime TimeOfDay, notes string) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	if f.liveConflictLocked(a.DoctorID, newDate, newTime, id) {
		return nil, ErrSlotTaken
	}
	a.Date = newDate
	a.Time = newTime
	a.Notes = notes
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) SetAppointmentStatus(_ context.Context, id uuid.UUID, from, to Status, notes string) (*Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.appts[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}
	a.Status = to
	a.Notes = notes
	a.UpdatedAt = time.Now()
	cp := *a
	return &cp, nil
}

func (f *fakeRepo) ListAppointmentsByDoctor(_ context.Context, doctorID uuid.UUID) ([]Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Appointment
	for _, a := range f.appts {
		if a.DoctorID == doctorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAppointmentsByPatient(_ context.Context, patientID uuid.UUID) ([]Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Appointment
	for _, a := range f.appts {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) FindReminderDue(_ context.Context, from, to time.Time) ([]Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Appointment
	for _, a := range f.appts {
		if a.Status.Terminal() || f.reminded[a.ID] {
			continue
		}
		start := a.Time.At(a.Date)
		if !start.Before(from) && !start.After(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeRepo) MarkReminderSent(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reminded[id] {
		return ErrAppointmentNotFound
	}
	f.reminded[id] = true
	return nil
}

func (f *fakeRepo) InsertEvent(_ context.Context, ev EventLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	kinds []string
}

func (n *fakeNotifier) record(kind string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
}

func (n *fakeNotifier) AppointmentCreated(context.Context, Appointment) { n.record("created") }
func (n *fakeNotifier) AppointmentRescheduled(_ context.Context, _ Appointment, _ time.Time, _ TimeOfDay) {
	n.record("rescheduled")
}
func (n *fakeNotifier) AppointmentStatusChanged(_ context.Context, _ Appointment, _ Status) {
	n.record("status_changed")
}
func (n *fakeNotifier) AppointmentReminder(context.Context, Appointment) { n.record("reminder") }

// Saturday evening; the Monday of slots_test.go is 36 hours out.
var fixedNow = time.Date(2025, 2, 22, 21, 30, 0, 0, time.UTC)

type fixture struct {
	repo     *fakeRepo
	notifier *fakeNotifier
	svc      *Service
	doctorID uuid.UUID
	patient  uuid.UUID
}

func newFixture(t *testing.T, week WorkWeek) *fixture {
	t.Helper()

	repo := newFakeRepo()
	doctorID := uuid.New()
	patientID := uuid.New()
	repo.doctors[doctorID] = &Doctor{ID: doctorID, FullName: "Dr. Example", Approved: true}
	repo.patients[patientID] = &Patient{ID: patientID, FullName: "Pat Example"}
	repo.weeks[doctorID] = week

	notifier := &fakeNotifier{}
	svc := NewService(repo, nil, notifier, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }

	return &fixture{repo: repo, notifier: notifier, svc: svc, doctorID: doctorID, patient: patientID}
}

func (fx *fixture) reserve(t *testing.T, date time.Time, slot string) (*Appointment, error) {
	t.Helper()
	return fx.svc.Reserve(context.Background(), ReserveRequest{
		DoctorID:  fx.doctorID,
		PatientID: fx.patient,
		Date:      date,
		Time:      mustTime(t, slot),
		Reason:    "checkup",
	})
}

func (fx *fixture) setPolicy(rec PolicyRecord) {
	fx.repo.policy = &rec
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestReserve_Scenario(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "12:00")))

	appt, err := fx.reserve(t, monday, "09:30")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if appt.Status != StatusScheduled {
		t.Fatalf("status: got %s, want SCHEDULED", appt.Status)
	}

	if _, err := fx.reserve(t, monday, "09:30"); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("second booking: got %v, want ErrSlotTaken", err)
	}

	slots, err := fx.svc.OpenSlotsFor(context.Background(), fx.doctorID, monday)
	if err != nil {
		t.Fatalf("open slots: %v", err)
	}
	want := []string{"09:00", "10:00", "10:30", "11:00", "11:30"}
	got := slotStrings(slots)
	if len(got) != len(want) {
		t.Fatalf("slots: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("slot %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestReserve_ConcurrentSameSlot(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.reserve(t, monday, "10:00")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != n-1 {
		t.Fatalf("got %d successes and %d conflicts, want 1 and %d", successes, conflicts, n-1)
	}
}

func TestReserve_OpenSlotsAgree(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "11:00")))

	slots, err := fx.svc.OpenSlotsFor(context.Background(), fx.doctorID, monday)
	if err != nil {
		t.Fatalf("open slots: %v", err)
	}
	if len(slots) == 0 {
		t.Fatal("expected open slots")
	}
	for _, slot := range slots {
		if _, err := fx.reserve(t, monday, slot.String()); err != nil {
			t.Fatalf("slot %s was advertised open but booking failed: %v", slot, err)
		}
	}
}

func TestReserve_UnalignedSlot(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	if _, err := fx.reserve(t, monday, "10:15"); !errors.Is(err, ErrUnalignedSlot) {
		t.Fatalf("10:15: got %v, want ErrUnalignedSlot", err)
	}
	if _, err := fx.reserve(t, monday, "10:30"); err != nil {
		t.Fatalf("10:30: %v", err)
	}
}

func TestReserve_AdvanceWindows(t *testing.T) {
	allWeek := make(WorkWeek)
	for d := time.Sunday; d <= time.Saturday; d++ {
		allWeek[d] = WorkingHours{Start: 0, End: 24 * 60}
	}
	fx := newFixture(t, allWeek)

	sunday := monday.AddDate(0, 0, -1)
	// fixedNow+23h is Sunday 20:30; fixedNow+25h is Sunday 22:30.
	if _, err := fx.reserve(t, sunday, "20:30"); !errors.Is(err, ErrTooSoon) {
		t.Fatalf("23h out: got %v, want ErrTooSoon", err)
	}
	if _, err := fx.reserve(t, sunday, "22:30"); err != nil {
		t.Fatalf("25h out: %v", err)
	}

	farOut := monday.AddDate(0, 0, 91)
	if _, err := fx.reserve(t, farOut, "10:00"); !errors.Is(err, ErrTooFarAhead) {
		t.Fatalf("91d out: got %v, want ErrTooFarAhead", err)
	}
}

func TestReserve_MaintenanceMode(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))
	fx.setPolicy(PolicyRecord{MaintenanceMode: boolPtr(true)})

	if _, err := fx.reserve(t, monday, "10:00"); !errors.Is(err, ErrMaintenanceMode) {
		t.Fatalf("got %v, want ErrMaintenanceMode", err)
	}
}

func TestReserve_SameDayDisallowed(t *testing.T) {
	week := WorkWeek{time.Saturday: {Start: 0, End: 24 * 60}}
	fx := newFixture(t, week)
	fx.setPolicy(PolicyRecord{AllowSameDayBooking: boolPtr(false), MinAdvanceHours: intPtr(0)})

	saturday := monday.AddDate(0, 0, -2)
	if _, err := fx.reserve(t, saturday, "23:00"); !errors.Is(err, ErrSameDayDisallowed) {
		t.Fatalf("got %v, want ErrSameDayDisallowed", err)
	}
}

func TestReserve_ClosedDay(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	tuesday := monday.AddDate(0, 0, 1)
	if _, err := fx.reserve(t, tuesday, "10:00"); !errors.Is(err, ErrOutsideWorkingHours) {
		t.Fatalf("got %v, want ErrOutsideWorkingHours", err)
	}
}

func TestReserve_OutsideHours(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	if _, err := fx.reserve(t, monday, "08:30"); !errors.Is(err, ErrOutsideWorkingHours) {
		t.Fatalf("08:30: got %v, want ErrOutsideWorkingHours", err)
	}
	// End of the range is exclusive.
	if _, err := fx.reserve(t, monday, "17:00"); !errors.Is(err, ErrOutsideWorkingHours) {
		t.Fatalf("17:00: got %v, want ErrOutsideWorkingHours", err)
	}
}

func TestReserve_DoctorChecks(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	unknown := uuid.New()
	_, err := fx.svc.Reserve(context.Background(), ReserveRequest{
		DoctorID: unknown, PatientID: fx.patient, Date: monday, Time: mustTime(t, "10:00"),
	})
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("unknown doctor: got %v, want ErrDoctorNotFound", err)
	}

	fx.repo.doctors[fx.doctorID].Approved = false
	if _, err := fx.reserve(t, monday, "10:00"); !errors.Is(err, ErrDoctorNotEligible) {
		t.Fatalf("unapproved doctor: got %v, want ErrDoctorNotEligible", err)
	}
}

func TestReserve_AutoConfirm(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))
	fx.setPolicy(PolicyRecord{AutoConfirm: boolPtr(true)})

	appt, err := fx.reserve(t, monday, "10:00")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if appt.Status != StatusConfirmed {
		t.Fatalf("status: got %s, want CONFIRMED", appt.Status)
	}
}

func TestReserve_CancelledSlotReusable(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	appt, err := fx.reserve(t, monday, "10:00")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := fx.svc.UpdateStatus(context.Background(), appt.ID, StatusCancelled, "conflict"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := fx.reserve(t, monday, "10:00"); err != nil {
		t.Fatalf("rebooking a cancelled slot: %v", err)
	}
}

func TestReschedule_SameSlot(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	appt, err := fx.reserve(t, monday, "09:00")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	moved, err := fx.svc.Reschedule(context.Background(), appt.ID, fx.patient, monday, mustTime(t, "09:00"), "no change")
	if err != nil {
		t.Fatalf("reschedule to own slot: %v", err)
	}
	if moved.ID != appt.ID {
		t.Fatalf("identity changed: got %s, want %s", moved.ID, appt.ID)
	}
}

func TestReschedule_Conflict(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	first, err := fx.reserve(t, monday, "09:00")
	if err != nil {
		t.Fatalf("reserve first: %v", err)
	}
	if _, err := fx.reserve(t, monday, "10:00"); err != nil {
		t.Fatalf("reserve second: %v", err)
	}

	if _, err := fx.svc.Reschedule(context.Background(), first.ID, fx.patient, monday, mustTime(t, "10:00"), ""); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("got %v, want ErrSlotTaken", err)
	}
}

func TestReschedule_Forbidden(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	appt, err := fx.reserve(t, monday, "09:00")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	stranger := uuid.New()
	if _, err := fx.svc.Reschedule(context.Background(), appt.ID, stranger, monday, mustTime(t, "10:00"), ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("got %v, want ErrForbidden", err)
	}
}

func TestReschedule_AppendsReason(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	appt, err := fx.reserve(t, monday, "09:00")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	moved, err := fx.svc.Reschedule(context.Background(), appt.ID, fx.patient, monday, mustTime(t, "11:00"), "work trip")
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if !strings.Contains(moved.Notes, "Reschedule Reason: work trip") {
		t.Fatalf("notes missing reason: %q", moved.Notes)
	}
	if !strings.Contains(moved.Notes, "checkup") {
		t.Fatalf("original notes lost: %q", moved.Notes)
	}
}

func TestUpdateStatus_TerminalRefused(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	appt, err := fx.reserve(t, monday, "09:00")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	if _, err := fx.svc.UpdateStatus(context.Background(), appt.ID, StatusCompleted, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := fx.svc.UpdateStatus(context.Background(), appt.ID, StatusCancelled, ""); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("transition from COMPLETED: got %v, want ErrTerminalStatus", err)
	}

	// Terminal appointments refuse reschedules as well.
	if _, err := fx.svc.Reschedule(context.Background(), appt.ID, fx.patient, monday, mustTime(t, "11:00"), ""); !errors.Is(err, ErrTerminalStatus) {
		t.Fatalf("reschedule of COMPLETED: got %v, want ErrTerminalStatus", err)
	}
}

func TestUpdateStatus_CancelAppendsReason(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	appt, err := fx.reserve(t, monday, "09:00")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}

	cancelled, err := fx.svc.UpdateStatus(context.Background(), appt.ID, StatusCancelled, "feeling better")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if !strings.Contains(cancelled.Notes, "Cancelled Reason: feeling better") {
		t.Fatalf("notes missing reason: %q", cancelled.Notes)
	}
}

func TestUpdateStatus_Invalid(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	appt, err := fx.reserve(t, monday, "09:00")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := fx.svc.UpdateStatus(context.Background(), appt.ID, Status("NOPE"), ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("got %v, want ErrInvalidStatus", err)
	}
}

func TestNotificationsEmitted(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	appt, err := fx.reserve(t, monday, "09:00")
	if err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if _, err := fx.svc.Reschedule(context.Background(), appt.ID, fx.patient, monday, mustTime(t, "11:00"), "moved"); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if _, err := fx.svc.UpdateStatus(context.Background(), appt.ID, StatusConfirmed, ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	want := []string{"created", "rescheduled", "status_changed"}
	fx.notifier.mu.Lock()
	got := append([]string(nil), fx.notifier.kinds...)
	fx.notifier.mu.Unlock()
	if len(got) != len(want) {
		t.Fatalf("events: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}

	if len(fx.repo.events) != 3 {
		t.Fatalf("event log rows: got %d, want 3", len(fx.repo.events))
	}
}

func TestDispatchReminders(t *testing.T) {
	fx := newFixture(t, mondayWeek(mustTime(t, "09:00"), mustTime(t, "17:00")))

	if _, err := fx.reserve(t, monday, "09:30"); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	sent, err := fx.svc.DispatchReminders(context.Background(), 48*time.Hour)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if sent != 1 {
		t.Fatalf("first run sent %d, want 1", sent)
	}

	sent, err = fx.svc.DispatchReminders(context.Background(), 48*time.Hour)
	if err != nil {
		t.Fatalf("second dispatch: %v", err)
	}
	if sent != 0 {
		t.Fatalf("second run sent %d, want 0", sent)
	}
}

func TestSetWorkWeek_Validation(t *testing.T) {
	fx := newFixture(t, nil)

	bad := WorkWeek{time.Monday: {Start: mustTime(t, "17:00"), End: mustTime(t, "09:00")}}
	if err := fx.svc.SetWorkWeek(context.Background(), fx.doctorID, bad); !errors.Is(err, ErrInvalidWorkWeek) {
		t.Fatalf("got %v, want ErrInvalidWorkWeek", err)
	}

	good := WorkWeek{time.Monday: {Start: mustTime(t, "09:00"), End: mustTime(t, "17:00")}}
	if err := fx.svc.SetWorkWeek(context.Background(), fx.doctorID, good); err != nil {
		t.Fatalf("set work week: %v", err)
	}
	week, err := fx.repo.GetWorkWeek(context.Background(), fx.doctorID)
	if err != nil {
		t.Fatalf("get work week: %v", err)
	}
	if _, ok := week[time.Monday]; !ok {
		t.Fatal("monday missing after replace")
	}
}

package api

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/digihealth/clinic-booking/internal/booking"
)

type BookAppointmentRequest struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
	Symptoms string `json:"symptoms"`
}

type RescheduleRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type WorkingHoursEntry struct {
	Weekday string `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

type AppointmentResponse struct {
	ID        uuid.UUID `json:"id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	PatientID uuid.UUID `json:"patient_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	Symptoms  string    `json:"symptoms,omitempty"`
}

type DoctorResponse struct {
	ID        uuid.UUID `json:"id"`
	FullName  string    `json:"full_name"`
	Specialty *string   `json:"specialty,omitempty"`
}

type HoursRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type WorkDaysResponse struct {
	WorkDays            []string              `json:"work_days"`
	Hours               map[string]HoursRange `json:"hours"`
	SlotMinutes         int                   `json:"slot_minutes"`
	MinAdvanceHours     int                   `json:"min_advance_hours"`
	AllowSameDayBooking bool                  `json:"allow_same_day_booking"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func appointmentResponse(a *booking.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:        a.ID,
		DoctorID:  a.DoctorID,
		PatientID: a.PatientID,
		Date:      a.Date.Format(dateLayout),
		Time:      a.Time.String(),
		Status:    string(a.Status),
		Notes:     a.Notes,
		Symptoms:  a.Symptoms,
	}
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// Weekday abbreviations used on the wire, Monday first.
var weekdayNames = map[time.Weekday]string{
	time.Monday:    "MON",
	time.Tuesday:   "TUE",
	time.Wednesday: "WED",
	time.Thursday:  "THU",
	time.Friday:    "FRI",
	time.Saturday:  "SAT",
	time.Sunday:    "SUN",
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

func parseWeekday(s string) (time.Weekday, error) {
	for day, name := range weekdayNames {
		if name == s {
			return day, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

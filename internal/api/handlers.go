package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/digihealth/clinic-booking/internal/booking"
	"github.com/digihealth/clinic-booking/internal/identity"
)

func listDoctorsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.ListApprovedDoctors(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			resp = append(resp, DoctorResponse{ID: d.ID, FullName: d.FullName, Specialty: d.Specialty})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func availableSlotsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "doctorID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctorID must be a valid UUID")
			return
		}
		date, err := parseDate(r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		slots, err := svc.OpenSlotsFor(r.Context(), doctorID, date)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		out := make([]string, 0, len(slots))
		for _, t := range slots {
			out = append(out, t.String())
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func workDaysHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID, err := uuid.Parse(chi.URLParam(r, "doctorID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctorID must be a valid UUID")
			return
		}

		info, err := svc.WorkWeekFor(r.Context(), doctorID)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		resp := WorkDaysResponse{
			Hours:               make(map[string]HoursRange),
			SlotMinutes:         info.Policy.SlotMinutes,
			MinAdvanceHours:     info.Policy.MinAdvanceHours,
			AllowSameDayBooking: info.Policy.AllowSameDayBooking,
		}
		for _, day := range weekdayOrder {
			hours, ok := info.Week[day]
			if !ok {
				continue
			}
			name := weekdayNames[day]
			resp.WorkDays = append(resp.WorkDays, name)
			resp.Hours[name] = HoursRange{Start: hours.Start.String(), End: hours.End.String()}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func bookAppointmentHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireRole(w, r, identity.RolePatient)
		if !ok {
			return
		}

		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_doctor_id", "doctor_id must be a valid UUID")
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		slot, err := booking.ParseTimeOfDay(req.Time)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_time", "time must be HH:MM")
			return
		}

		appt, err := svc.Reserve(r.Context(), booking.ReserveRequest{
			DoctorID:  doctorID,
			PatientID: principal.UserID,
			Date:      date,
			Time:      slot,
			Reason:    req.Reason,
			Symptoms:  req.Symptoms,
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appointmentResponse(appt))
	}
}

func rescheduleHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireRole(w, r, identity.RolePatient)
		if !ok {
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req RescheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		date, err := parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}
		slot, err := booking.ParseTimeOfDay(req.Time)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_time", "time must be HH:MM")
			return
		}

		appt, err := svc.Reschedule(r.Context(), id, principal.UserID, date, slot, req.Reason)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentResponse(appt))
	}
}

func updateStatusHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := identity.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing principal")
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
			return
		}

		var req StatusUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		// Patients and doctors may only touch their own appointments.
		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}
		switch principal.Role {
		case identity.RolePatient:
			if appt.PatientID != principal.UserID {
				writeError(w, http.StatusForbidden, "forbidden", "appointment belongs to another patient")
				return
			}
		case identity.RoleDoctor:
			if appt.DoctorID != principal.UserID {
				writeError(w, http.StatusForbidden, "forbidden", "appointment belongs to another doctor")
				return
			}
		}

		updated, err := svc.UpdateStatus(r.Context(), id, booking.Status(req.Status), req.Reason)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, appointmentResponse(updated))
	}
}

func myAppointmentsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := identity.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing principal")
			return
		}

		var (
			appts []booking.Appointment
			err   error
		)
		switch principal.Role {
		case identity.RoleDoctor:
			appts, err = svc.ListForDoctor(r.Context(), principal.UserID)
		case identity.RolePatient:
			appts, err = svc.ListForPatient(r.Context(), principal.UserID)
		default:
			writeError(w, http.StatusForbidden, "forbidden", "admin has no own appointments")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := make([]AppointmentResponse, 0, len(appts))
		for i := range appts {
			resp = append(resp, appointmentResponse(&appts[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func setWorkingHoursHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		principal, ok := requireRole(w, r, identity.RoleDoctor)
		if !ok {
			return
		}

		var entries []WorkingHoursEntry
		if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		week := make(booking.WorkWeek, len(entries))
		for _, e := range entries {
			day, err := parseWeekday(e.Weekday)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_weekday", err.Error())
				return
			}
			start, err := booking.ParseTimeOfDay(e.Start)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_time", "start must be HH:MM")
				return
			}
			end, err := booking.ParseTimeOfDay(e.End)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_time", "end must be HH:MM")
				return
			}
			week[day] = booking.WorkingHours{Start: start, End: end}
		}

		if err := svc.SetWorkWeek(r.Context(), principal.UserID, week); err != nil {
			handleBookingError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func requireRole(w http.ResponseWriter, r *http.Request, role identity.Role) (identity.Principal, bool) {
	principal, ok := identity.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing principal")
		return identity.Principal{}, false
	}
	if principal.Role != role {
		writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
		return identity.Principal{}, false
	}
	return principal, true
}

// handleBookingError maps the booking rejection taxonomy onto HTTP codes.
func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, booking.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, booking.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, booking.ErrDoctorNotEligible):
		writeError(w, http.StatusForbidden, "doctor_not_eligible", err.Error())
	case errors.Is(err, booking.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, booking.ErrMaintenanceMode):
		writeError(w, http.StatusServiceUnavailable, "maintenance_mode", err.Error())
	case errors.Is(err, booking.ErrSameDayDisallowed):
		writeError(w, http.StatusBadRequest, "same_day_disallowed", err.Error())
	case errors.Is(err, booking.ErrTooSoon):
		writeError(w, http.StatusBadRequest, "too_soon", err.Error())
	case errors.Is(err, booking.ErrTooFarAhead):
		writeError(w, http.StatusBadRequest, "too_far_ahead", err.Error())
	case errors.Is(err, booking.ErrOutsideWorkingHours):
		writeError(w, http.StatusBadRequest, "outside_working_hours", err.Error())
	case errors.Is(err, booking.ErrUnalignedSlot):
		writeError(w, http.StatusBadRequest, "unaligned_slot", err.Error())
	case errors.Is(err, booking.ErrSlotTaken):
		writeError(w, http.StatusConflict, "slot_taken", err.Error())
	case errors.Is(err, booking.ErrTerminalStatus):
		writeError(w, http.StatusConflict, "terminal_status", err.Error())
	case errors.Is(err, booking.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, booking.ErrInvalidWorkWeek):
		writeError(w, http.StatusBadRequest, "invalid_working_hours", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

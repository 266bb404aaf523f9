package booking

import "time"

// OpenSlots computes the open slot start times for a doctor on a date.
// It is a pure function of its inputs and does no I/O; booked carries the
// times of all live (non-cancelled) appointments for that doctor and date,
// supplied by the caller. The result is ascending and finite.
func OpenSlots(week WorkWeek, pol Policy, booked map[TimeOfDay]bool, date, now time.Time) []TimeOfDay {
	if pol.MaintenanceMode {
		return nil
	}

	hours, ok := week[date.Weekday()]
	if !ok {
		return nil
	}
	start, end := hours.Start, hours.End

	if sameDate(date, now) {
		if !pol.AllowSameDayBooking {
			return nil
		}
		earliest := now.Add(time.Duration(pol.MinAdvanceHours) * time.Hour)
		if !sameDate(earliest, now) {
			// The advance window pushes past midnight; nothing is left today.
			return nil
		}
		et := roundUpToGrid(TimeOfDay(earliest.Hour()*60+earliest.Minute()), pol.SlotMinutes)
		if et > start {
			start = et
		}
	}

	start = roundUpToGrid(start, pol.SlotMinutes)

	var slots []TimeOfDay
	for t := start; t+TimeOfDay(pol.SlotMinutes) <= end; t += TimeOfDay(pol.SlotMinutes) {
		if !booked[t] {
			slots = append(slots, t)
		}
	}
	return slots
}

func roundUpToGrid(t TimeOfDay, slotMinutes int) TimeOfDay {
	rem := int(t) % slotMinutes
	if rem == 0 {
		return t
	}
	return t + TimeOfDay(slotMinutes-rem)
}

package booking

// Policy is the admin-configurable set of booking constraints. It is read
// fresh from the store on every operation, never cached across requests.
type Policy struct {
	SlotMinutes         int
	MinAdvanceHours     int
	MaxAdvanceDays      int
	AllowSameDayBooking bool
	AutoConfirm         bool
	MaintenanceMode     bool
}

// Defaults when the settings store has no record or a field is unset.
const (
	DefaultSlotMinutes     = 30
	DefaultMinAdvanceHours = 24
	DefaultMaxAdvanceDays  = 90
)

// PolicyRecord is the stored settings row. Nil pointers mean the field was
// never configured and the default applies.
type PolicyRecord struct {
	SlotMinutes         *int
	MinAdvanceHours     *int
	MaxAdvanceDays      *int
	AllowSameDayBooking *bool
	AutoConfirm         *bool
	MaintenanceMode     *bool
}

// ResolvePolicy fills a Policy from a stored record, substituting defaults
// for anything missing. A nil record is not an error; it yields the defaults.
func ResolvePolicy(rec *PolicyRecord) Policy {
	pol := Policy{
		SlotMinutes:         DefaultSlotMinutes,
		MinAdvanceHours:     DefaultMinAdvanceHours,
		MaxAdvanceDays:      DefaultMaxAdvanceDays,
		AllowSameDayBooking: true,
	}
	if rec == nil {
		return pol
	}
	if rec.SlotMinutes != nil && *rec.SlotMinutes > 0 {
		pol.SlotMinutes = *rec.SlotMinutes
	}
	if rec.MinAdvanceHours != nil && *rec.MinAdvanceHours >= 0 {
		pol.MinAdvanceHours = *rec.MinAdvanceHours
	}
	if rec.MaxAdvanceDays != nil && *rec.MaxAdvanceDays >= 0 {
		pol.MaxAdvanceDays = *rec.MaxAdvanceDays
	}
	if rec.AllowSameDayBooking != nil {
		pol.AllowSameDayBooking = *rec.AllowSameDayBooking
	}
	if rec.AutoConfirm != nil {
		pol.AutoConfirm = *rec.AutoConfirm
	}
	if rec.MaintenanceMode != nil {
		pol.MaintenanceMode = *rec.MaintenanceMode
	}
	return pol
}

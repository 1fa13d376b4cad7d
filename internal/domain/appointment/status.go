package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// InitialStatus is the only status the client ever writes. Every later
// change is made by the shop.
func InitialStatus() Status {
	return StatusPending
}

// IsActive reports whether the appointment still occupies its slot.
func IsActive(s Status) bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsPaid treats confirmed appointments as paid; there is no separate
// payment capture step.
func IsPaid(s Status) bool {
	return s == StatusConfirmed
}

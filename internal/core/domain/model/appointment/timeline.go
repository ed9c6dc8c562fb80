package appointment

import "time"

// Timeline is the sparse map of lifecycle milestones to timestamps. A field
// is nil until the corresponding status is reached. ActualDurationMinutes is
// derived on delivery when a pickup timestamp exists.
type Timeline struct {
	AssignedAt              *time.Time
	PickedUpAt              *time.Time
	VerificationStartedAt   *time.Time
	VerificationCompletedAt *time.Time
	DeliveredAt             *time.Time
	CancelledAt             *time.Time
	ActualDurationMinutes   *int
}

// mark records the milestone for the status reached at the given time.
// Reaching delivered derives the actual duration from the pickup milestone.
func (t *Timeline) mark(status Status, at time.Time) {
	switch status {
	case StatusAssigned:
		t.AssignedAt = &at
	case StatusPickedUp:
		t.PickedUpAt = &at
	case StatusInVerification:
		t.VerificationStartedAt = &at
	case StatusCompleted:
		t.VerificationCompletedAt = &at
	case StatusDelivered:
		t.DeliveredAt = &at
		if t.PickedUpAt != nil {
			minutes := int(at.Sub(*t.PickedUpAt).Minutes())
			t.ActualDurationMinutes = &minutes
		}
	case StatusCancelled:
		t.CancelledAt = &at
	case StatusPending, StatusDriverEnroute:
		// no milestone
	}
}

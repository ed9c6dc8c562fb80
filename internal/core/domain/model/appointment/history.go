package appointment

import "time"

// StatusChange is one entry of the appointment's audit trail. Entries are
// strictly ordered by the order transitions were accepted; the aggregate's
// current status always equals the last entry.
type StatusChange struct {
	Status Status
	At     time.Time
	Note   string
	Actor  Actor
}

// Cancellation records why, by whom and when an appointment was cancelled.
// Present only on cancelled appointments.
type Cancellation struct {
	Reason string
	Actor  Actor
	At     time.Time
}

// Rating is a one-shot score with comment, given by the client about the
// service or by the driver about the client, only after delivery.
type Rating struct {
	Score   float64
	Comment string
	At      time.Time
}

package appointment

import (
	"errors"
	"fmt"
	"time"

	"verimoto/internal/pkg/errs"
	"verimoto/internal/pkg/guard"
)

// timeWindowLayout is the layout for the pickup window bounds ("09:30").
const timeWindowLayout = "15:04"

// ErrScheduleIsNotConstructed is returned when using an improperly
// initialized Schedule. Schedules must be created via NewSchedule.
var ErrScheduleIsNotConstructed = errs.NewValueIsRequiredError(
	"schedule must be created via NewSchedule constructor")

// Schedule is the requested date plus the pickup time window of an
// appointment. Immutable value object.
type Schedule struct { //nolint:recvcheck //using for validation
	date        time.Time
	windowStart string
	windowEnd   string
	guard       guard.ConstructorGuard
}

// NewSchedule creates a Schedule for the given date and "HH:MM" window
// bounds. The date must be set and the window start must precede its end.
func NewSchedule(date time.Time, windowStart, windowEnd string) (Schedule, error) {
	schedule := Schedule{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		schedule.setDate(date),
		schedule.setWindow(windowStart, windowEnd),
	); err != nil {
		return Schedule{}, err
	}

	return schedule, nil
}

// Validate checks that the Schedule was created via NewSchedule.
func (s Schedule) Validate() error {
	return s.guard.Validate(ErrScheduleIsNotConstructed)
}

// Date returns the requested appointment date.
func (s Schedule) Date() time.Time {
	return s.date
}

// WindowStart returns the "HH:MM" start of the pickup window.
func (s Schedule) WindowStart() string {
	return s.windowStart
}

// WindowEnd returns the "HH:MM" end of the pickup window.
func (s Schedule) WindowEnd() string {
	return s.windowEnd
}

func (s *Schedule) setDate(date time.Time) error {
	if date.IsZero() {
		return errs.NewValueIsRequiredError("date")
	}
	s.date = date
	return nil
}

func (s *Schedule) setWindow(start, end string) error {
	startAt, err := time.Parse(timeWindowLayout, start)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("windowStart", err)
	}
	endAt, err := time.Parse(timeWindowLayout, end)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("windowEnd", err)
	}
	if !startAt.Before(endAt) {
		return errs.NewValueIsInvalidErrorWithCause("timeWindow",
			fmt.Errorf("window start %s is not before end %s", start, end))
	}

	s.windowStart = start
	s.windowEnd = end
	return nil
}

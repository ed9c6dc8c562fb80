package appointment

import (
	"errors"
	"time"

	"verimoto/internal/pkg/errs"
)

// ErrServiceAlreadyCompleted is returned when completing a service item that
// has already been marked completed.
var ErrServiceAlreadyCompleted = errors.New("service item is already completed")

// Evidence is a photo or document attached to a completed service item.
type Evidence struct {
	URL         string
	Description string
	At          time.Time
}

// ServiceItem is an additional billable service on an appointment, beyond
// the mandatory verification itself. Items are completed at most once; the
// driver attaches evidence on completion.
type ServiceItem struct {
	name        string
	price       float64
	completed   bool
	completedAt *time.Time
	evidence    []Evidence
}

// NewServiceItem creates a pending service item with the given name and
// price. Price may be zero but not negative.
func NewServiceItem(name string, price float64) (*ServiceItem, error) {
	if name == "" {
		return nil, errs.NewValueIsRequiredError("serviceName")
	}
	if price < 0 {
		return nil, errs.NewValueIsInvalidError("servicePrice")
	}

	return &ServiceItem{name: name, price: price}, nil
}

// RestoreServiceItem reconstructs a service item from persistence.
func RestoreServiceItem(
	name string,
	price float64,
	completed bool,
	completedAt *time.Time,
	evidence []Evidence,
) (*ServiceItem, error) {
	item, err := NewServiceItem(name, price)
	if err != nil {
		return nil, err
	}

	item.completed = completed
	item.completedAt = completedAt
	item.evidence = append(item.evidence, evidence...)
	return item, nil
}

// Name returns the service name.
func (s *ServiceItem) Name() string { return s.name }

// Price returns the service price.
func (s *ServiceItem) Price() float64 { return s.price }

// Completed reports whether the service has been performed.
func (s *ServiceItem) Completed() bool { return s.completed }

// CompletedAt returns when the service was performed, or nil.
func (s *ServiceItem) CompletedAt() *time.Time { return s.completedAt }

// Evidence returns the evidence records attached on completion.
func (s *ServiceItem) Evidence() []Evidence {
	out := make([]Evidence, len(s.evidence))
	copy(out, s.evidence)
	return out
}

// Complete marks the service as performed at the given time and attaches the
// evidence. Returns ErrServiceAlreadyCompleted on a repeat call.
func (s *ServiceItem) Complete(at time.Time, evidence ...Evidence) error {
	if s.completed {
		return ErrServiceAlreadyCompleted
	}

	s.completed = true
	s.completedAt = &at
	s.evidence = append(s.evidence, evidence...)
	return nil
}

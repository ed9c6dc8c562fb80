package commands

import (
	"errors"
	"time"

	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/pkg/guard"
)

var ErrReportDriverLocationCommandIsNotConstructed = errors.New(
	"ReportDriverLocationCommand must be created via NewReportDriverLocationCommand constructor",
)

// ReportDriverLocationCommand represents a driver's periodic location report.
// Candidate search ranks against the last reported location.
type ReportDriverLocationCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	point    kernel.GeoPoint
	at       time.Time

	guard guard.ConstructorGuard
}

// NewReportDriverLocationCommand creates a location report command.
func NewReportDriverLocationCommand(
	driverID kernel.UUID,
	point kernel.GeoPoint,
	at time.Time,
) (ReportDriverLocationCommand, error) {
	cmd := ReportDriverLocationCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDriverID(driverID),
		cmd.setPoint(point),
	); err != nil {
		return ReportDriverLocationCommand{}, err
	}

	cmd.at = at
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportDriverLocationCommandIsNotConstructed)
}

// DriverID returns the reporting driver.
func (c ReportDriverLocationCommand) DriverID() kernel.UUID { return c.driverID }

// Point returns the reported location.
func (c ReportDriverLocationCommand) Point() kernel.GeoPoint { return c.point }

// At returns when the location was recorded.
func (c ReportDriverLocationCommand) At() time.Time { return c.at }

func (c *ReportDriverLocationCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *ReportDriverLocationCommand) setPoint(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}

	c.point = point
	return nil
}

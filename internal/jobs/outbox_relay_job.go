package jobs

import (
	"context"
	"log/slog"

	"verimoto/internal/core/domain/model/kernel"
	"verimoto/internal/core/ports"

	"github.com/robfig/cron/v3"
)

const relayBatchSize = 100

// OutboxRelayJob drains committed-but-unpublished events to the publisher.
// Runs every second; a publish failure leaves the event unpublished so the
// next tick retries it.
type OutboxRelayJob struct {
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewOutboxRelayJob creates a new relay job. The outbox repository must be
// bound to the main database connection, not a unit of work.
func NewOutboxRelayJob(outbox ports.OutboxRepository, publisher ports.EventPublisher,
	logger *slog.Logger) *OutboxRelayJob {
	return &OutboxRelayJob{
		outbox:    outbox,
		publisher: publisher,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "outbox_relay_job"),
	}
}

// Start begins the relay job to run every second.
func (j *OutboxRelayJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()
		if err := j.relay(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox relay tick failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started (running every second)")
	return nil
}

// Stop stops the relay job.
func (j *OutboxRelayJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

// relay publishes one batch. Events that fail to publish stay in the outbox;
// the ones that went out are marked so they are not sent twice.
func (j *OutboxRelayJob) relay(ctx context.Context) error {
	events, err := j.outbox.FetchUnpublished(ctx, relayBatchSize)
	if err != nil {
		return err
	}

	published := make([]kernel.UUID, 0, len(events))
	for _, event := range events {
		if publishErr := j.publisher.Publish(ctx, event); publishErr != nil {
			j.logger.WarnContext(ctx, "Event publish failed, will retry",
				"eventId", event.ID.String(), "kind", string(event.Kind), "error", publishErr)
			continue
		}
		published = append(published, event.ID)
	}

	if len(published) == 0 {
		return nil
	}

	return j.outbox.MarkPublished(ctx, published...)
}

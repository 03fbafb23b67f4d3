package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

type ExpireStalePaymentsHandler interface {
	Handle(ctx context.Context, cmd commands.ExpireStalePaymentsCommand) (int, error)
}

// StalePaymentJob moves Prepaid orders whose payment never arrived to
// payment_failed.
type StalePaymentJob struct {
	handler ExpireStalePaymentsHandler
	spec    string
	window  time.Duration
	limit   int
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewStalePaymentJob(
	handler ExpireStalePaymentsHandler,
	spec string,
	window time.Duration,
	limit int,
	logger *slog.Logger,
) *StalePaymentJob {
	return &StalePaymentJob{
		handler: handler,
		spec:    spec,
		window:  window,
		limit:   limit,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "stale_payment_job"),
	}
}

// Start schedules the sweep on the configured cron spec.
func (j *StalePaymentJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale payment job started",
		"spec", j.spec, "window", j.window.String())
	return nil
}

// Run performs one sweep.
func (j *StalePaymentJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cmd, err := commands.NewExpireStalePaymentsCommand(j.window, j.limit)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale payment job misconfigured", "error", err)
		return
	}

	expired, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale payment job failed", "expired", expired, "error", err)
		return
	}
	if expired > 0 {
		j.logger.InfoContext(ctx, "Expired stale payments", "expired", expired)
	}
}

// Stop waits for a running sweep to finish.
func (j *StalePaymentJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stale payment job stopped")
}

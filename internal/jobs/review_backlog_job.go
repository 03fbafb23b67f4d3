package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/application/usecases/queries"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

type ReviewQueueHandler interface {
	Handle(ctx context.Context, query queries.GetReviewQueueQuery) (queries.ReviewQueue, error)
}

// ReviewBacklogJob publishes the number of orders waiting for manual review
// to the review backlog gauge.
type ReviewBacklogJob struct {
	handler ReviewQueueHandler
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewReviewBacklogJob(handler ReviewQueueHandler, spec string, logger *slog.Logger) *ReviewBacklogJob {
	return &ReviewBacklogJob{
		handler: handler,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "review_backlog_job"),
	}
}

func (j *ReviewBacklogJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Review backlog job started", "spec", j.spec)
	return nil
}

// Run refreshes the gauge once. The gauge keeps its last value on errors.
func (j *ReviewBacklogJob) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	query, err := queries.NewGetReviewQueueQuery(0)
	if err != nil {
		j.logger.ErrorContext(ctx, "Review backlog job misconfigured", "error", err)
		return
	}

	queue, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Review backlog job failed", "error", err)
		return
	}
	metrics.ReviewBacklog.Set(float64(queue.Total))
}

func (j *ReviewBacklogJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Review backlog job stopped")
}

package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"waiter/internal/models"
	"waiter/pkg/logger"

	"github.com/go-co-op/gocron/v2"
)

const PurgePaidOrdersJob = "paid-order-purge"

// purgeTimeout bounds a single purge run.
const purgeTimeout = 5 * time.Minute

// PaidOrderPurger is the slice of the order service the purge job needs.
type PaidOrderPurger interface {
	DeletePaidOrders(ctx context.Context, dateRange models.DateRange) (int64, error)
}

// JobScheduler runs the periodic maintenance jobs.
type JobScheduler struct {
	scheduler     gocron.Scheduler
	purger        PaidOrderPurger
	retentionDays int
	interval      time.Duration
	log           *logger.Logger
	now           func() time.Time
	jobs          map[string]gocron.Job
	mu            sync.RWMutex
}

// NewJobScheduler creates the scheduler and registers its jobs. The purge job
// is only registered when retentionDays is positive.
func NewJobScheduler(purger PaidOrderPurger, retentionDays int, interval time.Duration, log *logger.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		purger:        purger,
		retentionDays: retentionDays,
		interval:      interval,
		log:           log.WithComponent("job_scheduler"),
		now:           time.Now,
		jobs:          make(map[string]gocron.Job),
	}

	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler", "jobs", js.JobNames())
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs in name order.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (js *JobScheduler) registerJobs() error {
	if js.retentionDays <= 0 {
		js.log.Info("paid order purge disabled")
		return nil
	}
	if js.interval <= 0 {
		return fmt.Errorf("purge interval must be positive, got %s", js.interval)
	}

	purgeJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.purgePaidOrders, context.Background()),
		gocron.WithName(PurgePaidOrdersJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("create purge job: %w", err)
	}

	js.mu.Lock()
	js.jobs[PurgePaidOrdersJob] = purgeJob
	js.mu.Unlock()

	js.log.Info("registered paid order purge",
		"interval", js.interval.String(),
		"retention_days", js.retentionDays,
	)
	return nil
}

// PurgeRange is the window the purge job clears: every day from the start of
// the calendar up to and including today minus the retention period.
func (js *JobScheduler) PurgeRange() models.DateRange {
	cutoff := models.NewDate(js.now()).AddDate(0, 0, -js.retentionDays)
	return models.DateRange{
		Start: models.NewDate(time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)),
		End:   models.NewDate(cutoff),
	}
}

func (js *JobScheduler) purgePaidOrders(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()

	dateRange := js.PurgeRange()
	deleted, err := js.purger.DeletePaidOrders(ctx, dateRange)
	if err != nil {
		js.log.Error("paid order purge failed", "end_date", dateRange.End.String(), "error", err)
		return
	}
	js.log.Info("paid order purge finished", "end_date", dateRange.End.String(), "orders_deleted", deleted)
}

package jobs

import (
	"context"
	"time"

	"Wildography/models"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PurgeResetTokensSpec runs the reset-token purge at the top of every hour.
const PurgeResetTokensSpec = "0 0 * * * *"

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// CronJobBuilder adapts a Job to cron, logging each run and its duration.
type CronJobBuilder struct {
	log     *zap.Logger
	timeout time.Duration
}

func NewCronJobBuilder(log *zap.Logger, timeout time.Duration) *CronJobBuilder {
	return &CronJobBuilder{log: log, timeout: timeout}
}

func (b *CronJobBuilder) Build(job Job) cron.Job {
	name := job.Name()
	return cron.FuncJob(func() {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		err := job.Run(ctx)
		fields := []zap.Field{zap.String("job", name), zap.Duration("duration", time.Since(start))}
		if err != nil {
			b.log.Error("job failed", append(fields, zap.Error(err))...)
			return
		}
		b.log.Debug("job finished", fields...)
	})
}

// PurgeResetTokensJob deletes password reset rows that have expired.
type PurgeResetTokensJob struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPurgeResetTokensJob(db *gorm.DB) *PurgeResetTokensJob {
	return &PurgeResetTokensJob{db: db, now: time.Now}
}

func (j *PurgeResetTokensJob) Name() string {
	return "purge_reset_tokens"
}

func (j *PurgeResetTokensJob) Run(ctx context.Context) error {
	_, err := (&models.ResetPassword{}).DeleteExpired(j.db.WithContext(ctx), j.now())
	return err
}

// InitJobs registers every scheduled job. The caller starts and stops the scheduler.
func InitJobs(db *gorm.DB, log *zap.Logger) (*cron.Cron, error) {
	scheduler := cron.New(cron.WithSeconds())
	builder := NewCronJobBuilder(log, time.Minute)
	if _, err := scheduler.AddJob(PurgeResetTokensSpec, builder.Build(NewPurgeResetTokensJob(db))); err != nil {
		return nil, err
	}
	return scheduler, nil
}

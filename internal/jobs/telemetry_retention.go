// File: internal/jobs/telemetry_retention.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/Ninano9/camera/internal/config"
	"github.com/Ninano9/camera/internal/telemetry"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TelemetryRetentionJob periodically purges telemetry older than the
// configured retention window.
type TelemetryRetentionJob struct {
	telemetryService telemetry.Service
	logger           *zap.Logger
	cfg              *config.Config
	cronScheduler    *cron.Cron
}

// NewTelemetryRetentionJob creates a new TelemetryRetentionJob.
func NewTelemetryRetentionJob(
	telemetryService telemetry.Service,
	logger *zap.Logger,
	cfg *config.Config,
) *TelemetryRetentionJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &TelemetryRetentionJob{
		telemetryService: telemetryService,
		logger:           logger.Named("TelemetryRetentionJob"),
		cfg:              cfg,
		cronScheduler:    scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *TelemetryRetentionJob) SetupAndStart() error {
	jobSpec := j.cfg.TelemetryRetentionJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Telemetry retention schedule not defined (TELEMETRY_RETENTION_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule telemetry retention job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Telemetry retention job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *TelemetryRetentionJob) runJob() {
	j.logger.Info("Starting telemetry retention run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	deleted, err := j.telemetryService.Purge(ctx, j.cfg.TelemetryRetentionDays)
	if err != nil {
		j.logger.Error("Telemetry retention run failed", zap.Error(err))
	} else {
		j.logger.Info("Telemetry retention run completed", zap.Int64("records_deleted", deleted))
	}
}

// Stop gracefully stops the cron scheduler.
func (j *TelemetryRetentionJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping telemetry retention scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Telemetry retention scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Telemetry retention scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger adapts a zap.Logger to the cron.Logger interface.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	cl.zl.Info(msg, cl.parseKeysAndValues(keysAndValues...)...)
}

func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}

package jobs

import (
	"os"
	"strconv"
	"time"

	"arena-app/database"
	"arena-app/logger"
	"arena-app/services"
	"arena-app/task"

	"github.com/go-co-op/gocron/v2"
)

// Start wires the periodic maintenance jobs: the fight-status
// normalization repair and the expired-session purge. Returns the
// scheduler so main can shut it down.
func Start() gocron.Scheduler {
	s, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("failed to create scheduler: %v", err)
	}

	interval := 5 * time.Minute
	if v := os.Getenv("NORMALIZE_INTERVAL_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			interval = time.Duration(secs) * time.Second
		}
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(runNormalization),
	)
	if err != nil {
		logger.Fatal("failed to register normalization job: %v", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(time.Hour),
		gocron.NewTask(task.PurgeExpiredSessions),
	)
	if err != nil {
		logger.Fatal("failed to register session purge job: %v", err)
	}

	s.Start()
	logger.Info("maintenance scheduler started, normalize interval %s", interval)
	return s
}

func runNormalization() {
	count, err := services.NormalizeFightStatuses(database.DB)
	if err != nil {
		logger.Error("fight status normalization failed: %v", err)
		return
	}
	if count > 0 {
		logger.Info("normalized %d stale fights", count)
	}
}

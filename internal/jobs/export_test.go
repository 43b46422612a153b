package jobs

import (
	"time"

	"github.com/robfig/cron/v3"
)

func (j *ExceptionMonitorJob) NextSchedule(interval time.Duration, err error) cron.Schedule {
	return j.nextSchedule(interval, err)
}

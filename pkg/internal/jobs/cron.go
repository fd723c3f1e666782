// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yeisme/filevault/pkg/internal/indexer"
	"github.com/yeisme/filevault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：每天在 index.daily_at 指定的时刻
// 触发一轮全量索引遍历.触发是投递式的：上一轮还没跑完时本次静默跳过.
func RegisterCronJobs(sched *scheduler.Scheduler, ix *indexer.Indexer, dailyAt string) error {
	if sched == nil {
		return fmt.Errorf("scheduler is nil")
	}

	if ix == nil {
		return fmt.Errorf("indexer is nil")
	}

	cronExpr, err := dailyAtToCron(dailyAt)
	if err != nil {
		return err
	}

	return sched.AddCron(JobIndexFullWalk, cronExpr, func(ctx context.Context) {
		ix.TriggerNow()
	}, context.Background())
}

// dailyAtToCron 把 "HH:MM" 转成每日一次的 cron 表达式.
func dailyAtToCron(dailyAt string) (string, error) {
	parts := strings.SplitN(dailyAt, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid daily_at %q, want HH:MM", dailyAt)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid daily_at hour %q", parts[0])
	}

	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid daily_at minute %q", parts[1])
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

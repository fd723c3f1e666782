// Package scheduler 提供定时任务调度功能，使用 gocron/v2 库.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yeisme/filevault/pkg/log"
)

const (
	// updateInterval 定义状态更新间隔.
	updateInterval = 10 * time.Second
)

// JobStatus 表示任务的状态类型.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled" // 任务已调度
	StatusRunning   JobStatus = "running"   // 任务正在运行
	StatusError     JobStatus = "error"     // 任务出错
)

// JobInfo 表示定时任务的信息，用于可视化和监控.
type JobInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CronExpr  string    `json:"cron_expr"`
	NextRun   time.Time `json:"next_run"`
	LastRun   time.Time `json:"last_run"`
	Status    JobStatus `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Scheduler 是定时任务调度器的实现.
type Scheduler struct {
	scheduler gocron.Scheduler
	jobs      map[string]gocron.Job // 以任务名称为键
	jobInfos  map[string]*JobInfo   // 以任务名称为键
	mu        sync.RWMutex
	logger    *zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler 创建一个新的 Scheduler 实例.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	scheduler := &Scheduler{
		scheduler: s,
		jobs:      make(map[string]gocron.Job),
		jobInfos:  make(map[string]*JobInfo),
		logger:    log.Logger(),
		ctx:       ctx,
		cancel:    cancel,
	}

	// 启动后台任务状态更新器
	go scheduler.jobStatusUpdater()

	return scheduler, nil
}

// AddCron 添加一个基于 cron 表达式的定时任务.
func (s *Scheduler) AddCron(name string, cronExpr string, job func(ctx context.Context), ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job with name %s already exists", name)
	}

	// 创建包装函数以捕获执行状态
	wrappedJob := func(ctx context.Context) {
		s.updateJobStatus(name, StatusRunning, "")

		defer func() {
			if r := recover(); r != nil {
				errMsg := fmt.Sprintf("panic in job: %v", r)
				s.updateJobStatus(name, StatusError, errMsg)
				s.logger.Error().Str("job", name).Interface("panic", r).Msg("Job panicked")
			}
		}()

		// 执行实际任务
		job(ctx)

		s.updateJobStatus(name, StatusScheduled, "")
	}

	j, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(wrappedJob, ctx),
		gocron.WithName(name),
		gocron.WithEventListeners(
			gocron.AfterJobRuns(func(jobID uuid.UUID, jobName string) {
				s.mu.Lock()
				defer s.mu.Unlock()

				if info, exists := s.jobInfos[jobName]; exists {
					info.LastRun = time.Now()
					info.UpdatedAt = time.Now()
				}
			}),
		),
	)
	if err != nil {
		return err
	}

	now := time.Now()
	nextRun, _ := j.NextRun()

	s.jobs[name] = j
	s.jobInfos[name] = &JobInfo{
		ID:        j.ID().String(),
		Name:      name,
		CronExpr:  cronExpr,
		NextRun:   nextRun,
		Status:    StatusScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.logger.Info().Str("job", name).Str("cron", cronExpr).Msg("Added cron job")

	return nil
}

// RemoveJobByName 通过名称移除任务.移除调度不会打断已经开始执行的任务.
func (s *Scheduler) RemoveJobByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job with name %s does not exist", name)
	}

	if err := s.scheduler.RemoveJob(job.ID()); err != nil {
		return err
	}

	delete(s.jobs, name)
	delete(s.jobInfos, name)

	s.logger.Info().Str("job", name).Msg("Removed job")

	return nil
}

// GetJobInfoByName 通过名称获取任务信息.
func (s *Scheduler) GetJobInfoByName(name string) (*JobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, exists := s.jobInfos[name]
	if !exists {
		return nil, fmt.Errorf("job with name %s does not exist", name)
	}

	return info, nil
}

// GetJobInfos 返回所有定时任务的信息，用于可视化和监控.
func (s *Scheduler) GetJobInfos() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]JobInfo, 0, len(s.jobInfos))
	for _, info := range s.jobInfos {
		jobs = append(jobs, *info)
	}

	return jobs
}

// Start 启动调度器.
func (s *Scheduler) Start() {
	s.logger.Info().Msg("Starting scheduler")
	s.scheduler.Start()
}

// Stop 停止调度器.
func (s *Scheduler) Stop() error {
	s.logger.Info().Msg("Stopping scheduler")
	s.cancel()

	return s.scheduler.Shutdown()
}

// jobStatusUpdater 定期更新任务状态.
func (s *Scheduler) jobStatusUpdater() {
	ticker := time.NewTicker(updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.updateAllJobStatuses()
		}
	}
}

// updateAllJobStatuses 更新所有任务的状态信息.
func (s *Scheduler) updateAllJobStatuses() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, job := range s.jobs {
		info := s.jobInfos[name]
		if info == nil {
			continue
		}

		if nextRun, err := job.NextRun(); err == nil {
			info.NextRun = nextRun
		}

		if lastRun, err := job.LastRun(); err == nil {
			info.LastRun = lastRun
		}

		info.UpdatedAt = time.Now()
	}
}

// updateJobStatus 更新任务状态.
func (s *Scheduler) updateJobStatus(name string, status JobStatus, errorMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if info, exists := s.jobInfos[name]; exists {
		info.Status = status
		info.Error = errorMsg
		info.UpdatedAt = time.Now()
	}
}

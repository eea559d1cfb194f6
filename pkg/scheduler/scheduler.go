// Package scheduler 基于 gocron/v2 的定时任务调度，记录每个任务的运行状态供接口查询.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yeisme/videocatalog/pkg/log"
	"github.com/yeisme/videocatalog/pkg/metrics"
)

// JobStatus 任务状态.
type JobStatus string

const (
	StatusScheduled JobStatus = "scheduled" // 等待下次触发
	StatusRunning   JobStatus = "running"   // 正在执行
	StatusError     JobStatus = "error"     // 上次执行失败
)

// ErrJobNotFound 任务名称不存在.
var ErrJobNotFound = errors.New("job not found")

// JobFunc 任务函数，ctx 在调度器关闭时取消.
type JobFunc func(ctx context.Context) error

// JobInfo 任务信息，用于接口展示与监控.
type JobInfo struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	CronExpr    string    `json:"cron_expr"`
	NextRun     time.Time `json:"next_run"`
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	Status      JobStatus `json:"status"`
	Error       string    `json:"error,omitempty"`
	Runs        int64     `json:"runs"`
	CreatedAt   time.Time `json:"created_at"`
}

type entry struct {
	job  gocron.Job
	info JobInfo
}

// Scheduler 定时任务调度器.
type Scheduler struct {
	scheduler gocron.Scheduler
	mu        sync.RWMutex
	entries   map[string]*entry
	logger    zerolog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewScheduler 创建调度器，需要调用 Start 才会开始触发.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		scheduler: s,
		entries:   make(map[string]*entry),
		logger:    log.Component("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// AddCron 以 cron 表达式（5 段）注册任务. 同名任务只能注册一次，上一次未结束时跳过本次触发.
func (s *Scheduler) AddCron(name, cronExpr string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	j, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func(ctx context.Context) error { return fn(ctx) }, s.ctx),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.BeforeJobRuns(func(_ uuid.UUID, jobName string) {
				s.mark(jobName, StatusRunning, nil)
			}),
			gocron.AfterJobRuns(func(_ uuid.UUID, jobName string) {
				s.mark(jobName, StatusScheduled, nil)
				metrics.JobRuns.WithLabelValues(jobName, "ok").Inc()
			}),
			gocron.AfterJobRunsWithError(func(_ uuid.UUID, jobName string, err error) {
				s.mark(jobName, StatusError, err)
				metrics.JobRuns.WithLabelValues(jobName, "error").Inc()
				s.logger.Error().Err(err).Str("job", jobName).Msg("job failed")
			}),
			gocron.AfterJobRunsWithPanic(func(_ uuid.UUID, jobName string, recovered any) {
				s.mark(jobName, StatusError, fmt.Errorf("panic: %v", recovered))
				metrics.JobRuns.WithLabelValues(jobName, "panic").Inc()
				s.logger.Error().Str("job", jobName).Interface("panic", recovered).Msg("job panicked")
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	s.entries[name] = &entry{
		job: j,
		info: JobInfo{
			ID:        j.ID().String(),
			Name:      name,
			CronExpr:  cronExpr,
			Status:    StatusScheduled,
			CreatedAt: time.Now(),
		},
	}

	s.logger.Info().Str("job", name).Str("cron", cronExpr).Msg("added cron job")

	return nil
}

func (s *Scheduler) mark(name string, status JobStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return
	}

	now := time.Now()
	e.info.Status = status

	switch status {
	case StatusRunning:
		e.info.LastRun = now
		e.info.Runs++
	case StatusScheduled:
		e.info.LastSuccess = now
		e.info.Error = ""
	case StatusError:
		e.info.Error = err.Error()
	}
}

// RunNow 立即触发一次指定任务，不影响原有计划.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	e, ok := s.entries[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return e.job.RunNow()
}

// RemoveJobByName 通过名称移除任务.
func (s *Scheduler) RemoveJobByName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	if err := s.scheduler.RemoveJob(e.job.ID()); err != nil {
		return err
	}

	delete(s.entries, name)
	s.logger.Info().Str("job", name).Msg("removed job")

	return nil
}

// RemoveJob 通过任务 ID 移除任务.
func (s *Scheduler) RemoveJob(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, e := range s.entries {
		if e.job.ID() == id {
			delete(s.entries, name)
			break
		}
	}

	return s.scheduler.RemoveJob(id)
}

// GetJobInfoByName 返回指定任务的当前信息.
func (s *Scheduler) GetJobInfoByName(name string) (JobInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[name]
	if !ok {
		return JobInfo{}, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	return snapshot(e), nil
}

// GetJobInfos 返回全部任务信息，按名称排序.
func (s *Scheduler) GetJobInfos() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobInfo, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, snapshot(e))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return out
}

func snapshot(e *entry) JobInfo {
	info := e.info
	if next, err := e.job.NextRun(); err == nil {
		info.NextRun = next
	}

	return info
}

// Start 启动调度器.
func (s *Scheduler) Start() {
	s.logger.Info().Int("jobs", len(s.entries)).Msg("starting scheduler")
	s.scheduler.Start()
}

// StopJobs 停止全部任务的触发，调度器本身保留.
func (s *Scheduler) StopJobs() error {
	return s.scheduler.StopJobs()
}

// JobsWaitingInQueue 等待执行的任务数.
func (s *Scheduler) JobsWaitingInQueue() int {
	return s.scheduler.JobsWaitingInQueue()
}

// Shutdown 取消任务 context 并关闭调度器，等待运行中的任务结束.
func (s *Scheduler) Shutdown() error {
	s.logger.Info().Msg("stopping scheduler")
	s.cancel()

	return s.scheduler.Shutdown()
}

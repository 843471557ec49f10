/*
 * @module service/scheduler/validation_scheduler
 * @description 定时校验调度器：按cron表达式周期性清扫提交目录并执行规则目录校验
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/validation_scheduler_req.md
 * @stateFlow 启动cron -> 到期触发 -> 分布式锁保护 -> 执行清扫
 * @rules cron表达式含秒字段；配置了分布式锁时同一时刻仅一个副本执行清扫
 * @dependencies github.com/robfig/cron/v3, service/distributed_lock
 * @refs service/init.go, service/validation_service.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"ibs-validation-service/service/distributed_lock"
)

// sweepLockKey 清扫任务的分布式锁键
const sweepLockKey = "submission_sweep"

// sweepLockTTL 清扫锁的过期时间，覆盖大体量提交的校验耗时
const sweepLockTTL = 10 * time.Minute

// SweepFunc 一次提交目录清扫的执行函数
type SweepFunc func(ctx context.Context) error

// ValidationScheduler 定时校验调度器
type ValidationScheduler struct {
	cron            *cron.Cron
	spec            string
	sweep           SweepFunc
	distributedLock distributed_lock.DistributedLock
	ctx             context.Context
	cancel          context.CancelFunc
	started         bool
}

// NewValidationScheduler 创建调度器
// spec为6字段cron表达式（含秒），sweep为清扫执行函数
func NewValidationScheduler(spec string, sweep SweepFunc) *ValidationScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &ValidationScheduler{
		cron:   cron.New(cron.WithSeconds()),
		spec:   spec,
		sweep:  sweep,
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetDistributedLock 设置分布式锁
func (s *ValidationScheduler) SetDistributedLock(lock distributed_lock.DistributedLock) {
	s.distributedLock = lock
	if lock != nil {
		slog.Info("定时校验调度器已启用分布式锁")
	}
}

// Start 启动调度器
func (s *ValidationScheduler) Start() error {
	if s.started {
		return fmt.Errorf("调度器已经启动")
	}
	if _, err := s.cron.AddFunc(s.spec, s.runSweep); err != nil {
		return fmt.Errorf("注册定时校验任务失败: %w", err)
	}
	s.cron.Start()
	s.started = true
	slog.Info("定时校验调度器启动完成", "cron", s.spec)
	return nil
}

// Stop 停止调度器
func (s *ValidationScheduler) Stop() {
	if !s.started {
		return
	}
	slog.Info("停止定时校验调度器")
	s.cancel()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.started = false
}

// runSweep 执行一次清扫，配置了分布式锁时在锁保护下执行
func (s *ValidationScheduler) runSweep() {
	started := time.Now()
	run := func() error {
		return s.sweep(s.ctx)
	}

	var err error
	if s.distributedLock != nil {
		err = distributed_lock.ExecuteWithLock(s.ctx, s.distributedLock, sweepLockKey, sweepLockTTL, run)
	} else {
		err = run()
	}

	if err != nil {
		slog.Error("定时校验清扫失败", "error", err, "duration", time.Since(started))
		return
	}
	slog.Info("定时校验清扫完成", "duration", time.Since(started))
}

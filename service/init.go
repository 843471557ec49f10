/*
 * @module service/init
 * @description 服务初始化模块，负责校验上下文装配、可选提交库连接与定时调度器启动
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/validation_service_req.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 提交库与Redis均为可选依赖，未配置时服务以纯内存模式运行
 * @dependencies gorm.io/gorm, service/scheduler, service/distributed_lock
 * @refs main.go, api/routes.go
 */

package service

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"ibs-validation-service/service/distributed_lock"
	"ibs-validation-service/service/ingestion"
	"ibs-validation-service/service/scheduler"
	"ibs-validation-service/service/validation"
)

var (
	// GlobalValidationService 全局校验服务
	GlobalValidationService *ValidationService
	// GlobalScheduler 全局定时校验调度器，未配置VALIDATION_CRON时为nil
	GlobalScheduler *scheduler.ValidationScheduler
	// SubmissionsDB 可选提交数据库连接，未配置SUBMISSIONS_DATABASE_URL时为nil
	SubmissionsDB *gorm.DB
)

func init() {
	initValidationService()
	initSubmissionsDB()
	initScheduler()
	log.Println("服务初始化完成")
}

// initValidationService 装配校验上下文与服务门面
func initValidationService() {
	ctx := validation.ValidationContext{
		ReportingCountry: getEnvWithDefault("REPORTING_COUNTRY", "CA"),
		CurrencyCode:     getEnvWithDefault("HOME_CURRENCY", "CAD"),
		Quarter:          getEnvWithDefault("REPORTING_PERIOD", currentQuarter()),
	}

	maxConcurrent := validation.DefaultMaxConcurrentRules
	if val := os.Getenv("MAX_CONCURRENT_RULES"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			maxConcurrent = n
		}
	}

	GlobalValidationService = NewValidationService(
		ctx,
		maxConcurrent,
		getEnvWithDefault("SUBMISSIONS_DIR", "./submissions"),
		getEnvWithDefault("REPORTS_DIR", "./reports"),
	)
	log.Printf("校验服务初始化完成: 报告国=%s 本币=%s 报告期=%s", ctx.ReportingCountry, ctx.CurrencyCode, ctx.Quarter)
}

// initSubmissionsDB 连接可选的提交数据库
func initSubmissionsDB() {
	dsn := os.Getenv("SUBMISSIONS_DATABASE_URL")
	if dsn == "" {
		return
	}
	db, err := ingestion.OpenSubmissionsDB(dsn)
	if err != nil {
		log.Printf("提交库连接失败，SQL装载不可用: %v", err)
		return
	}
	SubmissionsDB = db
	GlobalValidationService.SetSubmissionsDB(db)
	log.Println("提交库连接成功，定时清扫启用提交表回落")
}

// initScheduler 按VALIDATION_CRON启动定时清扫，配置了Redis时启用分布式锁
func initScheduler() {
	cronSpec := os.Getenv("VALIDATION_CRON")
	if cronSpec == "" {
		return
	}

	GlobalScheduler = scheduler.NewValidationScheduler(cronSpec, GlobalValidationService.RunScheduledSweep)

	if os.Getenv("REDIS_HOST") != "" {
		lock, err := distributed_lock.NewRedisLock()
		if err != nil {
			log.Printf("分布式锁初始化失败，调度器以单实例模式运行: %v", err)
		} else {
			GlobalScheduler.SetDistributedLock(lock)
		}
	}

	if err := GlobalScheduler.Start(); err != nil {
		log.Printf("启动定时校验调度器失败: %v", err)
	}
}

// currentQuarter 按当前日期计算默认报告期
func currentQuarter() string {
	now := time.Now()
	quarter := (int(now.Month())-1)/3 + 1
	return fmt.Sprintf("%d-Q%d", now.Year(), quarter)
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

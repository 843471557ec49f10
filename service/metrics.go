/*
 * @module service/metrics
 * @description 校验运行Prometheus指标定义
 * @architecture 分层架构 - 服务层
 * @documentReference ai_docs/validation_service_req.md
 * @stateFlow 校验运行结束后计数与耗时观测
 * @rules 使用默认注册表，由main挂载promhttp暴露
 * @dependencies github.com/prometheus/client_golang
 * @refs service/validation_service.go, main.go
 */

package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	validationRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ibs_validation_runs_total",
		Help: "累计校验运行次数",
	})
	validationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ibs_validation_failures_total",
		Help: "累计规则失败记录数",
	})
	validationRuleErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ibs_validation_rule_errors_total",
		Help: "累计单规则求值错误数",
	})
	validationRunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ibs_validation_run_duration_seconds",
		Help:    "单次校验运行耗时",
		Buckets: prometheus.DefBuckets,
	})
)

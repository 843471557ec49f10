/*
 * @module logger
 * @description 校验服务全局日志初始化，所有运行与清扫日志统一走slog JSON输出
 * @architecture 工具层 - 日志基础设施
 * @documentReference ai_docs/validation_service_req.md
 * @stateFlow 应用启动时初始化 -> 各层通过slog默认记录器输出
 * @rules 日志级别由LOG_LEVEL控制（debug/info/warn/error），未配置时为debug
 * @dependencies log/slog
 * @refs main.go, service/validation_service.go, service/scheduler
 */

package logger

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger 初始化全局日志记录器
// 创建 JSON 格式的日志处理器,输出到 stdout,级别取LOG_LEVEL环境变量
func InitLogger() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
}

// parseLevel 解析日志级别，未识别的取值回落到debug
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference ai_docs/validation_service_req.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"ibs-validation-service/api/controllers"
	apimiddleware "ibs-validation-service/api/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API密钥鉴权（未配置时透传）
	r.Use(apimiddleware.APIKeyAuth)

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 校验运行管理
	r.Route("/validation", func(r chi.Router) {
		validationController := controllers.NewValidationController()

		r.Route("/runs", func(r chi.Router) {
			r.Post("/", validationController.RunValidation)
			r.Get("/", validationController.ListRuns)
			r.Get("/{id}", validationController.GetRun)
			r.Get("/{id}/report", validationController.GetRunReport)
		})

		// 临时规则求值（不经规则目录）
		r.Post("/evaluate", validationController.EvaluateRules)
	})

	// 保密性支配度计算
	r.Route("/confidentiality", func(r chi.Router) {
		confidentialityController := controllers.NewConfidentialityController()
		r.Post("/assess", confidentialityController.AssessDominance)
	})

	// 数据集标注
	r.Route("/enrichment", func(r chi.Router) {
		enrichmentController := controllers.NewEnrichmentController()
		r.Post("/annotate", enrichmentController.AnnotateDataset)
	})

	// 元数据管理
	r.Route("/meta", func(r chi.Router) {
		metaController := controllers.NewMetaController()
		r.Get("/catalogs", metaController.GetCatalogs)
		r.Get("/rule-kinds", metaController.GetRuleKinds)
		r.Get("/relations", metaController.GetRelations)
		r.Get("/statuses", metaController.GetStatuses)
		r.Get("/report-types", metaController.GetReportTypes)
	})
}

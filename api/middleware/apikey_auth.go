/*
 * @module api/middleware/apikey_auth
 * @description API密钥鉴权中间件，按bcrypt哈希校验X-API-Key请求头
 * @architecture 中间件模式 - HTTP请求拦截和验证
 * @documentReference ai_docs/validation_service_req.md
 * @stateFlow 密钥提取 -> bcrypt比对 -> 下一个处理器
 * @rules 未配置API_KEY_HASH时直接放行；健康检查、指标与文档路径不鉴权
 * @dependencies golang.org/x/crypto/bcrypt, github.com/go-chi/render
 * @refs api/routes.go
 */

package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/render"
	"golang.org/x/crypto/bcrypt"
)

// whitelistPaths 免鉴权路径前缀
var whitelistPaths = []string{
	"/health",
	"/ready",
	"/metrics",
	"/swagger",
}

// APIKeyAuth API密钥鉴权中间件
// 配置了API_KEY_HASH（bcrypt哈希）时，请求必须携带匹配的X-API-Key头
func APIKeyAuth(next http.Handler) http.Handler {
	keyHash := os.Getenv("API_KEY_HASH")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if keyHash == "" || isWhitelisted(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]interface{}{"status": 1, "msg": "缺少X-API-Key请求头"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(apiKey)); err != nil {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, map[string]interface{}{"status": 1, "msg": "API密钥无效"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isWhitelisted(path string) bool {
	for _, prefix := range whitelistPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

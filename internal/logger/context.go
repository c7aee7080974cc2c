package logger

import (
	"context"

	"github.com/rs/zerolog"
)

// WithSubmissionUUID 返回携带submission_uuid字段的上下文日志记录器
func WithSubmissionUUID(ctx context.Context, submissionUUID string) context.Context {
	l := Logger.With().Str("submission_uuid", submissionUUID).Logger()
	return l.WithContext(ctx)
}

// FromContext 取出上下文中的日志记录器，没有时退回全局记录器
func FromContext(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &Logger
	}
	return l
}

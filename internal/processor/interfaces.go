package processor

import (
	"context"
	"io"

	"resume-extract-go/internal/types"
)

// DocumentExtractor 文档文本提取接口
type DocumentExtractor interface {
	// ExtractText 从字节内容提取纯文本
	ExtractText(ctx context.Context, data []byte, uri string) (string, error)

	// ExtractTextFromReader 从io.Reader提取纯文本
	ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, error)
}

// ProfileExtractor 结构化画像抽取接口
type ProfileExtractor interface {
	// Extract 从原始简历文本抽取结构化画像
	Extract(ctx context.Context, raw string) (*types.Profile, error)
}

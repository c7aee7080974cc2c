package parser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoParser "github.com/cloudwego/eino/components/document/parser"
)

// pdfMagic PDF 文件头
var pdfMagic = []byte("%PDF")

// pdfParseTimeout 单次 PDF 解析的超时时间
const pdfParseTimeout = 30 * time.Second

// DocumentTextExtractor 把上传的文档字节解码为纯文本，
// 作为抽取流水线的前置解码器。PDF 走 Eino PDF Parser；
// 其他格式按 UTF-8 纯文本兜底处理。
type DocumentTextExtractor struct {
	parser *pdf.PDFParser
	logger *log.Logger
}

// DocumentTextOption 解码器的配置选项
type DocumentTextOption func(*DocumentTextExtractor)

// WithTextExtractorLogger 配置自定义日志记录器
func WithTextExtractorLogger(logger *log.Logger) DocumentTextOption {
	return func(e *DocumentTextExtractor) {
		e.logger = logger
	}
}

// NewDocumentTextExtractor 初始化文档文本解码器。
// PDF 解析配置为不按页面分割，整个文档作为单个字符串返回。
func NewDocumentTextExtractor(ctx context.Context, options ...DocumentTextOption) (*DocumentTextExtractor, error) {
	p, err := pdf.NewPDFParser(ctx, &pdf.Config{
		ToPages: false,
	})
	if err != nil {
		return nil, fmt.Errorf("创建PDF解析器失败: %w", err)
	}

	extractor := &DocumentTextExtractor{
		parser: p,
		logger: log.New(os.Stderr, "[文档解码] ", log.LstdFlags),
	}
	for _, option := range options {
		option(extractor)
	}

	return extractor, nil
}

// ExtractText 从文档字节中解码纯文本。
// 解码是尽力而为的：PDF 解析失败、非 PDF 字节无法按 UTF-8
// 解释时返回错误；空文本不视为错误，由下游流水线优雅降级。
func (e *DocumentTextExtractor) ExtractText(ctx context.Context, data []byte, uri string) (string, error) {
	if bytes.HasPrefix(data, pdfMagic) {
		return e.extractPDF(ctx, bytes.NewReader(data), uri)
	}
	return e.extractPlainText(data, uri)
}

// ExtractTextFromReader 从 io.Reader 解码纯文本（更通用的版本）。
func (e *DocumentTextExtractor) ExtractTextFromReader(ctx context.Context, reader io.Reader, uri string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("读取文档内容失败 %s: %w", uri, err)
	}
	return e.ExtractText(ctx, data, uri)
}

// extractPDF 通过 Eino PDF Parser 提取 PDF 全文。
func (e *DocumentTextExtractor) extractPDF(ctx context.Context, reader io.Reader, uri string) (string, error) {
	startTime := time.Now()
	e.logger.Printf("开始解析PDF (URI: %s)", uri)

	ctx, cancel := context.WithTimeout(ctx, pdfParseTimeout)
	defer cancel()

	docs, err := e.parser.Parse(ctx, reader,
		einoParser.WithURI(uri),
	)

	duration := time.Since(startTime)
	if err != nil {
		e.logger.Printf("PDF解析失败: %s (用时 %.2f秒)", err, duration.Seconds())
		return "", fmt.Errorf("PDF解析失败 %s: %w", uri, err)
	}
	if len(docs) == 0 {
		e.logger.Printf("PDF解析无结果 (用时 %.2f秒)", duration.Seconds())
		return "", fmt.Errorf("PDF解析无结果 %s", uri)
	}

	// 合并所有文档的内容（以防万一返回了多个）
	var b strings.Builder
	for i, doc := range docs {
		b.WriteString(doc.Content)
		if i < len(docs)-1 {
			b.WriteString("\n\n")
		}
	}

	e.logger.Printf("PDF解析完成: 提取了 %d 个字符 (用时 %.2f秒)", b.Len(), duration.Seconds())
	return b.String(), nil
}

// extractPlainText 把非 PDF 字节按 UTF-8 纯文本处理。
// 内容不是合法 UTF-8 时判定为无法解码的二进制，返回错误。
func (e *DocumentTextExtractor) extractPlainText(data []byte, uri string) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("不支持的文档格式（非PDF且非UTF-8文本）: %s", uri)
	}
	e.logger.Printf("按纯文本处理 (URI: %s, %d 字节)", uri, len(data))
	return string(data), nil
}

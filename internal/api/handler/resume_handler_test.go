package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"resume-extract-go/internal/api/handler"
	"resume-extract-go/internal/api/router"
	"resume-extract-go/internal/config"
	"resume-extract-go/internal/processor"
	"resume-extract-go/internal/ratelimit"
	"resume-extract-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDocumentExtractor 返回固定文本或固定错误的文档解码器
type stubDocumentExtractor struct {
	text string
	err  error
}

func (s *stubDocumentExtractor) ExtractText(_ context.Context, _ []byte, _ string) (string, error) {
	return s.text, s.err
}

func (s *stubDocumentExtractor) ExtractTextFromReader(_ context.Context, r io.Reader, uri string) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	return s.text, s.err
}

// stubProfileExtractor 返回固定画像或固定错误的抽取流水线
type stubProfileExtractor struct {
	profile *types.Profile
	err     error
}

func (s *stubProfileExtractor) Extract(_ context.Context, _ string) (*types.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

// envelope 测试侧的响应解包结构，Data 延迟解析
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func newTestEngine(t *testing.T, docErr error, profile *types.Profile, extractErr error) *server.Hertz {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 1
	cfg.Extractor.MinPopulatedFields = 3
	cfg.Extractor.ExtractionTimeout = "5s"

	proc, err := processor.NewProfileProcessor(
		context.Background(), cfg, nil, nil,
		processor.WithDocumentExtractor(&stubDocumentExtractor{text: "张三 zhangsan@example.com", err: docErr}),
		processor.WithProfileExtractor(&stubProfileExtractor{profile: profile, err: extractErr}),
	)
	require.NoError(t, err)

	engine := server.New(server.WithHostPorts("127.0.0.1:0"))
	router.RegisterRoutes(engine, handler.NewResumeHandler(cfg, proc), nil)
	return engine
}

// newRateLimitedEngine 构造启用了限流的测试引擎，桶容量为1以便触发429
func newRateLimitedEngine(t *testing.T) *server.Hertz {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.MaxUploadSizeMB = 1
	cfg.Extractor.MinPopulatedFields = 3
	cfg.Extractor.ExtractionTimeout = "5s"

	proc, err := processor.NewProfileProcessor(
		context.Background(), cfg, nil, nil,
		processor.WithDocumentExtractor(&stubDocumentExtractor{text: "text"}),
		processor.WithProfileExtractor(&stubProfileExtractor{profile: types.NewEmptyProfile()}),
	)
	require.NoError(t, err)

	engine := server.New(server.WithHostPorts("127.0.0.1:0"))
	router.RegisterRoutes(engine, handler.NewResumeHandler(cfg, proc), ratelimit.NewKeyedLimiter(60, 1))
	return engine
}

func buildMultipart(t *testing.T, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func performUpload(engine *server.Hertz, path string, body *bytes.Buffer, contentType string) *ut.ResponseRecorder {
	return ut.PerformRequest(engine.Engine, "POST", path,
		&ut.Body{Body: body, Len: body.Len()},
		ut.Header{Key: "Content-Type", Value: contentType},
	)
}

func TestHealthCheck(t *testing.T) {
	engine := newTestEngine(t, nil, types.NewEmptyProfile(), nil)

	resp := ut.PerformRequest(engine.Engine, "GET", "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.True(t, env.Success)
}

// 同步抽取接口应返回流水线产出的画像。
func TestSyncExtract_Success(t *testing.T) {
	profile := types.NewEmptyProfile()
	profile.Personal.Name = "张三"
	profile.Personal.Email = "zhangsan@example.com"
	profile.Skills = []string{"Go", "MySQL"}

	engine := newTestEngine(t, nil, profile, nil)

	body, contentType := buildMultipart(t, "resume.txt", []byte("张三\nzhangsan@example.com\nSkills: Go, MySQL"))
	resp := performUpload(engine, "/api/v1/resume/extract", body, contentType)
	require.Equal(t, http.StatusOK, resp.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	require.True(t, env.Success)

	var got types.Profile
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "张三", got.Personal.Name)
	assert.Equal(t, "zhangsan@example.com", got.Personal.Email)
	assert.Equal(t, []string{"Go", "MySQL"}, got.Skills)
}

// 文档无法解码时应返回 422 而不是 500。
func TestSyncExtract_DecodeFailure(t *testing.T) {
	engine := newTestEngine(t, fmt.Errorf("不支持的文档格式"), nil, nil)

	body, contentType := buildMultipart(t, "resume.pdf", []byte("%PDF-broken"))
	resp := performUpload(engine, "/api/v1/resume/extract", body, contentType)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "无法解码")
}

// 流水线抽取失败时同样返回 422。
func TestSyncExtract_ExtractionFailure(t *testing.T) {
	engine := newTestEngine(t, nil, nil, fmt.Errorf("有效字段不足"))

	body, contentType := buildMultipart(t, "resume.txt", []byte("nothing useful"))
	resp := performUpload(engine, "/api/v1/resume/extract", body, contentType)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	engine := newTestEngine(t, nil, types.NewEmptyProfile(), nil)

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("source_channel", "test"))
	require.NoError(t, writer.Close())

	resp := performUpload(engine, "/api/v1/resume/upload", body, writer.FormDataContentType())
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

// 超过配置上限的文件应被 413 拒绝，不触碰任何存储。
func TestUpload_FileTooLarge(t *testing.T) {
	engine := newTestEngine(t, nil, types.NewEmptyProfile(), nil)

	oversized := bytes.Repeat([]byte("a"), 1*1024*1024+1)
	body, contentType := buildMultipart(t, "big.txt", oversized)
	resp := performUpload(engine, "/api/v1/resume/upload", body, contentType)
	require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.Contains(t, env.Error, "1 MB")
}

// 白名单外的扩展名应被 415 拒绝。
func TestUpload_UnsupportedExtension(t *testing.T) {
	engine := newTestEngine(t, nil, types.NewEmptyProfile(), nil)

	body, contentType := buildMultipart(t, "resume.docx", []byte("PK\x03\x04"))
	resp := performUpload(engine, "/api/v1/resume/upload", body, contentType)
	require.Equal(t, http.StatusUnsupportedMediaType, resp.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	assert.Contains(t, env.Error, "不支持的文件类型")
}

// 桶耗尽后 /resume 下的请求应被 429 拒绝，健康检查不受影响。
func TestUpload_RateLimited(t *testing.T) {
	engine := newRateLimitedEngine(t)

	body, contentType := buildMultipart(t, "resume.txt", []byte("hello"))
	resp := performUpload(engine, "/api/v1/resume/extract", body, contentType)
	require.Equal(t, http.StatusOK, resp.Code)

	body, contentType = buildMultipart(t, "resume.txt", []byte("hello"))
	resp = performUpload(engine, "/api/v1/resume/extract", body, contentType)
	require.Equal(t, http.StatusTooManyRequests, resp.Code)

	health := ut.PerformRequest(engine.Engine, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, health.Code)
}

func TestGetSubmission_MissingUUID(t *testing.T) {
	engine := newTestEngine(t, nil, types.NewEmptyProfile(), nil)

	// 空 uuid 段会落到 404 路由而不是 handler 的参数校验
	resp := ut.PerformRequest(engine.Engine, "GET", "/api/v1/resume/", nil)
	assert.NotEqual(t, http.StatusOK, resp.Code)
}

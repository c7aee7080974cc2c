package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/logger"
	"resume-extract-go/internal/processor"
	"resume-extract-go/internal/storage/models"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"gorm.io/gorm"
)

// allowedUploadExtensions 允许上传的文件扩展名。
// 解码器只支持 PDF 和 UTF-8 纯文本，在入口处直接拦截其他格式。
var allowedUploadExtensions = map[string]bool{
	".pdf": true,
	".txt": true,
}

// defaultSourceChannel 未指定来源渠道时的默认值
const defaultSourceChannel = "web_upload"

// APIResponse 统一的 HTTP 响应结构
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SubmissionResponse 提交记录查询结果
type SubmissionResponse struct {
	SubmissionUUID   string          `json:"submission_uuid"`
	ProcessingStatus string          `json:"processing_status"`
	OriginalFilename string          `json:"original_filename"`
	SourceChannel    string          `json:"source_channel"`
	CandidateID      *string         `json:"candidate_id,omitempty"`
	ExtractorVersion string          `json:"extractor_version,omitempty"`
	Profile          json.RawMessage `json:"profile,omitempty"`
	ParsedText       string          `json:"parsed_text,omitempty"`
	DownloadURL      string          `json:"download_url,omitempty"`
	SubmittedAt      time.Time       `json:"submitted_at"`
}

// ResumeHandler 简历相关的 HTTP 入口，业务逻辑委托给 ProfileProcessor
type ResumeHandler struct {
	cfg       *config.Config
	processor *processor.ProfileProcessor
}

// NewResumeHandler 创建简历处理 Handler
func NewResumeHandler(cfg *config.Config, proc *processor.ProfileProcessor) *ResumeHandler {
	return &ResumeHandler{
		cfg:       cfg,
		processor: proc,
	}
}

// HandleResumeUpload 受理简历上传：校验大小和格式后交给处理器，
// 文件去重、落库和事件发布都在处理器的事务里完成。
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, consts.StatusBadRequest, "文件未找到")
		return
	}

	if msg, ok := h.validateUpload(fileHeader); !ok {
		if strings.Contains(msg, "不支持的文件类型") {
			respondError(c, consts.StatusUnsupportedMediaType, msg)
		} else {
			respondError(c, consts.StatusRequestEntityTooLarge, msg)
		}
		return
	}

	sourceChannel := c.PostForm("source_channel")
	if sourceChannel == "" {
		sourceChannel = defaultSourceChannel
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, consts.StatusInternalServerError, "打开上传文件失败")
		return
	}
	defer file.Close()

	result, err := h.processor.UploadResume(ctx, processor.UploadRequest{
		Filename:      fileHeader.Filename,
		Size:          fileHeader.Size,
		Reader:        file,
		SourceChannel: sourceChannel,
	})
	if err != nil {
		logger.Error().Err(err).
			Str("filename", fileHeader.Filename).
			Str("source_channel", sourceChannel).
			Msg("简历上传受理失败")
		respondError(c, consts.StatusInternalServerError, "简历上传受理失败")
		return
	}

	if result.Status == models.StatusDuplicateFileSkipped {
		logger.Info().
			Str("submission_uuid", result.SubmissionUUID).
			Str("duplicate_of", result.DuplicateOf).
			Msg("检测到重复文件上传")
		c.JSON(consts.StatusConflict, APIResponse{Success: false, Data: result, Error: "文件已上传过"})
		return
	}

	logger.Info().
		Str("submission_uuid", result.SubmissionUUID).
		Str("filename", fileHeader.Filename).
		Msg("简历上传受理成功")
	c.JSON(consts.StatusOK, APIResponse{Success: true, Data: result})
}

// HandleSyncExtract 同步抽取接口：直接对上传内容执行画像抽取并返回结果，
// 不落库、不走消息队列，供调试和小流量低延迟场景使用。
func (h *ResumeHandler) HandleSyncExtract(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondError(c, consts.StatusBadRequest, "文件未找到")
		return
	}

	if msg, ok := h.validateUpload(fileHeader); !ok {
		if strings.Contains(msg, "不支持的文件类型") {
			respondError(c, consts.StatusUnsupportedMediaType, msg)
		} else {
			respondError(c, consts.StatusRequestEntityTooLarge, msg)
		}
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, consts.StatusInternalServerError, "打开上传文件失败")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, consts.StatusInternalServerError, "读取上传文件失败")
		return
	}

	profile, err := h.processor.ExtractProfile(ctx, data, fileHeader.Filename)
	if err != nil {
		switch {
		case errors.Is(err, processor.ErrDecodeTextFailed):
			respondError(c, consts.StatusUnprocessableEntity, "文档无法解码为文本")
		case errors.Is(err, processor.ErrExtractionFailed):
			respondError(c, consts.StatusUnprocessableEntity, "未能从文档中抽取出有效画像")
		default:
			logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("同步抽取失败")
			respondError(c, consts.StatusInternalServerError, "抽取失败")
		}
		return
	}

	c.JSON(consts.StatusOK, APIResponse{Success: true, Data: profile})
}

// HandleGetSubmission 按 UUID 查询提交记录及其抽取结果
func (h *ResumeHandler) HandleGetSubmission(ctx context.Context, c *app.RequestContext) {
	submissionUUID := c.Param("uuid")
	if submissionUUID == "" {
		respondError(c, consts.StatusBadRequest, "缺少提交UUID")
		return
	}

	submission, err := h.processor.GetSubmission(ctx, submissionUUID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, consts.StatusNotFound, "提交记录不存在")
			return
		}
		logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("查询提交记录失败")
		respondError(c, consts.StatusInternalServerError, "查询提交记录失败")
		return
	}

	resp := SubmissionResponse{
		SubmissionUUID:   submission.SubmissionUUID,
		ProcessingStatus: submission.ProcessingStatus,
		OriginalFilename: submission.OriginalFilename,
		SourceChannel:    submission.SourceChannel,
		CandidateID:      submission.CandidateID,
		ExtractorVersion: submission.ExtractorVersion,
		SubmittedAt:      submission.SubmissionTimestamp,
	}
	if len(submission.ExtractedProfileJSON) > 0 {
		resp.Profile = json.RawMessage(submission.ExtractedProfileJSON)
	}

	// include_text=true时附带归一化文本
	if c.Query("include_text") == "true" && submission.ParsedTextPathOSS != "" {
		if text, textErr := h.processor.GetParsedText(ctx, submission.ParsedTextPathOSS); textErr == nil {
			resp.ParsedText = text
		} else {
			logger.Warn().Err(textErr).Str("submission_uuid", submissionUUID).Msg("下载归一化文本失败")
		}
	}

	if submission.OriginalFilePathOSS != "" {
		if url, urlErr := h.processor.OriginalFileURL(ctx, submission.OriginalFilePathOSS); urlErr == nil {
			resp.DownloadURL = url
		} else {
			logger.Debug().Err(urlErr).Str("submission_uuid", submissionUUID).Msg("生成原始文件下载URL失败")
		}
	}

	c.JSON(consts.StatusOK, APIResponse{Success: true, Data: resp})
}

// HandleHealthCheck 健康检查
func (h *ResumeHandler) HandleHealthCheck(_ context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, APIResponse{Success: true, Data: map[string]string{"status": "ok"}})
}

// validateUpload 校验上传文件的大小和扩展名，
// 返回的消息仅在校验失败时有意义。
func (h *ResumeHandler) validateUpload(fileHeader *multipart.FileHeader) (string, bool) {
	maxBytes := int64(h.cfg.Server.MaxUploadSizeMB) * 1024 * 1024
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		return fmt.Sprintf("文件大小不能超过 %d MB", h.cfg.Server.MaxUploadSizeMB), false
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedUploadExtensions[ext] {
		return fmt.Sprintf("不支持的文件类型: %s", ext), false
	}
	return "", true
}

func respondError(c *app.RequestContext, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{Success: false, Error: message})
}

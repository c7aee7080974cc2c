package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"resume-extract-go/internal/config"
	"resume-extract-go/internal/logger"
	"resume-extract-go/internal/parser"
	"resume-extract-go/internal/storage"
	"resume-extract-go/internal/storage/models"
	"resume-extract-go/internal/tracing"
	"resume-extract-go/internal/types"
	"resume-extract-go/pkg/utils"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var tracer = otel.Tracer("resume-extract-go/processor")

const defaultExtractionTimeout = 10 * time.Second

// UploadRequest 一次简历上传的输入
type UploadRequest struct {
	Filename      string
	Size          int64
	Reader        io.Reader
	SourceChannel string
}

// UploadResult 上传受理结果
type UploadResult struct {
	SubmissionUUID string `json:"submission_uuid"`
	Status         string `json:"status"`
	// DuplicateOf 文件级重复时指向最早的提交
	DuplicateOf string `json:"duplicate_of,omitempty"`
}

// ProfileProcessor 简历处理核心：受理上传、消费MQ消息、执行画像抽取并落库
type ProfileProcessor struct {
	storage   *storage.Storage
	extractor DocumentExtractor
	pipeline  ProfileExtractor
	cfg       *config.Config
	logger    *zerolog.Logger
}

// Option ProfileProcessor的配置选项
type Option func(*ProfileProcessor)

// WithDocumentExtractor 替换文档文本提取器，主要用于测试
func WithDocumentExtractor(extractor DocumentExtractor) Option {
	return func(p *ProfileProcessor) {
		p.extractor = extractor
	}
}

// WithProfileExtractor 替换画像抽取流水线，主要用于测试
func WithProfileExtractor(extractor ProfileExtractor) Option {
	return func(p *ProfileProcessor) {
		p.pipeline = extractor
	}
}

// NewProfileProcessor 创建简历处理器
func NewProfileProcessor(ctx context.Context, cfg *config.Config, storageManager *storage.Storage, log *zerolog.Logger, opts ...Option) (*ProfileProcessor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("配置不能为空")
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	p := &ProfileProcessor{
		storage: storageManager,
		cfg:     cfg,
		logger:  log,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.extractor == nil {
		extractor, err := parser.NewDocumentTextExtractor(ctx)
		if err != nil {
			return nil, fmt.Errorf("创建文档文本提取器失败: %w", err)
		}
		p.extractor = extractor
	}
	if p.pipeline == nil {
		p.pipeline = parser.NewProfilePipeline(
			parser.WithMinPopulatedFields(cfg.Extractor.MinPopulatedFields),
		)
	}

	return p, nil
}

// ExtractProfile 对原始文件内容执行一次同步抽取，不落库。
// 供同步抽取接口和调试工具使用。
func (p *ProfileProcessor) ExtractProfile(ctx context.Context, data []byte, filename string) (*types.Profile, error) {
	ctx, span := tracer.Start(ctx, "ProfileProcessor.ExtractProfile",
		trace.WithAttributes(attribute.Int("file.size", len(data))))
	defer span.End()

	text, err := p.extractor.ExtractText(ctx, data, filename)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDecode)
		return nil, NewDecodeError("", err.Error())
	}

	extractCtx, cancel := context.WithTimeout(ctx, p.extractionTimeout())
	defer cancel()

	profile, err := p.pipeline.Extract(extractCtx, text)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeExtraction)
		return nil, NewExtractionError("", err.Error())
	}

	span.SetAttributes(attribute.Int("profile.populated_fields", profile.PopulatedFieldCount()))
	return profile, nil
}

// UploadResume 受理一次简历上传：流式上传到MinIO、文件级去重、
// 在同一事务中写入提交记录和outbox事件。
func (p *ProfileProcessor) UploadResume(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	ctx, span := tracer.Start(ctx, "ProfileProcessor.UploadResume",
		trace.WithAttributes(
			attribute.String("file.name", req.Filename),
			attribute.Int64("file.size", req.Size),
		))
	defer span.End()

	if p.storage == nil || p.storage.MinIO == nil || p.storage.MySQL == nil {
		return nil, fmt.Errorf("存储依赖未初始化")
	}

	newUUID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := newUUID.String()
	span.SetAttributes(attribute.String("submission_uuid", submissionUUID))

	ctx = logger.WithSubmissionUUID(ctx, submissionUUID)
	log := logger.FromContext(ctx)

	fileExt := filepath.Ext(req.Filename)
	objectKey, fileMD5, err := p.storage.MinIO.UploadResumeFileStreaming(ctx, submissionUUID, fileExt, req.Reader, req.Size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upload original file")
		return nil, NewStoreError(submissionUUID, err.Error())
	}
	log.Debug().Str("object_key", objectKey).Str("file_md5", fileMD5).Msg("原始简历文件已上传")

	// 文件级去重
	exists, err := p.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5)
	if err != nil {
		// Redis不可用时放弃去重，继续处理
		log.Warn().Err(err).Msg("文件MD5去重检查失败，跳过去重")
	} else if exists {
		return p.handleDuplicateFile(ctx, submissionUUID, fileMD5, objectKey, req)
	}

	now := time.Now()
	submission := &models.ResumeSubmission{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       req.SourceChannel,
		OriginalFilename:    req.Filename,
		OriginalFilePathOSS: objectKey,
		RawFileMD5:          fileMD5,
		ProcessingStatus:    models.StatusPendingParsing,
	}

	uploadedMsg := storage.ResumeUploadedMessage{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: now,
		SourceChannel:       req.SourceChannel,
		OriginalFilename:    req.Filename,
		OriginalFilePathOSS: objectKey,
		RawFileMD5:          fileMD5,
	}
	payloadBytes, err := json.Marshal(uploadedMsg)
	if err != nil {
		return nil, fmt.Errorf("序列化 outbox payload 失败: %w", err)
	}

	err = p.storage.MySQL.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := p.storage.MySQL.CreateResumeSubmission(ctx, tx, submission); err != nil {
			return NewDatabaseError(submissionUUID, fmt.Sprintf("创建提交记录失败: %v", err))
		}

		outboxEntry := models.OutboxMessage{
			AggregateID:      submissionUUID,
			EventType:        "resume.uploaded",
			Payload:          string(payloadBytes),
			TargetExchange:   p.cfg.RabbitMQ.ResumeEventsExchange,
			TargetRoutingKey: p.cfg.RabbitMQ.UploadedRoutingKey,
		}
		if err := tx.Create(&outboxEntry).Error; err != nil {
			return NewDatabaseError(submissionUUID, fmt.Sprintf("插入 outbox 记录失败: %v", err))
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upload transaction failed")
		// 事务失败后回滚去重记录并清掉已上传的孤儿对象，允许重新上传
		if rmErr := p.storage.Redis.RemoveRawFileMD5(ctx, fileMD5); rmErr != nil {
			log.Warn().Err(rmErr).Msg("回滚文件MD5去重记录失败")
		}
		if delErr := p.storage.MinIO.DeleteResumeFile(ctx, objectKey); delErr != nil {
			log.Warn().Err(delErr).Str("object_key", objectKey).Msg("清理孤儿文件失败")
		}
		return nil, err
	}

	// 记录MD5到UUID的映射，后续重复上传可以定位原始提交
	if mapErr := p.storage.Redis.SetFileMD5ToSubmissionUUID(ctx, fileMD5, submissionUUID); mapErr != nil {
		log.Warn().Err(mapErr).Msg("记录文件MD5映射失败")
	}

	log.Info().Msg("简历上传已受理")
	return &UploadResult{
		SubmissionUUID: submissionUUID,
		Status:         models.StatusPendingParsing,
	}, nil
}

// handleDuplicateFile 文件级重复：仍然落一条提交记录便于审计，但不进入抽取流程
func (p *ProfileProcessor) handleDuplicateFile(ctx context.Context, submissionUUID, fileMD5, objectKey string, req UploadRequest) (*UploadResult, error) {
	log := logger.FromContext(ctx)

	existingUUID, err := p.storage.Redis.GetSubmissionUUIDByFileMD5(ctx, fileMD5)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Warn().Err(err).Msg("查询重复文件的原始提交失败")
		existingUUID = ""
	}

	submission := &models.ResumeSubmission{
		SubmissionUUID:      submissionUUID,
		SubmissionTimestamp: time.Now(),
		SourceChannel:       req.SourceChannel,
		OriginalFilename:    req.Filename,
		OriginalFilePathOSS: objectKey,
		RawFileMD5:          fileMD5,
		ProcessingStatus:    models.StatusDuplicateFileSkipped,
	}
	if err := p.storage.MySQL.CreateResumeSubmission(ctx, nil, submission); err != nil {
		return nil, NewDatabaseError(submissionUUID, fmt.Sprintf("创建重复提交记录失败: %v", err))
	}

	log.Info().Str("duplicate_of", existingUUID).Msg("检测到重复文件，跳过抽取")
	return &UploadResult{
		SubmissionUUID: submissionUUID,
		Status:         models.StatusDuplicateFileSkipped,
		DuplicateOf:    existingUUID,
	}, nil
}

// ProcessUploadedResume 消费上传事件：下载原始文件、解码文本、内容级去重、
// 执行画像抽取并在事务中落库。
func (p *ProfileProcessor) ProcessUploadedResume(ctx context.Context, message storage.ResumeUploadedMessage) error {
	ctx, span := tracer.Start(ctx, "ProfileProcessor.ProcessUploadedResume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("submission_uuid", message.SubmissionUUID),
			attribute.String("source_channel", message.SourceChannel),
		))
	defer span.End()

	ctx = logger.WithSubmissionUUID(ctx, message.SubmissionUUID)
	log := logger.FromContext(ctx)
	log.Debug().Msg("开始处理上传的简历")

	if p.storage == nil || p.storage.MinIO == nil || p.storage.MySQL == nil {
		return fmt.Errorf("存储依赖未初始化")
	}

	proceed, err := p.claimSubmission(ctx, message.SubmissionUUID)
	if err != nil {
		return err
	}
	if !proceed {
		log.Debug().Msg("提交已处理或不存在，跳过")
		return nil
	}

	text, textMD5, err := p.decodeAndDeduplicate(ctx, message)
	if err != nil {
		if errors.Is(err, ErrDuplicateContent) {
			// 内容重复是正常分支，确认消息
			return nil
		}
		p.markFailed(ctx, message, err)
		return err
	}

	textObjectKey, err := p.storage.MinIO.UploadParsedText(ctx, message.SubmissionUUID, text)
	if err != nil {
		wrapped := NewStoreError(message.SubmissionUUID, err.Error())
		p.markFailed(ctx, message, wrapped)
		return wrapped
	}
	span.AddEvent("parsed text uploaded")

	extractCtx, cancel := context.WithTimeout(ctx, p.extractionTimeout())
	profile, err := p.pipeline.Extract(extractCtx, text)
	cancel()
	if err != nil {
		wrapped := NewExtractionError(message.SubmissionUUID, err.Error())
		p.markFailed(ctx, message, wrapped)
		return wrapped
	}
	span.SetAttributes(attribute.Int("profile.populated_fields", profile.PopulatedFieldCount()))

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		wrapped := NewExtractionError(message.SubmissionUUID, fmt.Sprintf("序列化画像失败: %v", err))
		p.markFailed(ctx, message, wrapped)
		return wrapped
	}

	err = p.persistProfile(ctx, message.SubmissionUUID, textObjectKey, textMD5, profile, profileJSON)
	if err != nil {
		p.markFailed(ctx, message, err)
		return err
	}

	// 缓存抽取结果，内容重复的提交可以直接复用
	if cacheErr := p.storage.Redis.CacheProfileJSON(ctx, textMD5, string(profileJSON)); cacheErr != nil {
		log.Warn().Err(cacheErr).Msg("缓存画像JSON失败")
	}

	log.Info().Int("populated_fields", profile.PopulatedFieldCount()).Msg("简历画像抽取完成")
	return nil
}

// claimSubmission 锁定提交记录并推进到 QUEUED_FOR_EXTRACTION。
// 返回false表示该消息无需再处理（幂等保护）。
func (p *ProfileProcessor) claimSubmission(ctx context.Context, submissionUUID string) (bool, error) {
	proceed := false
	err := p.storage.MySQL.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var submission models.ResumeSubmission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("submission_uuid = ?", submissionUUID).
			First(&submission).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// 记录不存在，可能已被删除，确认消息
				return nil
			}
			return NewDatabaseError(submissionUUID, fmt.Sprintf("获取提交记录失败: %v", err))
		}

		switch submission.ProcessingStatus {
		case models.StatusPendingParsing, models.StatusQueuedForExtraction,
			models.StatusTextExtractionFailed, models.StatusExtractionFailed:
			// 允许首次处理和失败重试
		default:
			return nil
		}

		if err := tx.Model(&submission).Update("processing_status", models.StatusQueuedForExtraction).Error; err != nil {
			return NewUpdateError(submissionUUID, fmt.Sprintf("更新状态为%s失败", models.StatusQueuedForExtraction))
		}
		proceed = true
		return nil
	})
	return proceed, err
}

// decodeAndDeduplicate 下载原始文件、解码文本并做内容级去重。
// 内容重复时更新状态并返回 ErrDuplicateContent。
func (p *ProfileProcessor) decodeAndDeduplicate(ctx context.Context, message storage.ResumeUploadedMessage) (string, string, error) {
	ctx, span := tracer.Start(ctx, "ProfileProcessor.decodeAndDeduplicate")
	defer span.End()

	log := logger.FromContext(ctx)

	fileBytes, err := p.storage.MinIO.GetResumeFile(ctx, message.OriginalFilePathOSS)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeStorage)
		return "", "", NewDownloadError(message.SubmissionUUID, err.Error())
	}
	span.AddEvent("file content downloaded")
	log.Debug().Int("size", len(fileBytes)).Msg("原始文件下载成功")

	rawText, err := p.extractor.ExtractText(ctx, fileBytes, message.OriginalFilePathOSS)
	if err != nil {
		tracing.RecordErrorWithInfo(span, err, tracing.ErrorTypeDecode,
			attribute.String("object_key", message.OriginalFilePathOSS))
		return "", "", NewDecodeError(message.SubmissionUUID, err.Error())
	}

	text := parser.NormalizeText(rawText)
	if text == "" {
		return "", "", NewDecodeError(message.SubmissionUUID, "解码后的文本为空")
	}
	span.SetAttributes(
		attribute.Int("text.length", len(text)),
		attribute.String("text.preview", tracing.SafeResumeContent(text)),
	)
	span.AddEvent("text normalized")

	textMD5 := utils.CalculateMD5([]byte(text))
	exists, err := p.storage.Redis.CheckAndAddParsedTextMD5(ctx, textMD5)
	if err != nil {
		log.Warn().Err(err).Msg("文本MD5去重检查失败，跳过内容去重")
	} else if exists {
		log.Info().Str("text_md5", textMD5).Msg("检测到重复的简历内容")
		updates := map[string]interface{}{
			"raw_text_md5":      textMD5,
			"processing_status": models.StatusContentDuplicateSkipped,
		}
		// 已有同内容的抽取结果时直接复用
		if cached, cacheErr := p.storage.Redis.GetCachedProfileJSON(ctx, textMD5); cacheErr == nil && cached != "" {
			updates["extracted_profile_json"] = models.StringToJSON(cached)
			updates["extractor_version"] = p.cfg.ActiveExtractorVersion
		}
		if err := p.storage.MySQL.UpdateResumeSubmissionFields(p.storage.MySQL.DB().WithContext(ctx), message.SubmissionUUID, updates); err != nil {
			return "", "", NewUpdateError(message.SubmissionUUID, "更新重复内容状态失败")
		}
		return "", "", ErrDuplicateContent
	}

	return text, textMD5, nil
}

// persistProfile 在一个事务中关联候选人并写入抽取结果
func (p *ProfileProcessor) persistProfile(ctx context.Context, submissionUUID, textObjectKey, textMD5 string, profile *types.Profile, profileJSON []byte) error {
	return p.storage.MySQL.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"parsed_text_path_oss":   textObjectKey,
			"raw_text_md5":           textMD5,
			"extracted_profile_json": models.StringToJSON(string(profileJSON)),
			"extractor_version":      p.cfg.ActiveExtractorVersion,
			"processing_status":      models.StatusExtractionCompleted,
		}

		if profile.Personal.Email != "" || profile.Personal.Phone != "" {
			candidate, err := p.storage.MySQL.FindOrCreateCandidate(ctx, tx, profile.Personal)
			if err != nil {
				return NewDatabaseError(submissionUUID, fmt.Sprintf("查找或创建候选人失败: %v", err))
			}
			updates["candidate_id"] = candidate.CandidateID
		}

		if err := p.storage.MySQL.UpdateResumeSubmissionFields(tx, submissionUUID, updates); err != nil {
			return NewUpdateError(submissionUUID, "写入抽取结果失败")
		}
		return nil
	})
}

// markFailed 处理失败后更新状态并回滚文件MD5去重记录，允许重新上传
func (p *ProfileProcessor) markFailed(ctx context.Context, message storage.ResumeUploadedMessage, cause error) {
	log := logger.FromContext(ctx)
	log.Error().Err(cause).Msg("简历处理失败")

	status := models.StatusExtractionFailed
	if errors.Is(cause, ErrDecodeTextFailed) {
		status = models.StatusTextExtractionFailed
	}
	if err := p.storage.MySQL.UpdateResumeProcessingStatus(ctx, message.SubmissionUUID, status); err != nil {
		log.Error().Err(err).Msg("更新失败状态时出错")
	}
	if message.RawFileMD5 != "" {
		if err := p.storage.Redis.RemoveRawFileMD5(ctx, message.RawFileMD5); err != nil {
			log.Warn().Err(err).Msg("回滚文件MD5去重记录失败")
		}
	}
}

// StartUploadConsumer 声明拓扑并启动上传事件消费者
func (p *ProfileProcessor) StartUploadConsumer(ctx context.Context) error {
	if p.storage == nil || p.storage.RabbitMQ == nil {
		return fmt.Errorf("RabbitMQ未初始化")
	}
	mq := p.storage.RabbitMQ
	cfg := p.cfg.RabbitMQ

	if err := mq.EnsureExchange(cfg.ResumeEventsExchange, "direct", true); err != nil {
		return err
	}
	if err := mq.EnsureQueue(cfg.RawResumeQueue, true); err != nil {
		return err
	}
	if err := mq.BindQueue(cfg.RawResumeQueue, cfg.ResumeEventsExchange, cfg.UploadedRoutingKey); err != nil {
		return err
	}

	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = 10
	}

	return mq.StartConsumer(ctx, cfg.RawResumeQueue, prefetch, func(body []byte) bool {
		var message storage.ResumeUploadedMessage
		if err := json.Unmarshal(body, &message); err != nil {
			p.logger.Error().Err(err).Msg("无法解析上传事件消息，丢弃")
			return true // 格式错误的消息重新入队没有意义
		}
		if err := p.ProcessUploadedResume(ctx, message); err != nil {
			return false
		}
		return true
	})
}

// GetSubmission 按UUID查询提交记录及其抽取结果
func (p *ProfileProcessor) GetSubmission(ctx context.Context, submissionUUID string) (*models.ResumeSubmission, error) {
	return p.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
}

// downloadURLExpiry 原始文件预签名下载URL的有效期
const downloadURLExpiry = 15 * time.Minute

// GetParsedText 下载提交对应的归一化文本
func (p *ProfileProcessor) GetParsedText(ctx context.Context, objectKey string) (string, error) {
	if p.storage == nil || p.storage.MinIO == nil {
		return "", fmt.Errorf("对象存储未初始化")
	}
	return p.storage.MinIO.GetParsedText(ctx, objectKey)
}

// OriginalFileURL 生成原始简历文件的预签名下载URL
func (p *ProfileProcessor) OriginalFileURL(ctx context.Context, objectKey string) (string, error) {
	if p.storage == nil || p.storage.MinIO == nil {
		return "", fmt.Errorf("对象存储未初始化")
	}
	return p.storage.MinIO.GetPresignedURL(ctx, objectKey, downloadURLExpiry)
}

func (p *ProfileProcessor) extractionTimeout() time.Duration {
	return config.GetDuration(p.cfg.Extractor.ExtractionTimeout, defaultExtractionTimeout)
}

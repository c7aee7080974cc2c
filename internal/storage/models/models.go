package models

import (
	"time"

	"gorm.io/datatypes"
)

// Candidate 候选人主表
type Candidate struct {
	CandidateID     string    `gorm:"type:char(36);primaryKey"`
	PrimaryName     string    `gorm:"type:varchar(255)"`
	PrimaryPhone    string    `gorm:"type:varchar(50);uniqueIndex:idx_candidates_primary_phone_unique"`
	PrimaryEmail    string    `gorm:"type:varchar(255);uniqueIndex:idx_candidates_primary_email_unique"`
	CurrentLocation string    `gorm:"type:varchar(255)"`
	ProfileSummary  string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt       time.Time `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (Candidate) TableName() string {
	return "candidates"
}

// ResumeSubmission 简历提交/快照表。
// ExtractedProfileJSON 保存抽取流水线产出的完整 Profile。
type ResumeSubmission struct {
	SubmissionUUID       string         `gorm:"type:char(36);primaryKey"`
	CandidateID          *string        `gorm:"type:char(36);index:idx_rs_candidate_id"`
	SubmissionTimestamp  time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_rs_submission_timestamp"`
	SourceChannel        string         `gorm:"type:varchar(100)"`
	OriginalFilename     string         `gorm:"type:varchar(255)"`
	OriginalFilePathOSS  string         `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS    string         `gorm:"type:varchar(1024)"`
	RawFileMD5           string         `gorm:"type:char(32);index:idx_rs_raw_file_md5"`
	RawTextMD5           string         `gorm:"type:char(32);index:idx_rs_raw_text_md5"`
	ExtractedProfileJSON datatypes.JSON `gorm:"type:json"`
	ProcessingStatus     string         `gorm:"type:varchar(50);default:'PENDING_PARSING';index:idx_rs_processing_status"`
	ExtractorVersion     string         `gorm:"type:varchar(50)"`
	CreatedAt            time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt            time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`

	Candidate *Candidate `gorm:"foreignKey:CandidateID;references:CandidateID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// 提交处理状态机
const (
	// StatusPendingParsing 初始状态，等待解码
	StatusPendingParsing = "PENDING_PARSING"
	// StatusQueuedForExtraction 已解码，等待抽取
	StatusQueuedForExtraction = "QUEUED_FOR_EXTRACTION"
	// StatusExtractionCompleted 抽取完成
	StatusExtractionCompleted = "EXTRACTION_COMPLETED"
	// StatusTextExtractionFailed 文档解码为文本失败
	StatusTextExtractionFailed = "TEXT_EXTRACTION_FAILED"
	// StatusExtractionFailed 抽取失败
	StatusExtractionFailed = "EXTRACTION_FAILED"
	// StatusDuplicateFileSkipped 原始文件MD5重复，跳过处理
	StatusDuplicateFileSkipped = "DUPLICATE_FILE_SKIPPED"
	// StatusContentDuplicateSkipped 解析文本MD5重复，跳过抽取
	StatusContentDuplicateSkipped = "CONTENT_DUPLICATE_SKIPPED"
)

// StringToJSON 把字符串转为 datatypes.JSON
func StringToJSON(s string) datatypes.JSON {
	return datatypes.JSON(s)
}

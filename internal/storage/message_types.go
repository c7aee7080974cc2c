package storage

import "time"

// ResumeUploadedMessage 简历上传事件消息，经由outbox发往MQ
type ResumeUploadedMessage struct {
	SubmissionUUID      string    `json:"submission_uuid"`
	SubmissionTimestamp time.Time `json:"submission_timestamp"`
	SourceChannel       string    `json:"source_channel,omitempty"`
	OriginalFilename    string    `json:"original_filename"`
	OriginalFilePathOSS string    `json:"original_file_path_oss"`
	RawFileMD5          string    `json:"raw_file_md5,omitempty"` // 处理失败时用于回滚去重集合
}

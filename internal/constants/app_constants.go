package constants

import "time"

const (
	// DefaultExtractorVer 当前启发式抽取器版本，随 Profile 一起落库
	DefaultExtractorVer = "1.0"

	// ProfileCacheDuration 抽取结果缓存时长
	ProfileCacheDuration = 24 * time.Hour
)

package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// FileModulePrefix 文件模块
	FileModulePrefix = "file"
	// ProfileModulePrefix 抽取结果模块
	ProfileModulePrefix = "profile"

	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityMD5ToUUID MD5到UUID的映射实体
	EntityMD5ToUUID = "md5_to_uuid"
	// EntityJSON 结构化结果实体
	EntityJSON = "json"

	// KeyFileMD5Set 原始文件MD5集合，用于快速去重 (SET)
	// 格式: app:file:dedup_set
	KeyFileMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// KeyTextMD5Set 解析后文本MD5集合，用于内容级去重 (SET)
	// 格式: app:file:text:dedup_set
	KeyTextMD5Set = AppPrefix + ":" + FileModulePrefix + ":text:" + EntityDedupSet

	// KeyFileMD5ToSubmissionUUID MD5到SubmissionUUID的映射 (STRING)
	// 格式: app:file:md5_to_uuid:{md5}
	KeyFileMD5ToSubmissionUUID = AppPrefix + ":" + FileModulePrefix + ":" + EntityMD5ToUUID + ":%s"

	// KeyProfileByTextMD5 按文本MD5缓存的抽取结果 (STRING, JSON)
	// 格式: app:profile:json:{md5}
	KeyProfileByTextMD5 = AppPrefix + ":" + ProfileModulePrefix + ":" + EntityJSON + ":%s"
)

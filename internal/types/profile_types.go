package types

// SectionType 表示简历章节类型
type SectionType string

const (
	// SectionHeader 文档头部区域（无显式标题，用于姓名/联系方式提取）
	SectionHeader SectionType = "HEADER"
	// SectionSummary 个人简介章节
	SectionSummary SectionType = "SUMMARY"
	// SectionEducation 教育经历章节
	SectionEducation SectionType = "EDUCATION"
	// SectionExperience 工作经历章节
	SectionExperience SectionType = "EXPERIENCE"
	// SectionSkills 技能章节
	SectionSkills SectionType = "SKILLS"
	// SectionProjects 项目经历章节
	SectionProjects SectionType = "PROJECTS"
	// SectionCertifications 证书章节
	SectionCertifications SectionType = "CERTIFICATIONS"
	// SectionLanguages 语言能力章节
	SectionLanguages SectionType = "LANGUAGES"
)

// SectionScanOrder 章节关键词的固定扫描顺序。
// 当同一行命中多个章节关键词时，顺序靠前的章节获胜。
var SectionScanOrder = []SectionType{
	SectionSummary,
	SectionEducation,
	SectionExperience,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionLanguages,
}

// PersonalInfo 个人基本信息。所有字段在未匹配到时保持空字符串。
type PersonalInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	LinkedinURL string `json:"linkedin_url"`
	Summary     string `json:"summary"`
}

// WorkEntry 一段工作经历。
// StartDate/EndDate 保留原文匹配到的日期子串（如 "Jan 2020"），不做日历规范化。
type WorkEntry struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationEntry 一段教育经历。
// Field 仅在学位串中出现 "in X"/"of X" 模式时填充。
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// ProjectEntry 一个项目条目。Technologies 内部去重，保持发现顺序。
type ProjectEntry struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	URL          string   `json:"url,omitempty"`
}

// CertificationEntry 一条证书记录。Date 为自由格式的原文日期片段。
type CertificationEntry struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date"`
}

// LanguageEntry 一条语言能力记录。
// Proficiency 取固定词表之一（Native/Fluent/Proficient/Intermediate/Basic），未检出时为空。
type LanguageEntry struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// Profile 抽取流水线的根输出。
// 所有切片字段默认为空切片，序列化后永远不为 null。
type Profile struct {
	Personal       PersonalInfo         `json:"personal"`
	Skills         []string             `json:"skills"`
	WorkExperience []WorkEntry          `json:"work_experience"`
	Education      []EducationEntry     `json:"education"`
	Projects       []ProjectEntry       `json:"projects"`
	Certifications []CertificationEntry `json:"certifications"`
	Languages      []LanguageEntry      `json:"languages"`
}

// NewEmptyProfile 返回所有序列字段已初始化为空切片的 Profile。
// 抽取失败或输入为空时也返回该形态，下游渲染层不会碰到 nil。
func NewEmptyProfile() *Profile {
	return &Profile{
		Skills:         []string{},
		WorkExperience: []WorkEntry{},
		Education:      []EducationEntry{},
		Projects:       []ProjectEntry{},
		Certifications: []CertificationEntry{},
		Languages:      []LanguageEntry{},
	}
}

// PopulatedFieldCount 统计 Profile 中已填充的顶层字段数量，
// 用于抽取后的质量闸门判断。
func (p *Profile) PopulatedFieldCount() int {
	if p == nil {
		return 0
	}
	count := 0
	if p.Personal.Name != "" {
		count++
	}
	if p.Personal.Email != "" {
		count++
	}
	if p.Personal.Phone != "" {
		count++
	}
	if p.Personal.Summary != "" {
		count++
	}
	if len(p.Skills) > 0 {
		count++
	}
	if len(p.WorkExperience) > 0 {
		count++
	}
	if len(p.Education) > 0 {
		count++
	}
	if len(p.Projects) > 0 {
		count++
	}
	if len(p.Certifications) > 0 {
		count++
	}
	if len(p.Languages) > 0 {
		count++
	}
	return count
}

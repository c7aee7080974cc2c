package parser

import (
	"context"
	"fmt"

	"resume-extract-go/internal/types"
)

// DefaultMinPopulatedFields 质量闸门默认阈值：
// 严格抽取后已填充的顶层字段数低于该值时触发宽松二次扫描。
const DefaultMinPopulatedFields = 3

// ProfilePipeline 简历抽取流水线：规范化 → 章节切分 → 各字段
// 提取器 → 装配。流水线无跨调用状态，词表为只读共享数据，
// 并发调用天然安全。
type ProfilePipeline struct {
	// minPopulatedFields 质量闸门阈值
	minPopulatedFields int
}

// PipelineOption 流水线配置选项
type PipelineOption func(*ProfilePipeline)

// WithMinPopulatedFields 设置质量闸门阈值。
// 传入 0 可关闭宽松二次扫描。
func WithMinPopulatedFields(n int) PipelineOption {
	return func(p *ProfilePipeline) {
		p.minPopulatedFields = n
	}
}

// NewProfilePipeline 创建抽取流水线。
func NewProfilePipeline(opts ...PipelineOption) *ProfilePipeline {
	p := &ProfilePipeline{
		minPopulatedFields: DefaultMinPopulatedFields,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Extract 对原始文本执行完整抽取，返回结构化 Profile。
//
// 抽取是确定性的纯文本处理：同一输入两次调用产出逐字节相同的
// 结果。任何单个字段缺失都不是错误；只有提取器内部意外崩溃
// （如正则边界情况）才以 error 返回，由 defer recover 兜底，
// 不会波及宿主进程。输入为空时返回全空 Profile。
func (p *ProfilePipeline) Extract(ctx context.Context, raw string) (profile *types.Profile, err error) {
	defer func() {
		if r := recover(); r != nil {
			profile = nil
			err = fmt.Errorf("简历抽取内部错误: %v", r)
		}
	}()

	_ = ctx // 流水线本身不挂起，超时由调用方在外层控制

	text := NormalizeText(raw)
	profile = types.NewEmptyProfile()
	if text == "" {
		return profile, nil
	}

	sections := SegmentSections(text)
	p.runExtractors(text, sections, profile)

	// 质量闸门：严格抽取结果过于稀疏时做一次宽松二次扫描，
	// 把全文当作缺失章节的内容喂给对应提取器
	if p.minPopulatedFields > 0 && profile.PopulatedFieldCount() < p.minPopulatedFields {
		p.loosePass(text, sections, profile)
	}

	return profile, nil
}

// runExtractors 依次运行各字段提取器并装配结果。
// 提取器彼此独立，不读取对方的输出；装配层原样保留各提取器
// 找到的条目，不补发明数据。
func (p *ProfilePipeline) runExtractors(text string, sections map[types.SectionType]string, profile *types.Profile) {
	profile.Personal = ExtractPersonalInfo(text, sections)
	profile.Skills = ExtractSkills(text, sections)
	profile.WorkExperience = ExtractWorkExperience(sections)
	profile.Education = ExtractEducation(sections)
	profile.Projects = ExtractProjects(sections)
	profile.Certifications = ExtractCertifications(sections)
	profile.Languages = ExtractLanguages(text, sections)
}

// loosePass 宽松二次扫描：对首轮为空的经历/教育序列，退而把
// 全文当作对应章节重新提取。首轮已有的结果一律不覆盖。
func (p *ProfilePipeline) loosePass(text string, sections map[types.SectionType]string, profile *types.Profile) {
	if len(profile.WorkExperience) == 0 {
		if _, ok := sections[types.SectionExperience]; !ok {
			loose := map[types.SectionType]string{types.SectionExperience: text}
			profile.WorkExperience = ExtractWorkExperience(loose)
		}
	}
	if len(profile.Education) == 0 {
		if _, ok := sections[types.SectionEducation]; !ok {
			loose := map[types.SectionType]string{types.SectionEducation: text}
			profile.Education = ExtractEducation(loose)
		}
	}
	if profile.Personal.Summary == "" {
		// 放宽长度下限再找一次简介段落
		for _, paragraph := range splitParagraphs(text) {
			flat := len([]rune(paragraph))
			if flat >= 30 && flat <= 500 && !emailPattern.MatchString(paragraph) {
				profile.Personal.Summary = paragraph
				break
			}
		}
	}
}

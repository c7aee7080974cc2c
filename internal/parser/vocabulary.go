package parser

import (
	"regexp"
	"strings"

	"resume-extract-go/internal/types"
)

// 本文件集中定义抽取流水线依赖的固定词表。
// 所有表均为包级只读数据，各提取器按引用共享，不做运行时修改，
// 因此并发调用无需加锁。

// sectionKeywords 各章节的标题关键词。
// 关键词须出现在短行上（见 maxHeaderLineLen）才视为章节标题，
// 避免误命中长句中嵌入的词。
var sectionKeywords = map[types.SectionType][]string{
	types.SectionSummary: {
		"summary", "objective", "profile", "about me", "about",
		"professional summary", "career objective",
	},
	types.SectionEducation: {
		"education", "academic", "university", "bachelor", "master",
		"phd", "degree", "diploma", "school",
	},
	types.SectionExperience: {
		"experience", "employment", "work history", "career",
		"professional experience", "work experience",
	},
	types.SectionSkills: {
		"skills", "technologies", "technical skills", "competencies",
		"expertise", "tech stack",
	},
	types.SectionProjects: {
		"projects", "portfolio", "personal projects", "side projects",
	},
	types.SectionCertifications: {
		"certifications", "certificates", "licenses", "credentials",
	},
	types.SectionLanguages: {
		"languages", "language proficiency",
	},
}

// skillVocabulary 常见技术技能词表，供技能提取器的全文扫描
// 与项目技术栈回填使用。全部保存为小写，匹配时按词边界比较。
var skillVocabulary = []string{
	// 编程语言
	"go", "golang", "python", "java", "javascript", "typescript",
	"c++", "c#", "ruby", "php", "swift", "kotlin", "rust", "scala",
	"perl", "r", "matlab", "objective-c", "dart", "elixir", "lua",
	// 前端
	"react", "vue", "angular", "svelte", "html", "css", "sass",
	"tailwind", "bootstrap", "jquery", "next.js", "nuxt", "webpack",
	"vite", "redux",
	// 后端与框架
	"node.js", "express", "django", "flask", "spring", "spring boot",
	"rails", "laravel", "fastapi", "gin", "grpc", "graphql", "rest",
	// 数据库与缓存
	"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle",
	"cassandra", "elasticsearch", "dynamodb", "memcached", "mariadb",
	// 消息与流
	"kafka", "rabbitmq", "nats", "celery",
	// 云与运维
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform",
	"ansible", "jenkins", "circleci", "github actions", "ci/cd",
	"linux", "nginx", "prometheus", "grafana",
	// 数据与机器学习
	"spark", "hadoop", "pandas", "numpy", "tensorflow", "pytorch",
	"scikit-learn", "tableau", "power bi", "airflow",
	// 工具与方法
	"git", "jira", "agile", "scrum", "tdd", "microservices",
	"oauth", "jwt", "websocket",
}

// jobTitleVocabulary 常见职位头衔词，用于判断经历段落首行
// 是职位还是公司名。
var jobTitleVocabulary = []string{
	"engineer", "developer", "manager", "director", "analyst",
	"consultant", "architect", "designer", "scientist", "administrator",
	"specialist", "lead", "intern", "officer", "coordinator",
	"president", "founder", "head", "programmer", "researcher",
	"technician", "supervisor", "executive", "associate", "vp",
}

// degreeVocabulary 学位关键词，含常见缩写。
var degreeVocabulary = []string{
	"bachelor", "master", "phd", "ph.d", "doctorate", "doctoral",
	"associate", "b.s", "b.a", "m.s", "m.a", "mba", "b.sc", "m.sc",
	"bs", "ba", "ms", "ma", "beng", "meng", "bba", "llb", "llm",
	"diploma",
}

// languageVocabulary 常见语言名词表。
var languageVocabulary = []string{
	"english", "spanish", "french", "german", "chinese", "mandarin",
	"cantonese", "japanese", "korean", "portuguese", "italian",
	"russian", "arabic", "hindi", "dutch", "swedish", "polish",
	"turkish", "vietnamese", "thai", "indonesian", "hebrew", "greek",
}

// proficiencyVocabulary 语言熟练度固定词表。
// 次序即优先级：同一行命中多个级别词时取靠前者。
var proficiencyVocabulary = []string{
	"Native", "Fluent", "Proficient", "Intermediate", "Basic",
}

// proficiencyAliases 熟练度别名表，按规范值优先级排列。
// 匹配时顺序遍历，保证同一输入的判定结果稳定。
var proficiencyAliases = []struct {
	Alias     string
	Canonical string
}{
	{"native", "Native"},
	{"mother tongue", "Native"},
	{"bilingual", "Native"},
	{"fluent", "Fluent"},
	{"advanced", "Fluent"},
	{"proficient", "Proficient"},
	{"professional", "Proficient"},
	{"intermediate", "Intermediate"},
	{"conversational", "Intermediate"},
	{"basic", "Basic"},
	{"beginner", "Basic"},
	{"elementary", "Basic"},
}

var (
	// emailPattern 宽松的 RFC 风格邮箱匹配
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	// phonePattern 宽松电话匹配：可选 +，分组数字，总计 7 位以上
	phonePattern = regexp.MustCompile(`\+?\d[\d\s().\-]{5,}\d`)
	// linkedinPattern linkedin 个人主页地址
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w\-.]+`)
	// locationPattern "Capitalized, Capitalized" 两段式地名（如 "Austin, TX"）
	locationPattern = regexp.MustCompile(`\b[A-Z][A-Za-z]+,\s*[A-Z][A-Za-z]+\b`)
	// urlPattern 绝对 URL
	urlPattern = regexp.MustCompile(`https?://[^\s,;)]+`)
	// dateRangePattern 日期区间：月份+年份 或 纯年份，右侧可为 present/current/now
	dateRangePattern = regexp.MustCompile(`(?i)((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?[\s,]*\d{4}|\d{4})\s*[-–—~to]+\s*((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?[\s,]*\d{4}|\d{4}|present|current|now)`)
	// singleDatePattern 单个日期片段：月份+年份 或 纯四位年份
	singleDatePattern = regexp.MustCompile(`(?i)((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?[\s,]*\d{4})|(\b(19|20)\d{2}\b)`)
	// yearPattern 四位年份
	yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	// yearRangePattern 整串即纯年份区间（如 "2018 - 2022"）
	yearRangePattern = regexp.MustCompile(`^(19|20)\d{2}\s*[-–—~.]*\s*((19|20)\d{2})?$`)
	// presentPattern 在职标记
	presentPattern = regexp.MustCompile(`(?i)\b(present|current|now)\b`)
)

// wordBoundaryRegexps 词表项到预编译词边界正则的缓存，
// 包初始化时一次性构建。
var wordBoundaryRegexps = buildWordBoundaryRegexps()

func buildWordBoundaryRegexps() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	vocab := make([]string, 0, len(skillVocabulary)+len(jobTitleVocabulary)+len(languageVocabulary)+len(degreeVocabulary))
	vocab = append(vocab, skillVocabulary...)
	vocab = append(vocab, jobTitleVocabulary...)
	vocab = append(vocab, languageVocabulary...)
	vocab = append(vocab, degreeVocabulary...)
	for _, term := range vocab {
		if _, ok := out[term]; ok {
			continue
		}
		// c++/c# 这类带符号的词用 \b 会失配，改用前后非字母数字断言
		escaped := regexp.QuoteMeta(term)
		out[term] = regexp.MustCompile(`(?i)(^|[^a-z0-9+#])` + escaped + `($|[^a-z0-9+#])`)
	}
	return out
}

// containsWord 判断 text 中是否按词边界出现词表项 term（大小写不敏感）。
func containsWord(text, term string) bool {
	re, ok := wordBoundaryRegexps[strings.ToLower(term)]
	if !ok {
		re = regexp.MustCompile(`(?i)(^|[^a-z0-9+#])` + regexp.QuoteMeta(term) + `($|[^a-z0-9+#])`)
	}
	return re.MatchString(text)
}

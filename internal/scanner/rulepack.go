package scanner

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rulepacks/default.yml
var defaultRulepack []byte

// AIRules: AI 생성 추정 점수의 구조적 임계값입니다.
type AIRules struct {
	ArtifactPhrases        []string `yaml:"artifact_phrases"`
	ArtifactBase           float64  `yaml:"artifact_base"`
	ArtifactStep           float64  `yaml:"artifact_step"`
	ArtifactCap            float64  `yaml:"artifact_cap"`
	RichnessMinTokens      int      `yaml:"richness_min_tokens"`
	RichnessBelow          float64  `yaml:"richness_below"`
	RichnessPoints         float64  `yaml:"richness_points"`
	SentenceMeanMin        float64  `yaml:"sentence_mean_min"`
	SentenceMeanMax        float64  `yaml:"sentence_mean_max"`
	SentenceMeanPoints     float64  `yaml:"sentence_mean_points"`
	SentenceVarianceBelow  float64  `yaml:"sentence_variance_below"`
	SentenceVariancePoints float64  `yaml:"sentence_variance_points"`
	PunctuationMinChars    int      `yaml:"punctuation_min_chars"`
	PunctuationRatioLow    float64  `yaml:"punctuation_ratio_low"`
	PunctuationRatioHigh   float64  `yaml:"punctuation_ratio_high"`
	PunctuationPoints      float64  `yaml:"punctuation_points"`
	BaseMin                float64  `yaml:"base_min"`
	BaseMax                float64  `yaml:"base_max"`
	Ceiling                float64  `yaml:"ceiling"`
	ReportAbove            float64  `yaml:"report_above"`
}

// OpsecRules: OPSEC 판정 규칙입니다.
type OpsecRules struct {
	CoordinatePattern string   `yaml:"coordinate_pattern"`
	TimePattern       string   `yaml:"time_pattern"`
	Critical          []string `yaml:"critical"`
	Sensitive         []string `yaml:"sensitive"`
	SensitiveMinHits  int      `yaml:"sensitive_min_hits"`
}

// PhishingRules: 피싱 판정 규칙입니다.
type PhishingRules struct {
	Actions    []string `yaml:"actions"`
	URLPattern string   `yaml:"url_pattern"`
	PII        []string `yaml:"pii"`
}

// VulgarityRules: 비속어 금지 목록입니다.
type VulgarityRules struct {
	Terms []string `yaml:"terms"`
}

// Rules: 분석기 한 인스턴스가 쓰는 전체 규칙입니다. New 에 값으로 전달되어 고정됩니다.
type Rules struct {
	Version   int            `yaml:"version"`
	AI        AIRules        `yaml:"ai"`
	Opsec     OpsecRules     `yaml:"opsec"`
	Phishing  PhishingRules  `yaml:"phishing"`
	Vulgarity VulgarityRules `yaml:"vulgarity"`
}

// DefaultRules: 내장 rulepack 을 반환합니다.
func DefaultRules() Rules {
	rules, err := ParseRules(defaultRulepack)
	if err != nil {
		panic(fmt.Sprintf("embedded rulepack is invalid: %v", err))
	}
	return rules
}

// LoadRules: path 의 rulepack 을 읽습니다. path 가 비어 있으면 내장 rulepack 을 사용합니다.
// extraVulgar 는 금지 목록에 덧붙습니다.
func LoadRules(path string, extraVulgar []string) (Rules, error) {
	var rules Rules
	if strings.TrimSpace(path) == "" {
		rules = DefaultRules()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return Rules{}, fmt.Errorf("read rulepack: %w", err)
		}
		rules, err = ParseRules(data)
		if err != nil {
			return Rules{}, fmt.Errorf("rulepack %s: %w", path, err)
		}
	}
	if len(extraVulgar) > 0 {
		terms := make([]string, 0, len(rules.Vulgarity.Terms)+len(extraVulgar))
		terms = append(terms, rules.Vulgarity.Terms...)
		terms = append(terms, extraVulgar...)
		rules.Vulgarity.Terms = terms
	}
	return rules, nil
}

// ParseRules: YAML rulepack 을 해석하고 비어 있는 수치는 내장 기본값으로 채웁니다.
func ParseRules(data []byte) (Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rulepack: %w", err)
	}
	if rules.Version == 0 {
		rules.Version = 1
	}
	rules.AI.applyDefaults()
	if rules.Opsec.SensitiveMinHits <= 0 {
		rules.Opsec.SensitiveMinHits = 2
	}
	if err := rules.validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (a *AIRules) applyDefaults() {
	setFloat := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	setFloat(&a.ArtifactBase, 85.0)
	setFloat(&a.ArtifactStep, 10.0)
	setFloat(&a.ArtifactCap, 99.9)
	setFloat(&a.RichnessBelow, 0.5)
	setFloat(&a.RichnessPoints, 15)
	setFloat(&a.SentenceMeanMin, 12)
	setFloat(&a.SentenceMeanMax, 25)
	setFloat(&a.SentenceMeanPoints, 10)
	setFloat(&a.SentenceVarianceBelow, 20)
	setFloat(&a.SentenceVariancePoints, 15)
	setFloat(&a.PunctuationRatioLow, 0.05)
	setFloat(&a.PunctuationRatioHigh, 0.08)
	setFloat(&a.PunctuationPoints, 10)
	setFloat(&a.BaseMin, 10.0)
	setFloat(&a.BaseMax, 30.0)
	setFloat(&a.Ceiling, 98.5)
	setFloat(&a.ReportAbove, 70)
	if a.RichnessMinTokens == 0 {
		a.RichnessMinTokens = 10
	}
	if a.PunctuationMinChars == 0 {
		a.PunctuationMinChars = 50
	}
}

func (r Rules) validate() error {
	if r.AI.Ceiling <= 0 || r.AI.Ceiling > 100 {
		return fmt.Errorf("ai ceiling out of range: %v", r.AI.Ceiling)
	}
	if r.AI.BaseMin < 0 || r.AI.BaseMax < r.AI.BaseMin {
		return fmt.Errorf("invalid ai base range: [%v, %v]", r.AI.BaseMin, r.AI.BaseMax)
	}
	if r.AI.PunctuationRatioHigh <= r.AI.PunctuationRatioLow {
		return errors.New("invalid punctuation ratio window")
	}
	for name, pattern := range map[string]string{
		"coordinate_pattern": r.Opsec.CoordinatePattern,
		"time_pattern":       r.Opsec.TimePattern,
		"url_pattern":        r.Phishing.URLPattern,
	} {
		if pattern == "" {
			continue
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	return nil
}

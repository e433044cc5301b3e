package scanner

import (
	"regexp"
	"strings"
	"unicode"
)

// opsecDetector: 좌표 → 군용 시각 → 치명 키워드 → 민감 키워드 순으로 첫 일치 규칙이 결정합니다.
type opsecDetector struct {
	coordinate *regexp.Regexp
	timestamp  *regexp.Regexp
	critical   *phraseSet
	sensitive  *phraseSet
	minHits    int
}

func newOpsecDetector(rules OpsecRules) *opsecDetector {
	return &opsecDetector{
		coordinate: compileOptional(rules.CoordinatePattern),
		timestamp:  compileOptional(rules.TimePattern),
		critical:   newPhraseSet(rules.Critical),
		sensitive:  newPhraseSet(rules.Sensitive),
		minHits:    rules.SensitiveMinHits,
	}
}

func (d *opsecDetector) classify(text, lower string) OpsecRisk {
	switch {
	case matches(d.coordinate, text):
		return OpsecHigh
	case matches(d.timestamp, text):
		return OpsecSensitive
	case d.critical.any(lower):
		return OpsecHigh
	case d.sensitive.hits(lower) >= d.minHits:
		return OpsecSensitive
	default:
		return OpsecSafe
	}
}

// phishingDetector: 유도 문구 → 의심 URL → 개인정보 요청 순으로 판정합니다.
type phishingDetector struct {
	actions *phraseSet
	url     *regexp.Regexp
	pii     *phraseSet
}

func newPhishingDetector(rules PhishingRules) *phishingDetector {
	return &phishingDetector{
		actions: newPhraseSet(rules.Actions),
		url:     compileOptional(rules.URLPattern),
		pii:     newPhraseSet(rules.PII),
	}
}

func (d *phishingDetector) classify(text, lower string) PhishingRisk {
	switch {
	case d.actions.any(lower):
		return PhishingHigh
	case matches(d.url, text):
		return PhishingHigh
	case d.pii.any(lower):
		return PhishingModerate
	default:
		return PhishingLow
	}
}

// vulgarityDetector: 정규화된 단어 단위로 금지 목록과 비교합니다.
// 여러 단어로 된 항목과 한글 항목은 정규화 문자열의 부분 일치로 비교합니다.
type vulgarityDetector struct {
	words   map[string]struct{}
	phrases *phraseSet
}

func newVulgarityDetector(rules VulgarityRules) *vulgarityDetector {
	words := make(map[string]struct{}, len(rules.Terms))
	phrases := make([]string, 0)
	for _, term := range rules.Terms {
		normalized := strings.Join(denylistTokens(normalizeForDenylist(term)), " ")
		if normalized == "" {
			continue
		}
		if strings.Contains(normalized, " ") || containsHangul(normalized) {
			phrases = append(phrases, normalized)
			continue
		}
		words[normalized] = struct{}{}
	}
	return &vulgarityDetector{words: words, phrases: newPhraseSet(phrases)}
}

func (d *vulgarityDetector) classify(text string) VulgarRisk {
	if len(d.words) == 0 && d.phrases.size() == 0 {
		return VulgarClean
	}
	tokens := denylistTokens(normalizeForDenylist(text))
	for _, token := range tokens {
		if _, ok := d.words[token]; ok {
			return VulgarVulgar
		}
	}
	if d.phrases.size() > 0 && d.phrases.any(strings.Join(tokens, " ")) {
		return VulgarVulgar
	}
	return VulgarClean
}

func containsHangul(text string) bool {
	for _, r := range text {
		if unicode.Is(hangulTable, r) || unicode.Is(jamoTable, r) {
			return true
		}
	}
	return false
}

package scanner

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// phraseSet: 소문자 부분 문자열 사전입니다. 서로 다른 구문 적중 수를 셉니다.
type phraseSet struct {
	phrases []string
	matcher *ahocorasick.Matcher
}

func newPhraseSet(phrases []string) *phraseSet {
	seen := make(map[string]struct{}, len(phrases))
	normalized := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		value := strings.ToLower(strings.TrimSpace(phrase))
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		normalized = append(normalized, value)
	}

	set := &phraseSet{phrases: normalized}
	if len(normalized) > 0 {
		set.matcher = ahocorasick.NewStringMatcher(normalized)
	}
	return set
}

// hits: lower 에 포함된 서로 다른 구문의 수를 반환합니다.
func (p *phraseSet) hits(lower string) int {
	if p == nil || p.matcher == nil || lower == "" {
		return 0
	}
	indices := p.matcher.MatchThreadSafe([]byte(lower))
	if len(indices) <= 1 {
		return len(indices)
	}
	distinct := make(map[int]struct{}, len(indices))
	for _, idx := range indices {
		distinct[idx] = struct{}{}
	}
	return len(distinct)
}

func (p *phraseSet) any(lower string) bool {
	return p.hits(lower) > 0
}

func (p *phraseSet) size() int {
	if p == nil {
		return 0
	}
	return len(p.phrases)
}

// compileOptional: 빈 패턴은 nil 로 두어 검사를 건너뜁니다.
func compileOptional(pattern string) *regexp.Regexp {
	if pattern == "" {
		return nil
	}
	return regexp.MustCompile(pattern)
}

func matches(re *regexp.Regexp, text string) bool {
	return re != nil && re.MatchString(text)
}

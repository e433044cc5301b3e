package scanner

import (
	"strings"

	"github.com/Sanjaykumaar123/sentinelnet/internal/randx"
)

// Scanner: 메시지 위험 분석기입니다.
// 생성 후에는 컴파일된 규칙만 읽으므로 여러 goroutine 에서 잠금 없이 호출할 수 있습니다.
type Scanner struct {
	ai        *aiDetector
	opsec     *opsecDetector
	phishing  *phishingDetector
	vulgarity *vulgarityDetector
}

// New: rules 를 컴파일해 분석기를 만듭니다. jitter 가 nil 이면 시드가 무작위인 소스를 씁니다.
func New(rules Rules, jitter Jitter) (*Scanner, error) {
	if err := rules.validate(); err != nil {
		return nil, err
	}
	if jitter == nil {
		jitter = randx.New(nil)
	}
	return &Scanner{
		ai:        newAIDetector(rules.AI, jitter),
		opsec:     newOpsecDetector(rules.Opsec),
		phishing:  newPhishingDetector(rules.Phishing),
		vulgarity: newVulgarityDetector(rules.Vulgarity),
	}, nil
}

// Scan: 텍스트 한 건을 분석합니다. 어떤 문자열이 들어와도 실패하지 않습니다.
func (s *Scanner) Scan(text string) Result {
	lower := strings.ToLower(text)
	result := Result{
		AIScore:      s.ai.score(text),
		OpsecRisk:    s.opsec.classify(text, lower),
		PhishingRisk: s.phishing.classify(text, lower),
		VulgarRisk:   s.vulgarity.classify(text),
	}
	result.Explanation = s.explain(result)
	return result
}

func (s *Scanner) explain(r Result) string {
	clauses := make([]string, 0, 3)
	if r.AIScore > s.ai.rules.ReportAbove {
		clauses = append(clauses, ClauseAI)
	}
	if r.OpsecRisk != OpsecSafe {
		clauses = append(clauses, ClauseOpsec+string(r.OpsecRisk))
	}
	if r.PhishingRisk != PhishingLow {
		clauses = append(clauses, ClausePhishing+string(r.PhishingRisk))
	}
	if len(clauses) == 0 {
		return ClauseSafe
	}
	return strings.Join(clauses, ClauseSeparator)
}

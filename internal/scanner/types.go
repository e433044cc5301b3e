package scanner

// OpsecRisk: 작전 보안 민감도 등급입니다.
type OpsecRisk string

// PhishingRisk: 피싱 지표 등급입니다.
type PhishingRisk string

// VulgarRisk: 비속어 포함 여부입니다.
type VulgarRisk string

const (
	OpsecSafe      OpsecRisk = "SAFE"
	OpsecSensitive OpsecRisk = "SENSITIVE"
	OpsecHigh      OpsecRisk = "HIGH"

	PhishingLow      PhishingRisk = "LOW"
	PhishingModerate PhishingRisk = "MODERATE"
	PhishingHigh     PhishingRisk = "HIGH"

	VulgarClean  VulgarRisk = "CLEAN"
	VulgarVulgar VulgarRisk = "VULGAR"
)

// 설명 문구입니다. 클라이언트가 문자열을 그대로 표시합니다.
const (
	ClauseAI        = "High probability of AI generation detected."
	ClauseOpsec     = "OPSEC Risk detected: "
	ClausePhishing  = "Phishing Risk detected: "
	ClauseSafe      = "Message appears safe."
	ClauseSeparator = " | "
)

// Result: 메시지 한 건의 분석 결과입니다. 호출마다 새로 만들어지며 변경되지 않습니다.
type Result struct {
	AIScore      float64      `json:"ai_score"`
	OpsecRisk    OpsecRisk    `json:"opsec_risk"`
	PhishingRisk PhishingRisk `json:"phishing_risk"`
	VulgarRisk   VulgarRisk   `json:"vulgar_risk"`
	Explanation  string       `json:"explanation"`
}

// Blocked: OPSEC HIGH 또는 비속어가 있으면 전송을 차단합니다.
func (r Result) Blocked() bool {
	return r.OpsecRisk == OpsecHigh || r.VulgarRisk == VulgarVulgar
}

// Jitter: AI 점수 기본값을 뽑는 난수 소스입니다. 동시 호출에 안전해야 합니다.
type Jitter interface {
	Uniform(lo, hi float64) float64
}

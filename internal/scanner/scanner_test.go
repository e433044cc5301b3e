package scanner

import (
	"strings"
	"sync"
	"testing"
)

type lowJitter struct{}

func (lowJitter) Uniform(lo, _ float64) float64 { return lo }

type highJitter struct{}

func (highJitter) Uniform(_, hi float64) float64 { return hi }

func newTestScanner(t *testing.T) *Scanner {
	t.Helper()
	s, err := New(DefaultRules(), lowJitter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func TestScanArtifactPhraseShortCircuits(t *testing.T) {
	s := newTestScanner(t)

	result := s.Scan("In summary, this is correct")
	if result.AIScore != 95 {
		t.Fatalf("expected 95 for one artifact phrase, got %v", result.AIScore)
	}
	if !strings.HasPrefix(result.Explanation, ClauseAI) {
		t.Fatalf("expected AI clause first, got %q", result.Explanation)
	}

	result = s.Scan("Furthermore, in summary, all is well.")
	if result.AIScore != 98.5 {
		t.Fatalf("expected ceiling for two artifact phrases, got %v", result.AIScore)
	}

	result = s.Scan("As an AI language model, I can help with that")
	if result.AIScore != 95 {
		t.Fatalf("expected one hit for a single AI disclosure, got %v", result.AIScore)
	}
}

func TestScanAIScoreBounds(t *testing.T) {
	s, err := New(DefaultRules(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	inputs := []string{
		"",
		"   ",
		"no punctuation at all here just words words words words words words",
		"Certainly! As an AI, in summary, furthermore, in conclusion.",
		strings.Repeat("same same same. ", 40),
		"한글 메시지입니다. 테스트.",
	}
	for i := 0; i < 50; i++ {
		for _, input := range inputs {
			score := s.Scan(input).AIScore
			if score < 0 || score > 98.5 {
				t.Fatalf("score out of range for %q: %v", input, score)
			}
		}
	}
}

func TestScanStructuralPoints(t *testing.T) {
	s := newTestScanner(t)

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"uniform short sentences", "The cat sat. The cat sat. The cat sat.", 25},
		{"repetitive single sentence", "go go go go go go go go go go go go", 35},
		{
			"clean punctuation density",
			"one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen.",
			30,
		},
		{"plain greeting", "hello there", 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.Scan(tc.input).AIScore; got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestScanAIScoreUsesBaseRange(t *testing.T) {
	s, err := New(DefaultRules(), highJitter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Scan("hello there").AIScore; got != 30 {
		t.Fatalf("expected upper base 30, got %v", got)
	}
}

func TestScanCustomCeiling(t *testing.T) {
	rules := DefaultRules()
	rules.AI.Ceiling = 40
	s, err := New(rules, highJitter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Scan("go go go go go go go go go go go go").AIScore; got != 40 {
		t.Fatalf("expected clamp at 40, got %v", got)
	}
	if got := s.Scan("in summary").AIScore; got != 40 {
		t.Fatalf("expected artifact score clamped at 40, got %v", got)
	}
}

func TestScanOpsec(t *testing.T) {
	s := newTestScanner(t)

	tests := []struct {
		input string
		want  OpsecRisk
	}{
		{"Meet at 34.05N, 118.24W tonight", OpsecHigh},
		{"rendezvous at 34.05N,118.24W at 1400 hours", OpsecHigh},
		{"We move at 1400 hours", OpsecSensitive},
		{"Window opens 06:30Z", OpsecSensitive},
		{"the bomb is ready", OpsecHigh},
		{"Nuclear option", OpsecHigh},
		{"deployment to the new location", OpsecSensitive},
		{"alpha team only", OpsecSafe},
		{"lunch at noon?", OpsecSafe},
	}
	for _, tc := range tests {
		if got := s.Scan(tc.input).OpsecRisk; got != tc.want {
			t.Errorf("opsec(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestScanOpsecPatternsAreCaseSensitive(t *testing.T) {
	s := newTestScanner(t)
	if got := s.Scan("at 34.05n, 118.24w").OpsecRisk; got != OpsecSafe {
		t.Fatalf("expected lowercase hemisphere to miss coordinate rule, got %s", got)
	}
}

func TestScanPhishing(t *testing.T) {
	s := newTestScanner(t)

	tests := []struct {
		input string
		want  PhishingRisk
	}{
		{"Please click here to continue", PhishingHigh},
		{"Reset your PASSWORD now", PhishingHigh},
		{"see http://192.168.0.10/update", PhishingHigh},
		{"short link https://bit.ly/abc", PhishingHigh},
		{"what is your SSN", PhishingModerate},
		{"share your bank account details", PhishingModerate},
		{"see https://example.com", PhishingLow},
		{"hello", PhishingLow},
	}
	for _, tc := range tests {
		if got := s.Scan(tc.input).PhishingRisk; got != tc.want {
			t.Errorf("phishing(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestScanExplanation(t *testing.T) {
	s := newTestScanner(t)

	result := s.Scan("hello there")
	if result.Explanation != ClauseSafe {
		t.Fatalf("expected safe explanation, got %q", result.Explanation)
	}

	result = s.Scan("click here before 1400 hours")
	want := "OPSEC Risk detected: SENSITIVE | Phishing Risk detected: HIGH"
	if result.Explanation != want {
		t.Fatalf("expected %q, got %q", want, result.Explanation)
	}

	result = s.Scan("As an AI, I say attack. Click here.")
	want = ClauseAI + " | OPSEC Risk detected: HIGH | Phishing Risk detected: HIGH"
	if result.Explanation != want {
		t.Fatalf("expected %q, got %q", want, result.Explanation)
	}
}

func TestScanVulgarity(t *testing.T) {
	s := newTestScanner(t)

	tests := []struct {
		input string
		want  VulgarRisk
	}{
		{"what the fuck", VulgarVulgar},
		{"sh!t happens", VulgarVulgar},
		{"ｆｕｃｋ this", VulgarVulgar},
		{"you son of a bitch", VulgarVulgar},
		{"ㅅㅣㅂㅏㄹ 진짜", VulgarVulgar},
		{"이 병신아", VulgarVulgar},
		{"Scunthorpe is a town", VulgarClean},
		{"classic assessment", VulgarClean},
		{"good morning 🙂", VulgarClean},
		{"", VulgarClean},
	}
	for _, tc := range tests {
		if got := s.Scan(tc.input).VulgarRisk; got != tc.want {
			t.Errorf("vulgarity(%q) = %s, want %s", tc.input, got, tc.want)
		}
	}
}

func TestResultBlocked(t *testing.T) {
	s := newTestScanner(t)

	tests := []struct {
		input string
		want  bool
	}{
		{"Meet at 34.05N, 118.24W", true},
		{"what the fuck", true},
		{"We move at 1400 hours", false},
		{"click here", false},
		{"hello", false},
	}
	for _, tc := range tests {
		if got := s.Scan(tc.input).Blocked(); got != tc.want {
			t.Errorf("blocked(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestScanConcurrentUse(t *testing.T) {
	s, err := New(DefaultRules(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				result := s.Scan("deployment at the location, click here")
				if result.OpsecRisk != OpsecSensitive || result.PhishingRisk != PhishingHigh {
					t.Errorf("unexpected result: %+v", result)
					return
				}
			}
		}()
	}
	wg.Wait()
}

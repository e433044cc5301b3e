package scanner

import (
	"math"
	"strings"
	"unicode/utf8"
)

const punctuationChars = ".,;!?"

// aiDetector: 기계 생성 문장 특징을 점수화합니다.
type aiDetector struct {
	rules     AIRules
	artifacts *phraseSet
	jitter    Jitter
}

func newAIDetector(rules AIRules, jitter Jitter) *aiDetector {
	return &aiDetector{
		rules:     rules,
		artifacts: newPhraseSet(rules.ArtifactPhrases),
		jitter:    jitter,
	}
}

// score: [0, Ceiling] 범위의 점수를 소수 둘째 자리로 반올림해 반환합니다.
func (d *aiDetector) score(text string) float64 {
	if hits := d.artifacts.hits(strings.ToLower(text)); hits > 0 {
		raw := math.Min(d.rules.ArtifactBase+float64(hits)*d.rules.ArtifactStep, d.rules.ArtifactCap)
		return d.finish(raw)
	}

	points := d.structuralPoints(text)
	base := d.jitter.Uniform(d.rules.BaseMin, d.rules.BaseMax)
	return d.finish(base + points)
}

func (d *aiDetector) finish(raw float64) float64 {
	rounded := math.Round(raw*100) / 100
	return clamp(rounded, 0, d.rules.Ceiling)
}

func (d *aiDetector) structuralPoints(text string) float64 {
	points := 0.0
	words := strings.Fields(strings.ToLower(text))

	if len(words) > d.rules.RichnessMinTokens {
		if vocabularyRichness(words) < d.rules.RichnessBelow {
			points += d.rules.RichnessPoints
		}
	}

	lengths := sentenceLengths(text)
	if len(lengths) > 0 {
		mean := meanOf(lengths)
		if mean >= d.rules.SentenceMeanMin && mean <= d.rules.SentenceMeanMax {
			points += d.rules.SentenceMeanPoints
		}
		if variance, ok := sampleVariance(lengths, mean); ok && variance < d.rules.SentenceVarianceBelow {
			points += d.rules.SentenceVariancePoints
		}
	}

	if utf8.RuneCountInString(text) > d.rules.PunctuationMinChars && len(words) > 0 {
		ratio := float64(countPunctuation(text)) / float64(len(words))
		if ratio > d.rules.PunctuationRatioLow && ratio < d.rules.PunctuationRatioHigh {
			points += d.rules.PunctuationPoints
		}
	}

	return points
}

func vocabularyRichness(words []string) float64 {
	if len(words) == 0 {
		return 0
	}
	distinct := make(map[string]struct{}, len(words))
	for _, w := range words {
		distinct[w] = struct{}{}
	}
	return float64(len(distinct)) / float64(len(words))
}

// sentenceLengths: '.', '!', '?' 로 나눈 문장별 단어 수입니다. 빈 조각은 버립니다.
func sentenceLengths(text string) []float64 {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	lengths := make([]float64, 0, len(fragments))
	for _, fragment := range fragments {
		count := len(strings.Fields(fragment))
		if count == 0 {
			continue
		}
		lengths = append(lengths, float64(count))
	}
	return lengths
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleVariance: 표본 분산입니다. 문장이 두 개 미만이면 균일성을 판단할 수 없어 ok=false 입니다.
func sampleVariance(values []float64, mean float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return sum / float64(len(values)-1), true
}

func countPunctuation(text string) int {
	count := 0
	for _, r := range text {
		if strings.ContainsRune(punctuationChars, r) {
			count++
		}
	}
	return count
}

func clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(value, hi))
}

package scanner

import (
	"strings"
	"unicode"

	"github.com/forPelevin/gomoji"
	"github.com/mtibben/confusables"
	"github.com/ymw0407/jamo/pkg/jamo"
	"golang.org/x/text/unicode/norm"
)

// jamoTable: 한글 자모 범위를 통합한 테이블
var jamoTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x1100, Hi: 0x11FF, Stride: 1}, // Hangul Jamo
		{Lo: 0x3130, Hi: 0x318F, Stride: 1}, // Hangul Compatibility Jamo
		{Lo: 0xA960, Hi: 0xA97F, Stride: 1}, // Hangul Jamo Extended-A
		{Lo: 0xD7B0, Hi: 0xD7FF, Stride: 1}, // Hangul Jamo Extended-B
	},
}

// hangulTable: 완성형 한글 범위
var hangulTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0xAC00, Hi: 0xD7A3, Stride: 1},
	},
}

// leetReplacer: 숫자/기호로 위장한 라틴 문자를 되돌립니다.
var leetReplacer = strings.NewReplacer(
	"@", "a",
	"$", "s",
	"0", "o",
	"1", "i",
	"3", "e",
	"4", "a",
	"5", "s",
	"7", "t",
	"!", "i",
)

// normalizeForDenylist: 비속어 비교용 정규화입니다.
// 자모 조합 → 이모지 제거 → homoglyph/전각 정규화 → 소문자 순서로 적용합니다.
func normalizeForDenylist(text string) string {
	if text == "" {
		return ""
	}
	composed := composeJamoSequences(text)
	if gomoji.ContainsEmoji(composed) {
		composed = gomoji.RemoveEmojis(composed)
	}
	return strings.ToLower(normalizeText(composed))
}

// denylistTokens: 정규화된 문자열을 단어로 나눕니다.
// 단어 내부의 위장 문자(예: "sh!t", "b1tch")는 같은 단어로 묶어 되돌립니다.
func denylistTokens(normalized string) []string {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
		return !strings.ContainsRune("@$!", r)
	})
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.Trim(field, "!")
		if isASCIIOnly(field) && hasLetter(field) {
			field = leetReplacer.Replace(field)
		}
		if field != "" {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

func hasLetter(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isASCIIOnly(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func normalizeText(text string) string {
	// ASCII 만 있으면 skeleton 변환이 필요 없습니다.
	if isASCIIOnly(text) {
		return stripControlChars(text)
	}

	// NFD 입력 우회 방지: 먼저 NFC로 정규화
	nfcText := norm.NFC.String(text)
	return stripControlChars(normalizeWithKoreanPreserved(nfcText))
}

// normalizeWithKoreanPreserved: 한글은 보존하면서 나머지만 skeleton + NFKC 변환합니다.
func normalizeWithKoreanPreserved(text string) string {
	var result strings.Builder
	var buffer strings.Builder
	result.Grow(len(text))

	flush := func() {
		if buffer.Len() == 0 {
			return
		}
		skeleton := confusables.Skeleton(buffer.String())
		result.WriteString(norm.NFKC.String(skeleton))
		buffer.Reset()
	}

	for _, r := range text {
		if unicode.Is(hangulTable, r) || unicode.Is(jamoTable, r) {
			flush()
			result.WriteRune(r)
			continue
		}
		buffer.WriteRune(r)
	}
	flush()

	return result.String()
}

func stripControlChars(text string) string {
	hasControl := false
	for _, r := range text {
		if isControl(r) {
			hasControl = true
			break
		}
	}
	if !hasControl {
		return text
	}

	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		if isControl(r) {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// isControl: 서식 문자와 줄바꿈 외 제어 문자를 골라냅니다. 공백류는 단어 경계로 남겨 둡니다.
func isControl(r rune) bool {
	if unicode.IsSpace(r) {
		return false
	}
	return unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r)
}

// composeJamoSequences: 연속 자모 시퀀스를 완성형으로 조합합니다.
// 예: "ㅅㅣㅂㅏㄹ" → "시발". 조합에 실패하면 원본을 유지합니다.
func composeJamoSequences(text string) string {
	var result strings.Builder
	var jamoBuffer strings.Builder
	result.Grow(len(text))

	flush := func() {
		if jamoBuffer.Len() == 0 {
			return
		}
		sequence := jamoBuffer.String()
		composed, err := jamo.ComposeHangeul(sequence)
		if err == nil && len(composed) > 0 {
			result.WriteString(composed[0])
		} else {
			result.WriteString(sequence)
		}
		jamoBuffer.Reset()
	}

	for _, r := range text {
		if unicode.Is(jamoTable, r) {
			jamoBuffer.WriteRune(r)
			continue
		}
		flush()
		result.WriteRune(r)
	}
	flush()

	return result.String()
}

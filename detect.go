package reflectpause

import "unicode"

// scriptBucket is one classifiable Unicode script group. Buckets are
// ordered by tie-break priority: non-Latin scripts win over Latin,
// since Latin loanwords and URLs routinely appear inside non-Latin
// text and must not dominate classification.
type scriptBucket int

const (
	bucketHan scriptBucket = iota
	bucketKana
	bucketHangul
	bucketArabic
	bucketDevanagari
	bucketCyrillic
	bucketLatin
	bucketCount
)

// bucketCodes maps each script bucket to its catalog code.
var bucketCodes = [bucketCount]string{
	bucketHan:        "zh",
	bucketKana:       "ja",
	bucketHangul:     "ko",
	bucketArabic:     "ar",
	bucketDevanagari: "hi",
	bucketCyrillic:   "ru",
	bucketLatin:      "en",
}

// detectMinLetters is the minimum number of classifiable letters
// before detection trusts its counts. Shorter input (empty strings,
// punctuation, bare emoji) returns the default code.
const detectMinLetters = 3

// DetectLanguage classifies raw text into a catalog code using
// Unicode-script counting. Digits, punctuation, and symbols are
// ignored. The function is pure: identical input always yields
// identical output.
func DetectLanguage(text string) string {
	var counts [bucketCount]int
	total := 0

	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		bucket, ok := classifyRune(r)
		if !ok {
			continue
		}
		counts[bucket]++
		total++
	}

	if total < detectMinLetters {
		return DefaultLocale
	}

	// Han characters appear inside Japanese text; any significant kana
	// presence reclassifies the whole message as Japanese.
	if counts[bucketKana] > 0 && counts[bucketHan] > 0 {
		counts[bucketKana] += counts[bucketHan]
		counts[bucketHan] = 0
	}

	best := bucketLatin
	bestCount := 0
	for b := scriptBucket(0); b < bucketCount; b++ {
		// Strict > keeps the earlier (higher-priority) bucket on ties.
		if counts[b] > bestCount {
			best = b
			bestCount = counts[b]
		}
	}
	if bestCount == 0 {
		return DefaultLocale
	}
	return bucketCodes[best]
}

func classifyRune(r rune) (scriptBucket, bool) {
	switch {
	case unicode.Is(unicode.Han, r):
		return bucketHan, true
	case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
		return bucketKana, true
	case unicode.Is(unicode.Hangul, r):
		return bucketHangul, true
	case unicode.Is(unicode.Arabic, r):
		return bucketArabic, true
	case unicode.Is(unicode.Devanagari, r):
		return bucketDevanagari, true
	case unicode.Is(unicode.Cyrillic, r):
		return bucketCyrillic, true
	case unicode.Is(unicode.Latin, r):
		return bucketLatin, true
	}
	return 0, false
}

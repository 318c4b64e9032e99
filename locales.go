package reflectpause

import (
	"sort"
	"strings"

	"github.com/ZaguanLabs/reflectpause/locale"
)

// localeAliases maps human language names and common synonyms to
// catalog codes. Only supported targets appear here.
var localeAliases = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"castilian":  "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"brazilian":  "pt",
	"dutch":      "nl",
	"russian":    "ru",
	"chinese":    "zh",
	"mandarin":   "zh",
	"cantonese":  "zh",
	"japanese":   "ja",
	"korean":     "ko",
	"arabic":     "ar",
	"hindi":      "hi",
	"vietnamese": "vi",
}

// variantOverrides maps tags that region stripping cannot resolve to
// the right catalog code. Plain stripping handles everything else
// (es-mx -> es, zh-hans-cn -> zh).
var variantOverrides = map[string]string{
	"cmn": "zh", // ISO-639-3 Mandarin macrolanguage tag
	"yue": "zh", // Cantonese; closest supported catalog entry
}

// NormalizeLocale resolves an arbitrary locale identifier to a catalog
// code. Matching order: exact code, region-stripped prefix, alias
// table. Unresolvable input degrades silently to DefaultLocale, so
// normalization never fails and is idempotent.
func NormalizeLocale(input string) string {
	norm := strings.ToLower(strings.TrimSpace(input))
	norm = strings.ReplaceAll(norm, "_", "-")
	if norm == "" {
		return DefaultLocale
	}

	if locale.IsSupported(norm) {
		return norm
	}

	if mapped, ok := variantOverrides[norm]; ok {
		return mapped
	}

	// Regional variant: es-mx -> es, zh-cn -> zh.
	if base, _, found := strings.Cut(norm, "-"); found {
		if locale.IsSupported(base) {
			return base
		}
	}

	if code, ok := localeAliases[norm]; ok {
		return code
	}

	return DefaultLocale
}

// SupportsLocale reports whether input resolves to a catalog code by
// exact match, regional-variant stripping, or alias lookup. It is
// false when NormalizeLocale would have fallen back to the default.
func SupportsLocale(input string) bool {
	norm := strings.ToLower(strings.TrimSpace(input))
	norm = strings.ReplaceAll(norm, "_", "-")
	if norm == "" {
		return false
	}

	if locale.IsSupported(norm) {
		return true
	}
	if _, ok := variantOverrides[norm]; ok {
		return true
	}
	if base, _, found := strings.Cut(norm, "-"); found && locale.IsSupported(base) {
		return true
	}
	_, ok := localeAliases[norm]
	return ok
}

// AvailableLocales returns the sorted catalog codes.
func AvailableLocales() []string {
	out := make([]string, len(locale.SupportedCodes))
	copy(out, locale.SupportedCodes)
	sort.Strings(out)
	return out
}

// Package language is the fixed catalog of languages content can be
// translated into.
package language

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupported indicates a language code outside the catalog.
var ErrUnsupported = errors.New("unsupported language")

// Default is the language content is authored in when none is given.
const Default = "en"

// Language is a catalog entry.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

var names = map[string]string{
	"en":    "English",
	"es":    "Spanish (Español)",
	"fr":    "French (Français)",
	"pt-br": "Portuguese - Brazil (Português)",
}

var variations = map[string]string{
	"pt":         "pt-br",
	"pt_br":      "pt-br",
	"ptbr":       "pt-br",
	"portuguese": "pt-br",
	"spanish":    "es",
	"french":     "fr",
	"english":    "en",
}

// Codes returns the supported codes in ascending order.
func Codes() []string {
	codes := make([]string, 0, len(names))
	for code := range names {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// All returns every catalog entry ordered by code.
func All() []Language {
	codes := Codes()
	langs := make([]Language, 0, len(codes))
	for _, code := range codes {
		langs = append(langs, Language{Code: code, Name: names[code]})
	}
	return langs
}

// IsSupported reports whether code is already a canonical supported code.
func IsSupported(code string) bool {
	_, ok := names[code]
	return ok
}

// Name returns the display name for code, or code itself if unknown.
func Name(code string) string {
	if name, ok := names[Normalize(code)]; ok {
		return name
	}
	return code
}

// Normalize lowercases and trims code and folds known spellings onto the
// canonical code. Unknown input is returned lowercased.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if canonical, ok := variations[code]; ok {
		return canonical
	}
	return code
}

// Validate normalizes code and fails with ErrUnsupported if it is not in the
// catalog.
func Validate(code string) (string, error) {
	normalized := Normalize(code)
	if !IsSupported(normalized) {
		return "", fmt.Errorf("%w: %q (supported: %s)", ErrUnsupported, code, strings.Join(Codes(), ", "))
	}
	return normalized, nil
}

// ValidateAll validates every code before returning any result. The first
// invalid code fails the whole call. Duplicates after normalization are
// collapsed, keeping first-seen order.
func ValidateAll(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		normalized, err := Validate(code)
		if err != nil {
			return nil, err
		}
		if seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out, nil
}

// Missing returns the supported codes not present in available, sorted.
func Missing(available []string) []string {
	have := make(map[string]bool, len(available))
	for _, code := range available {
		have[code] = true
	}
	var missing []string
	for _, code := range Codes() {
		if !have[code] {
			missing = append(missing, code)
		}
	}
	return missing
}

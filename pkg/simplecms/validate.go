package simplecms

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tendant/simple-cms/pkg/simplecms/language"
)

const (
	maxTitleLen    = 500
	maxSlugLen     = 500
	maxURLLen      = 1000
	maxFilenameLen = 255
)

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func validateTitle(field, title string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(title))
	if n == 0 {
		return invalid(field, "must not be empty")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return invalid(field, "must be at most %d characters", maxTitleLen)
	}
	return nil
}

func validateSlug(field, slug string) error {
	if slug == "" {
		return invalid(field, "must not be empty")
	}
	if len(slug) > maxSlugLen {
		return invalid(field, "must be at most %d characters", maxSlugLen)
	}
	if !slugPattern.MatchString(slug) {
		return invalid(field, "%q may only contain lowercase letters, digits and hyphens", slug)
	}
	return nil
}

func validateBody(field, body string) error {
	if strings.TrimSpace(body) == "" {
		return invalid(field, "must not be empty")
	}
	return nil
}

func validateFeaturedImageURL(url string) error {
	if len(url) > maxURLLen {
		return invalid("featured_image_url", "must be at most %d characters", maxURLLen)
	}
	return nil
}

// contentLanguage defaults an empty code and validates the rest.
func contentLanguage(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return language.Default, nil
	}
	return language.Validate(code)
}

// normalizeTags trims, drops empties and de-duplicates, keeping order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

func copyMetadata(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

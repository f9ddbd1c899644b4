// Package objectkey builds storage locators for uploaded media and their
// derivatives.
package objectkey

import (
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// maxSafeNameLen bounds the sanitized stem kept in a locator.
const maxSafeNameLen = 50

// Generator defines the interface for object key generation strategies
type Generator interface {
	// GenerateKey creates a unique locator for an upload named originalName
	GenerateKey(originalName string) string
}

// DatePathGenerator files uploads by month:
// uploads/2024/12/<safe-name>_<12 hex chars><ext>
type DatePathGenerator struct {
	Prefix string
	Now    func() time.Time
}

func NewDatePathGenerator() *DatePathGenerator {
	return &DatePathGenerator{
		Prefix: "uploads",
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

func (g *DatePathGenerator) GenerateKey(originalName string) string {
	now := g.Now()
	return path.Join(g.Prefix, now.Format("2006"), now.Format("01"), UniqueFilename(originalName))
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(originalName string) string

func (f GeneratorFunc) GenerateKey(originalName string) string {
	return f(originalName)
}

// UniqueFilename returns "<safe-name>_<12 hex chars><ext>" for originalName.
func UniqueFilename(originalName string) string {
	base := path.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" {
		base = ""
	}
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	unique := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return SafeName(stem) + "_" + unique + ext
}

// SafeName keeps letters, digits, '-' and '_' and truncates to 50 runes.
func SafeName(name string) string {
	var b strings.Builder
	n := 0
	for _, r := range name {
		if n == maxSafeNameLen {
			break
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}

// DerivedKey inserts "_<variant>" before the extension of locator:
// uploads/2024/12/cat_ab12.jpg -> uploads/2024/12/cat_ab12_thumb.jpg
func DerivedKey(locator, variant string) string {
	ext := path.Ext(locator)
	return strings.TrimSuffix(locator, ext) + "_" + variant + ext
}

// ThumbnailKey is DerivedKey with the "thumb" variant.
func ThumbnailKey(locator string) string {
	return DerivedKey(locator, "thumb")
}

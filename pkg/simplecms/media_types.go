package simplecms

import (
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const mb = 1024 * 1024

type mediaRule struct {
	maxSize   int64
	mimeTypes []string
}

var mediaRules = map[MediaType]mediaRule{
	MediaTypeImage: {
		maxSize: 10 * mb,
		mimeTypes: []string{
			"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp", "image/svg+xml",
		},
	},
	MediaTypeVideo: {
		maxSize: 100 * mb,
		mimeTypes: []string{
			"video/mp4", "video/mpeg", "video/quicktime", "video/x-msvideo", "video/webm",
		},
	},
	MediaTypeAudio: {
		maxSize: 50 * mb,
		mimeTypes: []string{
			"audio/mpeg", "audio/mp3", "audio/wav", "audio/ogg", "audio/aac", "audio/webm",
		},
	},
	MediaTypeDocument: {
		maxSize: 20 * mb,
		mimeTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"text/plain",
		},
	},
}

// MaxFileSize returns the upload limit in bytes for t, or 0 for unknown types.
func MaxFileSize(t MediaType) int64 {
	return mediaRules[t].maxSize
}

// AllowedMimeTypes returns the MIME allow-list for t.
func AllowedMimeTypes(t MediaType) []string {
	rule := mediaRules[t]
	out := make([]string, len(rule.mimeTypes))
	copy(out, rule.mimeTypes)
	return out
}

// IsAllowedMimeType reports whether a declared MIME type (parameters ignored)
// is acceptable for t.
func IsAllowedMimeType(t MediaType, mimeType string) bool {
	base := baseMimeType(mimeType)
	for _, allowed := range mediaRules[t].mimeTypes {
		if base == allowed {
			return true
		}
	}
	return false
}

// sniffMimeType detects the MIME type of a payload prefix and checks it
// against the allow-list for t, honoring the detector's aliases and parent
// types (an .ogg container matches audio/ogg, for example).
func sniffMimeType(t MediaType, head []byte) (string, error) {
	detected := mimetype.Detect(head)
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range mediaRules[t].mimeTypes {
			if m.Is(allowed) {
				return allowed, nil
			}
		}
	}
	return "", fmt.Errorf("%w: payload is %s, not %s", ErrInvalidFileType, baseMimeType(detected.String()), t)
}

func baseMimeType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// storageFilename swaps the extension of name for the canonical one of the
// sniffed, allow-listed mimeType. Stored blobs are served by extension, so
// a client-chosen one (.html, .js) must never reach the locator.
func storageFilename(name, mimeType string) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	ext := ".bin"
	if m := mimetype.Lookup(mimeType); m != nil && m.Extension() != "" {
		ext = m.Extension()
	}
	return stem + ext
}

//go:generate mockgen -destination=mocks/mock_simplecms.go -package=mocks github.com/tendant/simple-cms/pkg/simplecms BlobStore,ImageProcessor,EventSink

// Package simplecms provides the core of a multi-language content
// management backend: content items with a publication workflow, per-language
// translations with a translation workflow, and media files attached to
// content.
//
// A single Service orchestrates all operations. Every operation receives the
// calling principal (nil for anonymous callers) and enforces ownership and
// visibility before touching the Repository. Implementations of repositories
// (memory, Postgres), blob stores (memory, filesystem, S3) and the image
// derivative engine are provided under subpackages.
//
// Workflows
//
// Content moves through draft, review, published and archived; translations
// move through pending, in_progress, completed and reviewed. Both state
// machines are fixed tables (see status.go). Records hidden from a caller are
// reported as not found rather than forbidden.
package simplecms

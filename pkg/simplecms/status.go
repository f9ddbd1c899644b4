package simplecms

import (
	"fmt"
	"sort"
)

var contentTransitions = map[ContentStatus]map[ContentStatus]bool{
	ContentStatusDraft: {
		ContentStatusReview:    true,
		ContentStatusPublished: true,
	},
	ContentStatusReview: {
		ContentStatusDraft:     true,
		ContentStatusPublished: true,
		ContentStatusArchived:  true,
	},
	ContentStatusPublished: {
		ContentStatusArchived: true,
	},
	ContentStatusArchived: {
		ContentStatusDraft: true,
	},
}

// Self-loops are listed explicitly; re-setting the current status is allowed.
var translationTransitions = map[TranslationStatus]map[TranslationStatus]bool{
	TranslationStatusPending: {
		TranslationStatusInProgress: true,
		TranslationStatusPending:    true,
	},
	TranslationStatusInProgress: {
		TranslationStatusCompleted:  true,
		TranslationStatusPending:    true,
		TranslationStatusInProgress: true,
	},
	TranslationStatusCompleted: {
		TranslationStatusReviewed:   true,
		TranslationStatusInProgress: true,
		TranslationStatusPending:    true,
		TranslationStatusCompleted:  true,
	},
	TranslationStatusReviewed: {
		TranslationStatusInProgress: true,
		TranslationStatusPending:    true,
		TranslationStatusReviewed:   true,
	},
}

// CanTransitionContent reports whether content may move from one status to another.
func CanTransitionContent(from, to ContentStatus) bool {
	return contentTransitions[from][to]
}

// CanTransitionTranslation reports whether a translation may move from one status to another.
func CanTransitionTranslation(from, to TranslationStatus) bool {
	return translationTransitions[from][to]
}

// NextContentStatuses lists the statuses reachable from the given one.
func NextContentStatuses(from ContentStatus) []ContentStatus {
	next := make([]ContentStatus, 0, len(contentTransitions[from]))
	for s := range contentTransitions[from] {
		next = append(next, s)
	}
	sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	return next
}

// NextTranslationStatuses lists the statuses reachable from the given one.
func NextTranslationStatuses(from TranslationStatus) []TranslationStatus {
	next := make([]TranslationStatus, 0, len(translationTransitions[from]))
	for s := range translationTransitions[from] {
		next = append(next, s)
	}
	sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })
	return next
}

func validateContentTransition(from, to ContentStatus) error {
	if !to.IsValid() {
		return invalid("status", "unknown content status %q", to)
	}
	if !CanTransitionContent(from, to) {
		return fmt.Errorf("%w: content cannot move from %s to %s", ErrInvalidTransition, from, to)
	}
	return nil
}

func validateTranslationTransition(from, to TranslationStatus) error {
	if !to.IsValid() {
		return invalid("translation_status", "unknown translation status %q", to)
	}
	if !CanTransitionTranslation(from, to) {
		return fmt.Errorf("%w: translation cannot move from %s to %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// validateInitialContentStatus accepts draft or any status reachable from draft.
func validateInitialContentStatus(status ContentStatus) error {
	if status == ContentStatusDraft {
		return nil
	}
	return validateContentTransition(ContentStatusDraft, status)
}

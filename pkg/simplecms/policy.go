package simplecms

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
)

// canViewContent: published content is public; otherwise only the author and
// superusers see it.
func canViewContent(p *auth.Principal, c *Content) bool {
	return c.Status == ContentStatusPublished || p.IsSuperuser() || p.Is(c.AuthorID)
}

// canViewTranslation: completed and reviewed translations are public;
// otherwise the translator, the parent's author and superusers see it.
// parent may be nil when unknown.
func canViewTranslation(p *auth.Principal, t *Translation, parent *Content) bool {
	if t.Status.IsPublic() || p.IsSuperuser() {
		return true
	}
	if t.TranslatorID != nil && p.Is(*t.TranslatorID) {
		return true
	}
	return parent != nil && p.Is(parent.AuthorID)
}

// authorize checks that p is an active principal allowed to mutate a record
// owned by ownerID. A nil ownerID is owned by nobody, so only superusers pass.
func authorize(p *auth.Principal, ownerID *uuid.UUID, what string) error {
	if err := auth.RequireActive(p); err != nil {
		return err
	}
	if p.IsSuperuser() {
		return nil
	}
	if ownerID == nil || !p.Is(*ownerID) {
		return fmt.Errorf("%w: not authorized to modify this %s", ErrForbidden, what)
	}
	return nil
}

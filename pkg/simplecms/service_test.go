package simplecms_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/auth"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
	memorystorage "github.com/tendant/simple-cms/pkg/simplecms/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []simplecms.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []simplecms.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []simplecms.Option{
				simplecms.WithRepository(memory.New()),
			},
		},
		{
			name: "with repository and blob store should succeed",
			options: []simplecms.Option{
				simplecms.WithRepository(memory.New()),
				simplecms.WithBlobStore("memory", memorystorage.New()),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := simplecms.New(tt.options...)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

// tickingClock returns strictly increasing times so orderings are stable.
func tickingClock() simplecms.Clock {
	var mu sync.Mutex
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func setupTestService(t *testing.T, opts ...simplecms.Option) simplecms.Service {
	t.Helper()
	options := append([]simplecms.Option{
		simplecms.WithRepository(memory.New()),
		simplecms.WithBlobStore("memory", memorystorage.New()),
		simplecms.WithClock(tickingClock()),
	}, opts...)
	svc, err := simplecms.New(options...)
	require.NoError(t, err)
	return svc
}

func newUser() *auth.Principal {
	return &auth.Principal{ID: uuid.New(), Email: "user@example.com", Roles: []string{"user"}, Active: true}
}

func newSuperuser() *auth.Principal {
	return &auth.Principal{ID: uuid.New(), Email: "admin@example.com", Roles: []string{"admin"}, Active: true, Superuser: true}
}

func createContent(t *testing.T, svc simplecms.Service, p *auth.Principal, slug string, status simplecms.ContentStatus) *simplecms.Content {
	t.Helper()
	content, err := svc.CreateContent(context.Background(), p, simplecms.CreateContentRequest{
		Title:       "Title for " + slug,
		Slug:        slug,
		Body:        "Body for " + slug,
		ContentType: simplecms.ContentTypeStory,
		Status:      status,
	})
	require.NoError(t, err)
	return content
}

func ptr[T any](v T) *T {
	return &v
}

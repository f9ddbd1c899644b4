package language_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms/language"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{" ES ", "es"},
		{"pt", "pt-br"},
		{"pt_BR", "pt-br"},
		{"PTBR", "pt-br"},
		{"Portuguese", "pt-br"},
		{"spanish", "es"},
		{"french", "fr"},
		{"english", "en"},
		{"de", "de"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, language.Normalize(tt.in))
		})
	}
}

func TestValidate(t *testing.T) {
	code, err := language.Validate("PT-BR")
	require.NoError(t, err)
	assert.Equal(t, "pt-br", code)

	_, err = language.Validate("de")
	assert.True(t, errors.Is(err, language.ErrUnsupported))

	_, err = language.Validate("")
	assert.True(t, errors.Is(err, language.ErrUnsupported))
}

func TestValidateAll(t *testing.T) {
	t.Run("all valid with duplicates", func(t *testing.T) {
		codes, err := language.ValidateAll([]string{"es", "spanish", "fr"})
		require.NoError(t, err)
		assert.Equal(t, []string{"es", "fr"}, codes)
	})

	t.Run("one invalid fails everything", func(t *testing.T) {
		codes, err := language.ValidateAll([]string{"es", "xx", "fr"})
		assert.Nil(t, codes)
		assert.True(t, errors.Is(err, language.ErrUnsupported))
	})
}

func TestCatalog(t *testing.T) {
	assert.Equal(t, []string{"en", "es", "fr", "pt-br"}, language.Codes())
	assert.Len(t, language.All(), 4)
	assert.Equal(t, "French (Français)", language.Name("french"))
	assert.Equal(t, "xx", language.Name("xx"))
	assert.True(t, language.IsSupported(language.Default))
}

func TestMissing(t *testing.T) {
	assert.Equal(t, []string{"es", "fr", "pt-br"}, language.Missing([]string{"en"}))
	assert.Empty(t, language.Missing(language.Codes()))
}

package translator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/pkg/translator"
)

func TestInitTranslator_LoadsMessages(t *testing.T) {
	dir := t.TempDir()

	content := []byte(`
taskNotFound = "Task not found."
hello = "Hello english"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.toml"), content, 0o644))

	require.NoError(t, translator.InitTranslator(translator.Config{
		TranslationFolder:  dir,
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	}))

	localizer := i18n.NewLocalizer(translator.Translator, translator.LanguageEn)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Hello english", msg)
}

func TestInitTranslator_InvalidFolder(t *testing.T) {
	err := translator.InitTranslator(translator.Config{
		TranslationFolder:  "/path/does/not/exist",
		SupportedLanguages: []string{translator.LanguageEn},
	})
	require.Error(t, err)
}

func TestInitTranslator_ShippedTranslations(t *testing.T) {
	require.NoError(t, translator.InitTranslator(translator.Config{
		TranslationFolder:  "translation",
		SupportedLanguages: []string{translator.LanguageEn, translator.LanguageFr},
	}))

	assert.Equal(t, "Task not found.", translator.Localize("taskNotFound", translator.LanguageEn, nil))
	assert.Equal(t, "Tâche introuvable.", translator.Localize("taskNotFound", translator.LanguageFr, nil))
	assert.Equal(t,
		"Too many requests, retry in 12 seconds.",
		translator.Localize("rateLimited", translator.LanguageEn, map[string]any{"RetryAfter": 12}),
	)
	assert.Equal(t, "unknownKey", translator.Localize("unknownKey", translator.LanguageEn, nil))
}

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: translator.LanguageEn},
		{header: "fr", want: translator.LanguageFr},
		{header: "fr-FR,fr;q=0.9,en;q=0.8", want: translator.LanguageFr},
		{header: "en-US", want: translator.LanguageEn},
		{header: "de-DE", want: translator.LanguageEn},
		{header: "not a language;;", want: translator.LanguageEn},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, translator.ResolveLanguage(tt.header))
		})
	}
}

func TestTranslatorConstants(t *testing.T) {
	assert.Equal(t, "en", translator.LanguageEn)
	assert.Equal(t, "fr", translator.LanguageFr)
}

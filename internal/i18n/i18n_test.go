package i18n_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/nexocrm/nexo/internal/i18n"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.AmericanEnglish},
		{"garbage;;;", language.AmericanEnglish},
		{"pt-BR", language.BrazilianPortuguese},
		{"pt-BR,pt;q=0.9,en;q=0.8", language.BrazilianPortuguese},
		{"es-MX", language.Spanish},
		{"fr-FR", language.AmericanEnglish},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, i18n.Match(tt.header), "header %q", tt.header)
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "contact not found", i18n.Message(language.AmericanEnglish, "contact.not_found"))
	assert.Equal(t, "contato não encontrado", i18n.Message(language.BrazilianPortuguese, "contact.not_found"))
	assert.Equal(t, "contacto no encontrado", i18n.Message(language.Spanish, "contact.not_found"))

	// Unknown locale falls back to English.
	assert.Equal(t, "contact not found", i18n.Message(language.German, "contact.not_found"))

	// Unknown key renders as itself.
	assert.Equal(t, "nope.missing", i18n.Message(language.AmericanEnglish, "nope.missing"))
}

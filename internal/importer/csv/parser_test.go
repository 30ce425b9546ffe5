package csv_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexocrm/nexo/internal/importer/csv"
)

func TestParser_Parse(t *testing.T) {
	t.Run("CommaDelimited", func(t *testing.T) {
		input := strings.Join([]string{
			"Name,Phone,Email",
			"Maria Souza,+55 11 91234-5678,maria@example.com",
			"João Lima,,joao@example.com",
		}, "\n")

		rows, err := csv.New().Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Maria Souza", rows[0].Name)
		assert.Equal(t, "+55 11 91234-5678", rows[0].Phone)
		assert.Equal(t, 2, rows[0].Line)
		assert.Equal(t, "joao@example.com", rows[1].Email)
		assert.Equal(t, 3, rows[1].Line)
	})

	t.Run("SemicolonDelimitedPortugueseHeaders", func(t *testing.T) {
		input := strings.Join([]string{
			"Nome;Telefone;E-mail;CPF;Origem",
			"Maria Souza;11 91234-5678;maria@example.com;123.456.789-00;feira",
		}, "\n")

		rows, err := csv.New().Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Maria Souza", rows[0].Name)
		assert.Equal(t, "11 91234-5678", rows[0].Phone)
		assert.Equal(t, "maria@example.com", rows[0].Email)
		assert.Equal(t, "123.456.789-00", rows[0].Document)
		assert.Equal(t, "feira", rows[0].Origin)
	})

	t.Run("SkipsPreambleBeforeHeader", func(t *testing.T) {
		input := strings.Join([]string{
			"Exported 2026-08-01",
			"Contact list",
			"Name,WhatsApp",
			"Maria,11912345678",
		}, "\n")

		rows, err := csv.New().Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "11912345678", rows[0].Phone)
		assert.Equal(t, 4, rows[0].Line)
	})

	t.Run("SkipsBlankFillerLines", func(t *testing.T) {
		input := "Name,Email\nMaria,maria@example.com\n,\n,\n"

		rows, err := csv.New().Parse(strings.NewReader(input))

		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("Utf8BOM", func(t *testing.T) {
		input := "\xEF\xBB\xBFName,Email\nMaria,maria@example.com\n"

		rows, err := csv.New().Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Maria", rows[0].Name)
	})

	t.Run("Windows1252Accents", func(t *testing.T) {
		// "José" with é as 0xE9, invalid as UTF-8.
		input := "Name,Email\nJos\xe9,jose@example.com\n"

		rows, err := csv.New().Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "José", rows[0].Name)
	})

	t.Run("NoHeader", func(t *testing.T) {
		input := "foo,bar\n1,2\n"

		_, err := csv.New().Parse(strings.NewReader(input))

		require.Error(t, err)
	})
}

func TestParser_RowsWithoutIdentifiersAreKept(t *testing.T) {
	// A named row with no phone/email/document still comes back; the
	// import service decides to skip it with a per-line reason.
	input := "Name,Email\nMaria,\n"

	rows, err := csv.New().Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].HasIdentifier())
}

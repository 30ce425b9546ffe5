package encoding_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexocrm/nexo/internal/encoding"
)

func decode(t *testing.T, input string) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(strings.NewReader(input))
	require.NoError(t, err)

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out)
}

func TestNewUTF8Reader(t *testing.T) {
	t.Run("PlainUTF8", func(t *testing.T) {
		assert.Equal(t, "José, Ñandú", decode(t, "José, Ñandú"))
	})

	t.Run("StripsUTF8BOM", func(t *testing.T) {
		assert.Equal(t, "name,email", decode(t, "\xEF\xBB\xBFname,email"))
	})

	t.Run("UTF16LittleEndian", func(t *testing.T) {
		// "hi" with a LE BOM.
		assert.Equal(t, "hi", decode(t, "\xFF\xFEh\x00i\x00"))
	})

	t.Run("UTF16BigEndian", func(t *testing.T) {
		assert.Equal(t, "hi", decode(t, "\xFE\xFF\x00h\x00i"))
	})

	t.Run("Windows1252", func(t *testing.T) {
		assert.Equal(t, "José", decode(t, "Jos\xe9"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", decode(t, ""))
	})
}

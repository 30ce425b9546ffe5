// Package csv parses contact list exports. Header names are matched
// loosely so files produced by spreadsheet tools in English or Portuguese
// import without manual remapping.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	enc "github.com/nexocrm/nexo/internal/encoding"
	"github.com/nexocrm/nexo/internal/importer"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

// Header synonyms, all compared lowercase and trimmed.
var headerFields = map[string]string{
	"name":      "name",
	"nome":      "name",
	"contact":   "name",
	"phone":     "phone",
	"telefone":  "phone",
	"celular":   "phone",
	"whatsapp":  "phone",
	"email":     "email",
	"e-mail":    "email",
	"document":  "document",
	"cpf":       "document",
	"cnpj":      "document",
	"documento": "document",
	"origin":    "origin",
	"origem":    "origin",
	"source":    "origin",
}

func (p *Parser) Parse(r io.Reader) ([]importer.Row, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = sniffDelimiter(string(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	headerIdx, cols := detectHeader(records)
	if cols == nil {
		return nil, fmt.Errorf("no recognizable header row: expected name/phone/email/document columns")
	}

	var rows []importer.Row

	for i, record := range records[headerIdx+1:] {
		row := importer.Row{Line: headerIdx + i + 2}

		for field, idx := range cols {
			if idx >= len(record) {
				continue
			}

			value := strings.TrimSpace(record[idx])

			switch field {
			case "name":
				row.Name = value
			case "phone":
				row.Phone = value
			case "email":
				row.Email = value
			case "document":
				row.Document = value
			case "origin":
				row.Origin = value
			}
		}

		if row.Name == "" && !row.HasIdentifier() {
			// Blank filler line, common at the end of exports.
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// sniffDelimiter picks ';' when the first line carries more semicolons
// than commas. Brazilian spreadsheet exports default to ';'.
func sniffDelimiter(content string) rune {
	line, _, _ := strings.Cut(content, "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}

	return ','
}

// detectHeader scans for the first row where at least one cell maps to a
// known field, returning its index and the field→column mapping.
func detectHeader(records [][]string) (int, map[string]int) {
	for rowIdx, record := range records {
		cols := make(map[string]int)

		for i, cell := range record {
			name := strings.ToLower(strings.TrimSpace(cell))
			if field, ok := headerFields[name]; ok {
				if _, taken := cols[field]; !taken {
					cols[field] = i
				}
			}
		}

		if len(cols) > 0 {
			return rowIdx, cols
		}
	}

	return 0, nil
}

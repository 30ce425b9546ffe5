package importer

import "io"

// Row is one contact candidate parsed from an uploaded file.
type Row struct {
	Name     string
	Phone    string
	Email    string
	Document string
	Origin   string
	Line     int
}

// HasIdentifier reports whether the row carries at least one identity key.
func (r Row) HasIdentifier() bool {
	return r.Phone != "" || r.Email != "" || r.Document != ""
}

type Parser interface {
	Parse(r io.Reader) ([]Row, error)
}

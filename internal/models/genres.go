package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// genreSeparator keeps stored values compatible with rows written by the
// previous version of the listing site.
const genreSeparator = ", "

// Genres is stored as a single delimited column and split on read.
type Genres []string

func (g Genres) Value() (driver.Value, error) {
	return strings.Join(g, genreSeparator), nil
}

func (g *Genres) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*g = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("genres: unsupported scan type %T", src)
	}
	if raw == "" {
		*g = nil
		return nil
	}
	*g = strings.Split(raw, genreSeparator)
	return nil
}

func (g Genres) String() string {
	return strings.Join(g, genreSeparator)
}

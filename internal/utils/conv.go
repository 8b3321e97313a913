package utils

import (
	"strconv"
	"strings"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

// ParseID parses a positive database id.
func ParseID(s string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

// ParseIDList parses "1,2,3". Empty items are skipped; any invalid item fails the whole list.
func ParseIDList(s string) ([]uint, bool) {
	var ids []uint
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, ok := ParseID(part)
		if !ok {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, len(ids) > 0
}

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	MaxPage        = 10000
)

// Page is a normalized page/per_page pair.
type Page struct {
	Page    int
	PerPage int
}

// NewPage clamps raw query values: page in [1, MaxPage], per_page in [1, MaxPerPage].
func NewPage(page, perPage string) Page {
	p := Page{Page: StringToInt(page), PerPage: StringToInt(perPage)}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

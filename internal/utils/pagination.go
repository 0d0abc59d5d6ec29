package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// PaginationInfo contains pagination metadata
type PaginationInfo struct {
	Total      int
	PerPage    int
	Current    int
	Offset     int
	TotalPages int
}

// NewPagination clamps current into [1, TotalPages]; an empty result still has one page.
func NewPagination(total, perPage, current int) *PaginationInfo {
	if perPage < 1 {
		perPage = 1
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	return &PaginationInfo{
		Total:      total,
		PerPage:    perPage,
		Current:    current,
		Offset:     (current - 1) * perPage,
		TotalPages: totalPages,
	}
}

// LimitOffset returns LIMIT and OFFSET for SQL queries
func (p *PaginationInfo) LimitOffset() (limit, offset int) {
	return p.PerPage, p.Offset
}

// Range returns the 1-indexed span of lists on the current page.
func (p *PaginationInfo) Range() (start, end int) {
	start = p.Offset + 1
	end = p.Offset + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

func (p *PaginationInfo) HasNext() bool { return p.Current < p.TotalPages }
func (p *PaginationInfo) HasPrev() bool { return p.Current > 1 }

// FormatSummary returns e.g. "Showing 1-10 of 23 lists (page 1 of 3)".
func (p *PaginationInfo) FormatSummary() string {
	if p.Total == 0 {
		return "No lists yet"
	}
	start, end := p.Range()
	if p.TotalPages == 1 {
		return fmt.Sprintf("Showing %d-%d of %d list%s", start, end, p.Total, plural(p.Total))
	}
	return fmt.Sprintf("Showing %d-%d of %d list%s (page %d of %d)",
		start, end, p.Total, plural(p.Total), p.Current, p.TotalPages)
}

// FormatNavigation returns --page hints for the history command.
func (p *PaginationInfo) FormatNavigation() string {
	if p.TotalPages <= 1 {
		return ""
	}
	var hints []string
	if p.HasPrev() {
		hints = append(hints, fmt.Sprintf("use --page %d for previous", p.Current-1))
	}
	if p.HasNext() {
		hints = append(hints, fmt.Sprintf("use --page %d for next", p.Current+1))
	}
	return strings.Join(hints, ", ")
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

// ParsePage accepts a page number or "first"; "last" resolves to lastPage when it is known (>0).
func ParsePage(input string, lastPage int) (int, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	switch input {
	case "", "first", "start":
		return 1, nil
	case "last", "end":
		if lastPage > 0 {
			return lastPage, nil
		}
		return 1, fmt.Errorf("last page is not known yet")
	}
	page, err := strconv.Atoi(input)
	if err != nil {
		return 1, fmt.Errorf("invalid page number: %q", input)
	}
	if page < 1 {
		return 1, fmt.Errorf("page number must be positive")
	}
	return page, nil
}

package analytics

import (
	"slices"
	"strings"

	"finance_tracker/internal/model"
)

// Page size bounds for Paginate.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Criteria narrows a transaction list. Zero value matches everything.
type Criteria struct {
	Search string
	Tags   []string
}

// IsEmpty reports whether the criteria filter nothing out.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Search) == "" && len(NormalizeTags(c.Tags)) == 0
}

// Filter keeps transactions whose label contains Search (case-insensitive) and
// that carry at least one of Tags. Relative order is preserved and txs is not modified.
func Filter(txs []model.Transaction, c Criteria) []model.Transaction {
	if c.IsEmpty() {
		return slices.Clone(txs)
	}
	search := strings.ToLower(strings.TrimSpace(c.Search))
	tags := NormalizeTags(c.Tags)

	out := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if search != "" && !strings.Contains(strings.ToLower(t.Label()), search) {
			continue
		}
		if len(tags) > 0 && !hasAnyTag(t.Tags, tags) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func hasAnyTag(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// NormalizeTags trims tags, drops empty ones and removes case-insensitive
// duplicates, keeping the first spelling seen.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Paginate returns the requested 1-based page along with the total item count.
// Out-of-range pages are empty; the page size is clamped to MaxPageSize.
func Paginate(txs []model.Transaction, page, pageSize int) model.TransactionPage {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	result := model.TransactionPage{
		Items:    []model.Transaction{},
		Total:    len(txs),
		Page:     page,
		PageSize: pageSize,
	}
	pages := (len(txs) + pageSize - 1) / pageSize
	if page > pages {
		return result
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(txs))
	result.Items = txs[start:end]
	return result
}

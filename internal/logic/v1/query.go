package v1

import (
	"math"
	"strconv"
	"strings"

	"github.com/duynhne/jobs-service/internal/core/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	// filterAll disables the status or jobType filter.
	filterAll = "all"
)

var sortKeys = map[string]domain.JobSort{
	"latest": domain.SortLatest,
	"oldest": domain.SortOldest,
	"a-z":    domain.SortPositionAsc,
	"z-a":    domain.SortPositionDesc,
}

// ListJobsParams are the raw query-string parameters of GET /jobs.
type ListJobsParams struct {
	Status  string `form:"status"`
	JobType string `form:"jobType"`
	Search  string `form:"search"`
	Sort    string `form:"sort"`
	Page    string `form:"page"`
	Limit   string `form:"limit"`
}

// BuildJobQuery turns listing parameters into an owner-scoped store query.
// Unknown sort keys keep the store's natural order. Page and limit fall back
// to 1 and 10 when absent, non-numeric or not positive.
func BuildJobQuery(ownerID string, p ListJobsParams) domain.JobQuery {
	filter := domain.JobFilter{
		CreatedBy: ownerID,
		Search:    p.Search,
	}
	if p.Status != "" && p.Status != filterAll {
		filter.Status = p.Status
	}
	if p.JobType != "" && p.JobType != filterAll {
		filter.JobType = p.JobType
	}

	page := positiveIntOr(p.Page, defaultPage)
	limit := positiveIntOr(p.Limit, defaultLimit)

	return domain.JobQuery{
		Filter: filter,
		Sort:   sortKeys[p.Sort],
		Skip:   skipFor(page, limit),
		Limit:  limit,
	}
}

// numOfPages is ceil(total / limit).
func numOfPages(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}

func skipFor(page, limit int) int {
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// positiveIntOr parses the leading integer of s, ignoring any trailing
// characters, and returns def when there is none or it is not positive.
func positiveIntOr(s string, def int) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return def
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return def
	}
	return n
}

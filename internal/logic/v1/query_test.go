package v1

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duynhne/jobs-service/internal/core/domain"
)

func TestBuildJobQuery(t *testing.T) {
	tests := []struct {
		name   string
		params ListJobsParams
		want   domain.JobQuery
	}{
		{
			name:   "defaults",
			params: ListJobsParams{},
			want: domain.JobQuery{
				Filter: domain.JobFilter{CreatedBy: "u1"},
				Sort:   domain.SortNatural,
				Skip:   0,
				Limit:  10,
			},
		},
		{
			name:   "all disables status and jobType filters",
			params: ListJobsParams{Status: "all", JobType: "all"},
			want: domain.JobQuery{
				Filter: domain.JobFilter{CreatedBy: "u1"},
				Limit:  10,
			},
		},
		{
			name:   "filters and search",
			params: ListJobsParams{Status: "pending", JobType: "remote", Search: "dev"},
			want: domain.JobQuery{
				Filter: domain.JobFilter{CreatedBy: "u1", Status: "pending", JobType: "remote", Search: "dev"},
				Limit:  10,
			},
		},
		{
			name:   "page 2 limit 5",
			params: ListJobsParams{Page: "2", Limit: "5", Sort: "z-a"},
			want: domain.JobQuery{
				Filter: domain.JobFilter{CreatedBy: "u1"},
				Sort:   domain.SortPositionDesc,
				Skip:   5,
				Limit:  5,
			},
		},
		{
			name:   "non-numeric and non-positive fall back",
			params: ListJobsParams{Page: "abc", Limit: "-3", Sort: "random"},
			want: domain.JobQuery{
				Filter: domain.JobFilter{CreatedBy: "u1"},
				Sort:   domain.SortNatural,
				Limit:  10,
			},
		},
		{
			name:   "zero falls back",
			params: ListJobsParams{Page: "0", Limit: "0"},
			want: domain.JobQuery{
				Filter: domain.JobFilter{CreatedBy: "u1"},
				Limit:  10,
			},
		},
		{
			name:   "leading digits are parsed",
			params: ListJobsParams{Page: "3rd", Limit: "4.5"},
			want: domain.JobQuery{
				Filter: domain.JobFilter{CreatedBy: "u1"},
				Skip:   8,
				Limit:  4,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildJobQuery("u1", tt.params))
		})
	}
}

func TestBuildJobQuery_SortKeys(t *testing.T) {
	for key, want := range map[string]domain.JobSort{
		"latest": domain.SortLatest,
		"oldest": domain.SortOldest,
		"a-z":    domain.SortPositionAsc,
		"z-a":    domain.SortPositionDesc,
		"":       domain.SortNatural,
	} {
		assert.Equal(t, want, BuildJobQuery("u1", ListJobsParams{Sort: key}).Sort, key)
	}
}

func TestBuildJobQuery_HugePageSaturates(t *testing.T) {
	q := BuildJobQuery("u1", ListJobsParams{Page: "9223372036854775807", Limit: "100"})
	assert.Equal(t, math.MaxInt, q.Skip)
}

func TestBuildJobQuery_HugeLimit(t *testing.T) {
	q := BuildJobQuery("u1", ListJobsParams{Page: "2", Limit: "9223372036854775807"})
	assert.Equal(t, math.MaxInt, q.Limit)
	assert.Equal(t, math.MaxInt, q.Skip)
	assert.Equal(t, 1, numOfPages(5, q.Limit))
}

func TestNumOfPages(t *testing.T) {
	assert.Equal(t, 3, numOfPages(12, 5))
	assert.Equal(t, 1, numOfPages(10, 10))
	assert.Equal(t, 2, numOfPages(11, 10))
	assert.Equal(t, 0, numOfPages(0, 10))
	assert.Equal(t, 1, numOfPages(5, math.MaxInt))
	assert.Equal(t, 1, numOfPages(math.MaxInt, math.MaxInt))
	assert.Equal(t, math.MaxInt, numOfPages(math.MaxInt, 1))
}

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/duynhne/jobs-service/internal/core/domain"
)

func TestBuildJobWhere(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.JobFilter
		wantWhere string
		wantArgs  []any
	}{
		{
			name:      "owner only",
			filter:    domain.JobFilter{CreatedBy: "u1"},
			wantWhere: "created_by = $1",
			wantArgs:  []any{"u1"},
		},
		{
			name:      "all filters",
			filter:    domain.JobFilter{CreatedBy: "u1", Search: "dev", Status: "pending", JobType: "remote"},
			wantWhere: `created_by = $1 AND position ILIKE $2 ESCAPE '\' AND status = $3 AND job_type = $4`,
			wantArgs:  []any{"u1", "%dev%", "pending", "remote"},
		},
		{
			name:      "wildcards in search are literal",
			filter:    domain.JobFilter{CreatedBy: "u1", Search: `50%_off\`},
			wantWhere: `created_by = $1 AND position ILIKE $2 ESCAPE '\'`,
			wantArgs:  []any{"u1", `%50\%\_off\\%`},
		},
		{
			name:      "job type without status",
			filter:    domain.JobFilter{CreatedBy: "u1", JobType: "internship"},
			wantWhere: "created_by = $1 AND job_type = $2",
			wantArgs:  []any{"u1", "internship"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildJobWhere(tt.filter)
			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestJobOrderBy(t *testing.T) {
	assert.Equal(t, "seq ASC", jobOrderBy(domain.SortNatural))
	assert.Equal(t, "created_at DESC, seq DESC", jobOrderBy(domain.SortLatest))
	assert.Equal(t, "created_at ASC, seq ASC", jobOrderBy(domain.SortOldest))
	assert.Equal(t, `position COLLATE "C" ASC, seq ASC`, jobOrderBy(domain.SortPositionAsc))
	assert.Equal(t, `position COLLATE "C" DESC, seq DESC`, jobOrderBy(domain.SortPositionDesc))
}

func TestValidUUID(t *testing.T) {
	assert.True(t, validUUID("6f1c2a52-8d43-4f3e-9a1b-0c2d3e4f5a6b"))
	assert.False(t, validUUID("not-a-uuid"))
	assert.False(t, validUUID(""))
}

func TestJobFilterDocument(t *testing.T) {
	owner := bson.NewObjectID()

	doc := jobFilterDocument(owner, domain.JobFilter{Search: "c++ dev", Status: "interview", JobType: "remote"})

	assert.Equal(t, bson.D{
		{Key: "createdBy", Value: owner},
		{Key: "position", Value: bson.Regex{Pattern: `c\+\+ dev`, Options: "i"}},
		{Key: "status", Value: "interview"},
		{Key: "jobType", Value: "remote"},
	}, doc)

	assert.Equal(t, bson.D{{Key: "createdBy", Value: owner}}, jobFilterDocument(owner, domain.JobFilter{}))
}

func TestJobSortDocument(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, jobSortDocument(domain.SortNatural))
	assert.Equal(t, bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}, jobSortDocument(domain.SortLatest))
	assert.Equal(t, bson.D{{Key: "position", Value: -1}, {Key: "_id", Value: -1}}, jobSortDocument(domain.SortPositionDesc))
}

func TestJobSetDocument(t *testing.T) {
	status := domain.StatusDeclined
	set := jobSetDocument(domain.JobUpdate{Company: "Acme", Position: "Dev", Status: &status})

	require.Len(t, set, 4)
	assert.Equal(t, bson.E{Key: "company", Value: "Acme"}, set[0])
	assert.Equal(t, bson.E{Key: "position", Value: "Dev"}, set[1])
	assert.Equal(t, bson.E{Key: "status", Value: "declined"}, set[2])
	assert.Equal(t, "updatedAt", set[3].Key)
}

func TestOwnedJobFilter(t *testing.T) {
	owner, id := bson.NewObjectID(), bson.NewObjectID()

	doc, ok := ownedJobFilter(owner.Hex(), id.Hex())
	require.True(t, ok)
	assert.Equal(t, bson.D{{Key: "_id", Value: id}, {Key: "createdBy", Value: owner}}, doc)

	_, ok = ownedJobFilter(owner.Hex(), "nope")
	assert.False(t, ok)
	_, ok = ownedJobFilter("nope", id.Hex())
	assert.False(t, ok)
}

func TestMonthlyPipeline(t *testing.T) {
	p := monthlyPipeline(bson.NewObjectID(), 6)
	require.Len(t, p, 4)
	assert.Equal(t, "$match", p[0][0].Key)
	assert.Equal(t, "$group", p[1][0].Key)
	assert.Equal(t, "$sort", p[2][0].Key)
	assert.Equal(t, bson.E{Key: "$limit", Value: 6}, p[3][0])
}

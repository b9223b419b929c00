package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/duynhne/jobs-service/internal/core/domain"
)

var _ domain.JobRepository = (*MongoJobRepository)(nil)

// MongoJobRepository implements domain.JobRepository on a MongoDB collection.
type MongoJobRepository struct {
	coll *mongo.Collection
}

// NewMongoJobRepository creates a new MongoJobRepository.
func NewMongoJobRepository(db *mongo.Database) *MongoJobRepository {
	return &MongoJobRepository{coll: db.Collection(jobsCollection)}
}

type jobDocument struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Company     string        `bson:"company"`
	Position    string        `bson:"position"`
	Status      string        `bson:"status"`
	JobType     string        `bson:"jobType"`
	JobLocation string        `bson:"jobLocation"`
	CreatedBy   bson.ObjectID `bson:"createdBy"`
	CreatedAt   time.Time     `bson:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt"`
}

func (d *jobDocument) toDomain() domain.Job {
	return domain.Job{
		ID:          d.ID.Hex(),
		Company:     d.Company,
		Position:    d.Position,
		Status:      domain.JobStatus(d.Status),
		JobType:     domain.JobType(d.JobType),
		JobLocation: d.JobLocation,
		CreatedBy:   d.CreatedBy.Hex(),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// List returns one page of the owner's jobs.
func (r *MongoJobRepository) List(ctx context.Context, query domain.JobQuery) ([]domain.Job, error) {
	jobs := make([]domain.Job, 0)
	owner, err := bson.ObjectIDFromHex(query.Filter.CreatedBy)
	if err != nil {
		return jobs, nil
	}

	opts := options.Find().SetSort(jobSortDocument(query.Sort))
	if query.Skip > 0 {
		opts.SetSkip(int64(query.Skip))
	}
	if query.Limit > 0 {
		opts.SetLimit(int64(query.Limit))
	}

	cursor, err := r.coll.Find(ctx, jobFilterDocument(owner, query.Filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc jobDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		jobs = append(jobs, doc.toDomain())
	}
	return jobs, cursor.Err()
}

// Count returns the number of jobs matching the filter.
func (r *MongoJobRepository) Count(ctx context.Context, filter domain.JobFilter) (int, error) {
	owner, err := bson.ObjectIDFromHex(filter.CreatedBy)
	if err != nil {
		return 0, nil
	}
	n, err := r.coll.CountDocuments(ctx, jobFilterDocument(owner, filter))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// GetByID returns the owner's job with the given id.
// Returns (nil, nil) when no such job exists for the owner.
func (r *MongoJobRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Job, error) {
	filter, ok := ownedJobFilter(ownerID, id)
	if !ok {
		return nil, nil
	}
	var doc jobDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	job := doc.toDomain()
	return &job, nil
}

// Create inserts a new job.
func (r *MongoJobRepository) Create(ctx context.Context, job *domain.Job) error {
	owner, err := bson.ObjectIDFromHex(job.CreatedBy)
	if err != nil {
		return err
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	job.UpdatedAt = job.CreatedAt

	doc := jobDocument{
		ID:          bson.NewObjectID(),
		Company:     job.Company,
		Position:    job.Position,
		Status:      string(job.Status),
		JobType:     string(job.JobType),
		JobLocation: job.JobLocation,
		CreatedBy:   owner,
		CreatedAt:   job.CreatedAt,
		UpdatedAt:   job.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return err
	}
	job.ID = doc.ID.Hex()
	return nil
}

// Update applies the update with a single find-and-modify filtered by owner.
func (r *MongoJobRepository) Update(ctx context.Context, ownerID, id string, update domain.JobUpdate) (*domain.Job, error) {
	filter, ok := ownedJobFilter(ownerID, id)
	if !ok {
		return nil, nil
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc jobDocument
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: jobSetDocument(update)}}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	job := doc.toDomain()
	return &job, nil
}

// Delete removes the owner's job.
func (r *MongoJobRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	filter, ok := ownedJobFilter(ownerID, id)
	if !ok {
		return false, nil
	}
	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// CountByStatus groups the owner's jobs by status.
func (r *MongoJobRepository) CountByStatus(ctx context.Context, ownerID string) ([]domain.StatusCount, error) {
	counts := make([]domain.StatusCount, 0)
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return counts, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "createdBy", Value: owner}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int    `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts = append(counts, domain.StatusCount{Status: row.Status, Count: row.Count})
	}
	return counts, cursor.Err()
}

// CountByMonth groups the owner's jobs by creation year and month, newest first.
func (r *MongoJobRepository) CountByMonth(ctx context.Context, ownerID string, limit int) ([]domain.MonthlyCount, error) {
	counts := make([]domain.MonthlyCount, 0)
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return counts, nil
	}

	cursor, err := r.coll.Aggregate(ctx, monthlyPipeline(owner, limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			ID struct {
				Year  int `bson:"year"`
				Month int `bson:"month"`
			} `bson:"_id"`
			Count int `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		counts = append(counts, domain.MonthlyCount{
			Year:  row.ID.Year,
			Month: time.Month(row.ID.Month),
			Count: row.Count,
		})
	}
	return counts, cursor.Err()
}

func monthlyPipeline(owner bson.ObjectID, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "createdBy", Value: owner}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "year", Value: bson.D{{Key: "$year", Value: "$createdAt"}}},
				{Key: "month", Value: bson.D{{Key: "$month", Value: "$createdAt"}}},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.year", Value: -1}, {Key: "_id.month", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

// jobFilterDocument renders the filter as a query document.
func jobFilterDocument(owner bson.ObjectID, filter domain.JobFilter) bson.D {
	doc := bson.D{{Key: "createdBy", Value: owner}}
	if filter.Search != "" {
		doc = append(doc, bson.E{Key: "position", Value: bson.Regex{
			Pattern: regexp.QuoteMeta(filter.Search),
			Options: "i",
		}})
	}
	if filter.Status != "" {
		doc = append(doc, bson.E{Key: "status", Value: filter.Status})
	}
	if filter.JobType != "" {
		doc = append(doc, bson.E{Key: "jobType", Value: filter.JobType})
	}
	return doc
}

// jobSortDocument maps a sort key to a sort document. ObjectIDs grow with
// insertion, so _id is the natural order and the tiebreaker.
func jobSortDocument(sort domain.JobSort) bson.D {
	switch sort {
	case domain.SortLatest:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	case domain.SortOldest:
		return bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortPositionAsc:
		return bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortPositionDesc:
		return bson.D{{Key: "position", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: 1}}
	}
}

func jobSetDocument(update domain.JobUpdate) bson.D {
	set := bson.D{
		{Key: "company", Value: update.Company},
		{Key: "position", Value: update.Position},
	}
	if update.Status != nil {
		set = append(set, bson.E{Key: "status", Value: string(*update.Status)})
	}
	if update.JobType != nil {
		set = append(set, bson.E{Key: "jobType", Value: string(*update.JobType)})
	}
	if update.JobLocation != nil {
		set = append(set, bson.E{Key: "jobLocation", Value: *update.JobLocation})
	}
	return append(set, bson.E{Key: "updatedAt", Value: time.Now().UTC()})
}

func ownedJobFilter(ownerID, id string) (bson.D, bool) {
	owner, err := bson.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, false
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, false
	}
	return bson.D{{Key: "_id", Value: oid}, {Key: "createdBy", Value: owner}}, true
}

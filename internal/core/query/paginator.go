package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"vidtube/pkg/errors"
)

// Runner executes a compiled pipeline against a collection and decodes the
// result set into results (a pointer to a slice). Implemented by the mongo
// repositories; tests substitute a fake.
type Runner interface {
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error
}

// PageRequest is a validated page/limit pair.
type PageRequest struct {
	Page  int64
	Limit int64
}

// Validate rejects non-positive page or limit.
func (r PageRequest) Validate() error {
	if r.Page < 1 {
		return errors.NewInvalidArgumentError("page must be a positive integer")
	}
	if r.Limit < 1 {
		return errors.NewInvalidArgumentError("limit must be a positive integer")
	}
	return nil
}

// Page is one bounded page of results with navigation metadata.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Page        int64 `json:"page"`
	Limit       int64 `json:"limit"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int64 `json:"total_pages"`
	HasNextPage bool  `json:"has_next_page"`
	HasPrevPage bool  `json:"has_prev_page"`
}

// Paginate runs pipeline twice: once with a $count tail to compute totals
// over the same filtered-and-joined stream, once with $skip/$limit for the
// page itself. A page past the end returns empty items with correct totals.
func Paginate[T any](ctx context.Context, runner Runner, pipeline mongo.Pipeline, req PageRequest) (*Page[T], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	total, err := countTotal(ctx, runner, pipeline)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeInternal, "failed to count results", 500)
	}

	skip := (req.Page - 1) * req.Limit
	paged := append(mongo.Pipeline{}, pipeline...)
	paged = append(paged,
		bson.D{{Key: "$skip", Value: skip}},
		bson.D{{Key: "$limit", Value: req.Limit}},
	)

	items := []T{}
	if err := runner.Aggregate(ctx, paged, &items); err != nil {
		return nil, errors.WrapError(err, errors.ErrCodeInternal, "failed to fetch page", 500)
	}

	totalPages := total / req.Limit
	if total%req.Limit != 0 {
		totalPages++
	}

	return &Page[T]{
		Items:       items,
		Page:        req.Page,
		Limit:       req.Limit,
		TotalItems:  total,
		TotalPages:  totalPages,
		HasNextPage: req.Page < totalPages,
		HasPrevPage: req.Page > 1 && total > 0,
	}, nil
}

func countTotal(ctx context.Context, runner Runner, pipeline mongo.Pipeline) (int64, error) {
	counting := append(mongo.Pipeline{}, pipeline...)
	counting = append(counting, bson.D{{Key: "$count", Value: "total"}})

	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := runner.Aggregate(ctx, counting, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		// $count emits nothing for an empty stream
		return 0, nil
	}
	return out[0].Total, nil
}

// Package query composes aggregation pipelines from typed stages and runs
// them through a pagination engine. Stages are a small tagged-variant AST so
// pipeline shape is checked by the compiler instead of assembled from untyped
// nested documents at call sites.
package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stage is one pipeline step. The concrete variants are MatchStage,
// JoinStage, ReshapeStage, ComputeFieldStage and SortStage.
type Stage interface {
	// Compile renders the stage into one or more pipeline documents.
	Compile() []bson.D
}

// MatchStage filters documents. Chained match stages AND together because
// each one narrows the document stream before the next.
type MatchStage struct {
	Filter bson.D
}

func (s MatchStage) Compile() []bson.D {
	filter := s.Filter
	if filter == nil {
		filter = bson.D{}
	}
	return []bson.D{{{Key: "$match", Value: filter}}}
}

// JoinStage performs a left-outer join against a foreign collection,
// producing an array-valued field named As. An empty foreign key set yields
// an empty array, not an error. For one-to-one relationships callers collapse
// the array with First.
type JoinStage struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
	Inner        []Stage
}

func (s JoinStage) Compile() []bson.D {
	lookup := bson.D{
		{Key: "from", Value: s.From},
		{Key: "localField", Value: s.LocalField},
		{Key: "foreignField", Value: s.ForeignField},
		{Key: "as", Value: s.As},
	}
	if len(s.Inner) > 0 {
		inner := make([]bson.D, 0, len(s.Inner))
		for _, st := range s.Inner {
			inner = append(inner, st.Compile()...)
		}
		lookup = append(lookup, bson.E{Key: "pipeline", Value: inner})
	}
	return []bson.D{{{Key: "$lookup", Value: lookup}}}
}

// ProjectField is one entry of a reshape: include a field as-is, or bind it
// to an expression (e.g. a renamed path like "$owner.username").
type ProjectField struct {
	Name string
	Expr interface{} // nil means include verbatim
}

// ReshapeStage projects the document down to the named fields.
type ReshapeStage struct {
	Fields []ProjectField
}

func (s ReshapeStage) Compile() []bson.D {
	spec := bson.D{}
	for _, f := range s.Fields {
		if f.Expr == nil {
			spec = append(spec, bson.E{Key: f.Name, Value: 1})
		} else {
			spec = append(spec, bson.E{Key: f.Name, Value: f.Expr})
		}
	}
	return []bson.D{{{Key: "$project", Value: spec}}}
}

// Expr is a computed-field expression. Variants: Size, CondIn, First, Sum.
type Expr interface {
	compile(name string) bson.D
}

// SizeExpr computes the cardinality of an array field.
type SizeExpr struct {
	Field string
}

func (e SizeExpr) compile(name string) bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: name, Value: bson.D{{Key: "$size", Value: "$" + e.Field}}},
	}}}
}

// CondInExpr computes a boolean: whether Elem is a member of the array field.
// Used for "is the current principal among the subscribers".
type CondInExpr struct {
	Elem  interface{}
	Field string
}

func (e CondInExpr) compile(name string) bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: name, Value: bson.D{{Key: "$cond", Value: bson.D{
			{Key: "if", Value: bson.D{{Key: "$in", Value: bson.A{e.Elem, "$" + e.Field}}}},
			{Key: "then", Value: true},
			{Key: "else", Value: false},
		}}}},
	}}}
}

// FirstExpr collapses an array-valued field to its first element (or null).
// Required after every one-to-one join so no ambiguous arrays reach clients.
type FirstExpr struct {
	Field string
}

func (e FirstExpr) compile(name string) bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: name, Value: bson.D{{Key: "$first", Value: "$" + e.Field}}},
	}}}
}

// SumExpr aggregates a scalar sum over all matched rows. Unlike the other
// expressions it collapses the stream into a single document ($group).
// Summing the literal 1 counts rows.
type SumExpr struct {
	Value interface{} // "$field" or a literal
}

func (e SumExpr) compile(name string) bson.D {
	return bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: name, Value: bson.D{{Key: "$sum", Value: e.Value}}},
	}}}
}

// ComputeFieldStage adds a derived field to every document in the stream.
type ComputeFieldStage struct {
	Name string
	Expr Expr
}

func (s ComputeFieldStage) Compile() []bson.D {
	return []bson.D{s.Expr.compile(s.Name)}
}

// SortStage orders the stream by a single field.
type SortStage struct {
	Field      string
	Descending bool
}

func (s SortStage) Compile() []bson.D {
	dir := 1
	if s.Descending {
		dir = -1
	}
	return []bson.D{{{Key: "$sort", Value: bson.D{{Key: s.Field, Value: dir}}}}}
}

// Builder accumulates stages into a lazy, re-runnable pipeline description.
// Nothing executes until the built pipeline is handed to a runner.
type Builder struct {
	stages []Stage
}

// NewBuilder returns an empty pipeline builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Match appends a filter stage.
func (b *Builder) Match(filter bson.D) *Builder {
	b.stages = append(b.stages, MatchStage{Filter: filter})
	return b
}

// Join appends a left-outer join stage.
func (b *Builder) Join(from, localField, foreignField, as string, inner ...Stage) *Builder {
	b.stages = append(b.stages, JoinStage{
		From:         from,
		LocalField:   localField,
		ForeignField: foreignField,
		As:           as,
		Inner:        inner,
	})
	return b
}

// Reshape appends a projection stage.
func (b *Builder) Reshape(fields ...ProjectField) *Builder {
	b.stages = append(b.stages, ReshapeStage{Fields: fields})
	return b
}

// ComputeField appends a derived-field stage.
func (b *Builder) ComputeField(name string, expr Expr) *Builder {
	b.stages = append(b.stages, ComputeFieldStage{Name: name, Expr: expr})
	return b
}

// Sort appends a sort stage.
func (b *Builder) Sort(field string, descending bool) *Builder {
	b.stages = append(b.stages, SortStage{Field: field, Descending: descending})
	return b
}

// Build validates stage ordering and compiles the pipeline. Match stages must
// precede the first join so the storage engine can use indexes on the base
// collection.
func (b *Builder) Build() (mongo.Pipeline, error) {
	joined := false
	for _, st := range b.stages {
		switch st.(type) {
		case JoinStage:
			joined = true
		case MatchStage:
			if joined {
				return nil, fmt.Errorf("match stage must precede join stages")
			}
		}
	}

	pipeline := mongo.Pipeline{}
	for _, st := range b.stages {
		pipeline = append(pipeline, st.Compile()...)
	}
	return pipeline, nil
}

// Predicate helpers. Callers normalize values first (lowercased usernames,
// validated ObjectIDs); these only shape the filter document.

// Eq matches exact equality on a field.
func Eq(field string, value interface{}) bson.D {
	return bson.D{{Key: field, Value: value}}
}

// EqID matches exact equality on an ObjectID-valued field.
func EqID(field string, id primitive.ObjectID) bson.D {
	return bson.D{{Key: field, Value: id}}
}

// Contains matches a case-insensitive substring on a text field.
func Contains(field, text string) bson.D {
	return bson.D{{Key: field, Value: bson.D{
		{Key: "$regex", Value: text},
		{Key: "$options", Value: "i"},
	}}}
}

// Or combines predicates disjunctively.
func Or(predicates ...bson.D) bson.D {
	clauses := bson.A{}
	for _, p := range predicates {
		clauses = append(clauses, p)
	}
	return bson.D{{Key: "$or", Value: clauses}}
}

// And combines predicates conjunctively. An explicit $and keeps repeated
// constraints on the same field intact; flattening them into one document
// would let the later key shadow the earlier one.
func And(predicates ...bson.D) bson.D {
	clauses := bson.A{}
	for _, p := range predicates {
		clauses = append(clauses, p)
	}
	return bson.D{{Key: "$and", Value: clauses}}
}

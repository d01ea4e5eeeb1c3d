package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cu-events/events-api/internal/errdef"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const idField = "_id"

var tracer = otel.Tracer("github.com/cu-events/events-api/pkg/docstore")

//goland:noinspection GoExportedFuncWithUnexportedType
func NewMongo(database *mongo.Database) *mongoStore {
	return &mongoStore{database}
}

type mongoStore struct {
	database *mongo.Database
}

func (s *mongoStore) Query(ctx context.Context, collection string, filters []Filter, orderBy []Order) (docs []Document, err error) {
	ctx, span := startSpan(ctx, "Query", collection)
	defer func() { endSpan(span, err) }()

	filter := bson.D{}
	for _, f := range filters {
		filter = append(filter, bson.E{Key: f.Field, Value: f.Value})
	}

	sort := bson.D{}
	for _, o := range orderBy {
		direction := 1
		if o.Descending {
			direction = -1
		}
		sort = append(sort, bson.E{Key: o.Field, Value: direction})
	}
	// results with equal sort keys are returned in id order
	sort = append(sort, bson.E{Key: idField, Value: 1})

	cursor, err := s.database.Collection(collection).Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %v", collection, err)
	}

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to read %q query results: %v", collection, err)
	}

	docs = make([]Document, len(results))
	for i, result := range results {
		docs[i] = toDocument(result)
	}
	return docs, nil
}

func (s *mongoStore) Get(ctx context.Context, collection, id string) (record Record, err error) {
	ctx, span := startSpan(ctx, "Get", collection)
	defer func() { endSpan(span, err) }()

	var result bson.M
	err = s.database.Collection(collection).FindOne(ctx, bson.D{{Key: idField, Value: id}}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errdef.NewNotFound("document %q not found in %q", id, collection)
		}
		return nil, fmt.Errorf("failed to get document %q from %q: %v", id, collection, err)
	}

	return toDocument(result).Record, nil
}

func (s *mongoStore) Set(ctx context.Context, collection, id string, record Record, merge bool) (err error) {
	ctx, span := startSpan(ctx, "Set", collection)
	span.SetAttributes(attribute.Bool("docstore.merge", merge))
	defer func() { endSpan(span, err) }()

	ctx = context.WithoutCancel(ctx)
	filter := bson.D{{Key: idField, Value: id}}
	c := s.database.Collection(collection)
	if merge {
		update := bson.D{{Key: "$set", Value: toBSON(record)}}
		_, err = c.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	} else {
		_, err = c.ReplaceOne(ctx, filter, toBSON(record), options.Replace().SetUpsert(true))
	}
	if err != nil {
		return fmt.Errorf("failed to write document %q to %q: %v", id, collection, err)
	}

	return nil
}

func (s *mongoStore) Delete(ctx context.Context, collection, id string) (err error) {
	ctx, span := startSpan(ctx, "Delete", collection)
	defer func() { endSpan(span, err) }()

	_, err = s.database.Collection(collection).DeleteOne(context.WithoutCancel(ctx), bson.D{{Key: idField, Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete document %q from %q: %v", id, collection, err)
	}

	return nil
}

func startSpan(ctx context.Context, operation, collection string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "docstore."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("docstore.collection", collection)),
	)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func toBSON(record Record) bson.M {
	m := make(bson.M, len(record))
	for k, v := range record {
		if k == idField {
			continue
		}
		if t, ok := v.(time.Time); ok {
			v = primitive.NewDateTimeFromTime(t)
		}
		m[k] = v
	}
	return m
}

func toDocument(m bson.M) Document {
	var doc Document
	if id, ok := m[idField].(string); ok {
		doc.ID = id
	}

	doc.Record = make(Record, len(m))
	for k, v := range m {
		if k == idField {
			continue
		}
		doc.Record[k] = fromBSON(v)
	}
	return doc
}

// fromBSON converts values decoded by the driver into the value types of [Record]. Lists holding
// anything but strings are kept as []any and rejected by [Record.Strings].
func fromBSON(v any) any {
	switch value := v.(type) {
	case primitive.DateTime:
		return value.Time().UTC()
	case int32:
		return int64(value)
	case primitive.A:
		strings := make([]string, 0, len(value))
		for _, e := range value {
			s, ok := e.(string)
			if !ok {
				return []any(value)
			}
			strings = append(strings, s)
		}
		return strings
	}
	return v
}

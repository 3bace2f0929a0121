package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
	"convertapi/internal/repository"
)

// Collection is the subset of *mongo.Collection used by RecordMongo.
type Collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Database is the subset of a Mongo database used by RecordMongo.
type Database interface {
	Collection(name string) Collection
	ListCollectionNames(ctx context.Context, filter interface{}) ([]string, error)
	Ping(ctx context.Context) error
}

type driverDatabase struct {
	db *mongo.Database
}

func (d driverDatabase) Collection(name string) Collection {
	return d.db.Collection(name)
}

func (d driverDatabase) ListCollectionNames(ctx context.Context, filter interface{}) ([]string, error) {
	return d.db.ListCollectionNames(ctx, filter)
}

func (d driverDatabase) Ping(ctx context.Context) error {
	return d.db.Client().Ping(ctx, readpref.Primary())
}

// RecordMongo is a MongoDB implementation of repository.RecordRepository.
// Records are stored as-is; key order survives the round trip.
type RecordMongo struct {
	db Database
}

// NewRecordMongo wraps a driver database.
func NewRecordMongo(db *mongo.Database) *RecordMongo {
	return &RecordMongo{db: driverDatabase{db: db}}
}

// NewRecordMongoWith uses any Database implementation.
func NewRecordMongoWith(db Database) *RecordMongo {
	return &RecordMongo{db: db}
}

var _ repository.RecordRepository = (*RecordMongo)(nil)

// Insert stores rec and returns its _id as a string.
func (r *RecordMongo) Insert(ctx context.Context, collection string, rec model.Record) (string, error) {
	const op = "mongo.Insert"

	doc, err := toBSON(rec)
	if err != nil {
		return "", apperr.Wrapf(apperr.KindContent, op, err, "record cannot be stored")
	}

	res, err := r.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", apperr.Wrapf(apperr.KindStorage, op, err, "insert into %s", collection)
	}
	return IDString(res.InsertedID), nil
}

// ListAll returns every record of collection in natural order.
func (r *RecordMongo) ListAll(ctx context.Context, collection string) ([]model.Record, error) {
	const op = "mongo.ListAll"

	cur, err := r.db.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindStorage, op, err, "find in %s", collection)
	}
	defer cur.Close(ctx)

	out := make([]model.Record, 0)
	for cur.Next(ctx) {
		var doc bson.D
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Wrapf(apperr.KindStorage, op, err, "decode document")
		}
		rec, err := fromBSON(doc)
		if err != nil {
			return nil, apperr.Wrapf(apperr.KindStorage, op, err, "encode document")
		}
		out = append(out, rec)
	}
	if err := cur.Err(); err != nil {
		return nil, apperr.Wrapf(apperr.KindStorage, op, err, "iterate %s", collection)
	}
	return out, nil
}

// Collections lists the database's collection names.
func (r *RecordMongo) Collections(ctx context.Context) ([]string, error) {
	names, err := r.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, apperr.Wrapf(apperr.KindStorage, "mongo.Collections", err, "list collections")
	}
	return names, nil
}

// Ping checks the primary is reachable.
func (r *RecordMongo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return apperr.Wrapf(apperr.KindStorage, "mongo.Ping", err, "ping")
	}
	return nil
}

// IDString renders a database ID: ObjectIDs as hex, anything else via fmt.
func IDString(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

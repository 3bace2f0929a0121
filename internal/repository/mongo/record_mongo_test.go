package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"convertapi/internal/apperr"
	"convertapi/internal/model"
)

type fakeCollection struct {
	inserted  []interface{}
	insertID  interface{}
	insertErr error
	docs      []interface{}
	findErr   error
}

func (f *fakeCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = append(f.inserted, document)
	return &mongo.InsertOneResult{InsertedID: f.insertID}, nil
}

func (f *fakeCollection) Find(_ context.Context, _ interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

type fakeDatabase struct {
	collections map[string]*fakeCollection
	names       []string
	listErr     error
	pingErr     error
}

func (f *fakeDatabase) Collection(name string) Collection {
	if c, ok := f.collections[name]; ok {
		return c
	}
	c := &fakeCollection{}
	if f.collections == nil {
		f.collections = map[string]*fakeCollection{}
	}
	f.collections[name] = c
	return c
}

func (f *fakeDatabase) ListCollectionNames(context.Context, interface{}) ([]string, error) {
	return f.names, f.listErr
}

func (f *fakeDatabase) Ping(context.Context) error { return f.pingErr }

func record(t *testing.T, js string) model.Record {
	t.Helper()
	var r model.Record
	require.NoError(t, json.Unmarshal([]byte(js), &r))
	return r
}

func TestRecordMongo_Insert(t *testing.T) {
	oid := primitive.NewObjectID()
	coll := &fakeCollection{insertID: oid}
	repo := NewRecordMongoWith(&fakeDatabase{collections: map[string]*fakeCollection{"notes": coll}})

	id, err := repo.Insert(context.Background(), "notes", record(t, `{"b":1,"a":{"x":"y"}}`))
	require.NoError(t, err)
	assert.Equal(t, oid.Hex(), id)

	require.Len(t, coll.inserted, 1)
	doc, ok := coll.inserted[0].(bson.D)
	require.True(t, ok)
	require.Len(t, doc, 2)
	assert.Equal(t, "b", doc[0].Key)
	assert.Equal(t, "a", doc[1].Key)
}

func TestRecordMongo_InsertError(t *testing.T) {
	coll := &fakeCollection{insertErr: errors.New("connection reset")}
	repo := NewRecordMongoWith(&fakeDatabase{collections: map[string]*fakeCollection{"notes": coll}})

	_, err := repo.Insert(context.Background(), "notes", record(t, `{"a":1}`))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindStorage))
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRecordMongo_ListAll(t *testing.T) {
	oid := primitive.NewObjectID()
	coll := &fakeCollection{docs: []interface{}{
		bson.D{{Key: "_id", Value: oid}, {Key: "text", Value: "hi"}, {Key: "n", Value: int32(3)}},
		bson.D{{Key: "_id", Value: "custom"}, {Key: "nested", Value: bson.D{{Key: "k", Value: true}}}},
	}}
	repo := NewRecordMongoWith(&fakeDatabase{collections: map[string]*fakeCollection{"notes": coll}})

	recs, err := repo.ListAll(context.Background(), "notes")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	id, ok := recs[0].Get("_id")
	require.True(t, ok)
	assert.JSONEq(t, `"`+oid.Hex()+`"`, string(id))
	text, _ := recs[0].Get("text")
	assert.JSONEq(t, `"hi"`, string(text))
	n, _ := recs[0].Get("n")
	assert.JSONEq(t, `3`, string(n))

	id, _ = recs[1].Get("_id")
	assert.JSONEq(t, `"custom"`, string(id))
	nested, _ := recs[1].Get("nested")
	assert.JSONEq(t, `{"k":true}`, string(nested))
}

func TestRecordMongo_ListAllEmpty(t *testing.T) {
	repo := NewRecordMongoWith(&fakeDatabase{})

	recs, err := repo.ListAll(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecordMongo_ListAllFindError(t *testing.T) {
	coll := &fakeCollection{findErr: errors.New("unauthorized")}
	repo := NewRecordMongoWith(&fakeDatabase{collections: map[string]*fakeCollection{"notes": coll}})

	_, err := repo.ListAll(context.Background(), "notes")
	assert.True(t, apperr.Is(err, apperr.KindStorage))
}

func TestRecordMongo_CollectionsAndPing(t *testing.T) {
	db := &fakeDatabase{names: []string{"a", "b"}}
	repo := NewRecordMongoWith(db)

	names, err := repo.Collections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.NoError(t, repo.Ping(context.Background()))

	db.listErr = errors.New("timeout")
	db.pingErr = errors.New("timeout")
	_, err = repo.Collections(context.Background())
	assert.True(t, apperr.Is(err, apperr.KindStorage))
	assert.True(t, apperr.Is(repo.Ping(context.Background()), apperr.KindStorage))
}

func TestIDString(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid.Hex(), IDString(oid))
	assert.Equal(t, "abc", IDString("abc"))
	assert.Equal(t, "42", IDString(int32(42)))
}

func TestRecordMongo_NumbersSurviveRoundTrip(t *testing.T) {
	body := `{"price":2.50,"n":1e3,"small":7,"wide":9007199254740993,"big":12345678901234567890,"tiny":-1.5e-7,"zero":-0}`
	coll := &fakeCollection{insertID: primitive.NewObjectID()}
	repo := NewRecordMongoWith(&fakeDatabase{collections: map[string]*fakeCollection{"prices": coll}})

	_, err := repo.Insert(context.Background(), "prices", record(t, body))
	require.NoError(t, err)

	doc := coll.inserted[0].(bson.D)
	assert.IsType(t, primitive.Decimal128{}, doc[0].Value)
	assert.IsType(t, primitive.Decimal128{}, doc[1].Value)
	assert.Equal(t, int32(7), doc[2].Value)
	assert.Equal(t, int64(9007199254740993), doc[3].Value)
	assert.IsType(t, primitive.Decimal128{}, doc[4].Value)

	coll.docs = []interface{}{doc}
	recs, err := repo.ListAll(context.Background(), "prices")
	require.NoError(t, err)
	require.Len(t, recs, 1)

	out, err := json.Marshal(recs[0])
	require.NoError(t, err)
	assert.Equal(t, body, string(out))
}

func TestRecordMongo_ReadsDoublesFromOtherWriters(t *testing.T) {
	coll := &fakeCollection{docs: []interface{}{
		bson.D{{Key: "_id", Value: "a"}, {Key: "ratio", Value: 0.25}, {Key: "count", Value: float64(3)}},
	}}
	repo := NewRecordMongoWith(&fakeDatabase{collections: map[string]*fakeCollection{"stats": coll}})

	recs, err := repo.ListAll(context.Background(), "stats")
	require.NoError(t, err)
	out, err := json.Marshal(recs[0])
	require.NoError(t, err)
	assert.Equal(t, `{"_id":"a","ratio":0.25,"count":3}`, string(out))
}

func TestRecordMongo_OperatorKeysAreLiteral(t *testing.T) {
	coll := &fakeCollection{insertID: "x"}
	repo := NewRecordMongoWith(&fakeDatabase{collections: map[string]*fakeCollection{"notes": coll}})

	_, err := repo.Insert(context.Background(), "notes", record(t, `{"n":{"$numberLong":"5"},"list":[1,"two",null]}`))
	require.NoError(t, err)

	doc := coll.inserted[0].(bson.D)
	assert.Equal(t, bson.D{{Key: "$numberLong", Value: "5"}}, doc[0].Value)
	assert.Equal(t, bson.A{int32(1), "two", nil}, doc[1].Value)

	coll.docs = []interface{}{doc}
	recs, err := repo.ListAll(context.Background(), "notes")
	require.NoError(t, err)
	n, _ := recs[0].Get("n")
	assert.JSONEq(t, `{"$numberLong":"5"}`, string(n))
	list, _ := recs[0].Get("list")
	assert.JSONEq(t, `[1,"two",null]`, string(list))
}

func TestRecordMongo_InsertRejectsHugeNumber(t *testing.T) {
	repo := NewRecordMongoWith(&fakeDatabase{})

	_, err := repo.Insert(context.Background(), "notes", record(t, `{"x":1e99999}`))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindContent))
}

package mongo

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"convertapi/internal/model"
)

// toBSON converts a record into an ordered document. Keys are taken
// literally, so "$numberLong" and friends are not interpreted.
//
// Integer literals become int32 or int64 when they fit. Every other
// number becomes Decimal128 so it reads back exactly as written.
func toBSON(rec model.Record) (bson.D, error) {
	doc := make(bson.D, 0, len(rec))
	for _, f := range rec {
		v, err := decodeValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Key, err)
		}
		doc = append(doc, bson.E{Key: f.Key, Value: v})
	}
	return doc, nil
}

func decodeValue(raw json.RawMessage) (interface{}, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	v, err := readValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after value")
	}
	return v, nil
}

func readValue(dec *json.Decoder) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			doc := bson.D{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected token %v", kt)
				}
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				doc = append(doc, bson.E{Key: key, Value: v})
			}
			_, err := dec.Token()
			return doc, err
		case '[':
			arr := bson.A{}
			for dec.More() {
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			_, err := dec.Token()
			return arr, err
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return numberValue(t)
	default:
		// string, bool or nil
		return t, nil
	}
}

func numberValue(n json.Number) (interface{}, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") && s != "-0" {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return int32(i), nil
			}
			return i, nil
		}
	}
	// Decimal128 keeps the literal's digits, trailing zeros and exponent.
	d, err := primitive.ParseDecimal128(s)
	if err != nil {
		return nil, fmt.Errorf("number %s out of range", s)
	}
	return d, nil
}

// decimalJSON renders a Decimal128 in the form it was written in:
// "2.50" stays "2.50" and "1e3" comes back as "1e3".
func decimalJSON(d primitive.Decimal128) string {
	s := strings.Replace(d.String(), "E+", "e", 1)
	return strings.Replace(s, "E", "e", 1)
}

// fromBSON renders a stored document as a record. The top-level _id is
// always rendered as a string.
func fromBSON(doc bson.D) (model.Record, error) {
	rec := make(model.Record, 0, len(doc))
	for _, e := range doc {
		var (
			raw []byte
			err error
		)
		if e.Key == "_id" {
			raw, err = json.Marshal(IDString(e.Value))
		} else {
			raw, err = encodeValue(e.Value)
		}
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", e.Key, err)
		}
		rec = append(rec, model.Field{Key: e.Key, Value: raw})
	}
	return rec, nil
}

func encodeValue(v interface{}) (json.RawMessage, error) {
	switch t := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return json.RawMessage("null"), nil
	case string, bool:
		return json.Marshal(t)
	case int32:
		return json.RawMessage(strconv.FormatInt(int64(t), 10)), nil
	case int64:
		return json.RawMessage(strconv.FormatInt(t, 10)), nil
	case int:
		return json.RawMessage(strconv.Itoa(t)), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return json.Marshal(strconv.FormatFloat(t, 'g', -1, 64))
		}
		return json.RawMessage(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case primitive.Decimal128:
		s := decimalJSON(t)
		if !json.Valid([]byte(s)) {
			// NaN and Infinity have no JSON number form
			return json.Marshal(s)
		}
		return json.RawMessage(s), nil
	case primitive.ObjectID:
		return json.Marshal(t.Hex())
	case primitive.DateTime:
		return json.Marshal(t.Time().UTC().Format(time.RFC3339Nano))
	case primitive.Binary:
		return json.Marshal(base64.StdEncoding.EncodeToString(t.Data))
	case bson.D:
		rec, err := encodeDocument(t)
		if err != nil {
			return nil, err
		}
		return rec.MarshalJSON()
	case bson.M:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := make(bson.D, 0, len(t))
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: t[k]})
		}
		return encodeValue(d)
	case bson.A:
		return encodeArray(t)
	case []interface{}:
		return encodeArray(t)
	default:
		return extJSONValue(v)
	}
}

func encodeDocument(doc bson.D) (model.Record, error) {
	rec := make(model.Record, 0, len(doc))
	for _, e := range doc {
		raw, err := encodeValue(e.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", e.Key, err)
		}
		rec = append(rec, model.Field{Key: e.Key, Value: raw})
	}
	return rec, nil
}

func encodeArray(arr []interface{}) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, item := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		raw, err := encodeValue(item)
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// extJSONValue covers the remaining BSON types (regex, timestamp,
// javascript) with their relaxed Extended JSON form.
func extJSONValue(v interface{}) (json.RawMessage, error) {
	data, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return nil, err
	}
	var wrapper model.Record
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	raw, _ := wrapper.Get("v")
	return raw, nil
}

package sparql

import (
	"fmt"

	"sparql-flatten/internal/document"
	"sparql-flatten/internal/model"
)

// FlatRecord maps each variable of a binding to its descriptor's value,
// keeping the binding's variable order.
type FlatRecord struct {
	fields *document.Members
}

// NewFlatRecord returns an empty record ready for Set.
func NewFlatRecord() FlatRecord {
	return FlatRecord{fields: document.NewMembers()}
}

// Set assigns v to name. A name set twice keeps its first position.
func (r FlatRecord) Set(name string, v document.Value) { r.fields.Set(name, v) }

// Get returns the value stored for name.
func (r FlatRecord) Get(name string) (document.Value, bool) { return r.fields.Get(name) }

// Len is the number of variables in the record.
func (r FlatRecord) Len() int { return r.fields.Len() }

// Names returns the variable names in record order.
func (r FlatRecord) Names() []string {
	names := make([]string, 0, r.fields.Len())
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Document returns the record as an object value.
func (r FlatRecord) Document() document.Value { return document.ObjectValue(r.fields) }

func (r FlatRecord) MarshalJSON() ([]byte, error) { return document.Marshal(r.Document()) }

// Flatten produces one record per binding, in binding order. A descriptor
// that is not an object or has no "value" key fails the whole call; no
// partial result is returned.
func Flatten(rs ResultSet) ([]FlatRecord, error) {
	records := make([]FlatRecord, 0, len(rs.Bindings))
	for i, b := range rs.Bindings {
		rec, err := flattenBinding(i, b)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func flattenBinding(i int, b Binding) (FlatRecord, error) {
	rec := NewFlatRecord()
	if b.Terms == nil {
		return rec, nil
	}
	for pair := b.Terms.Oldest(); pair != nil; pair = pair.Next() {
		path := fmt.Sprintf("%s.%s", bindingPath(i), pair.Key)
		if pair.Value.Kind() != document.Object {
			return FlatRecord{}, model.ShapeMismatchf(path, "descriptor must be an object, got %s", pair.Value.Kind())
		}
		v, ok := pair.Value.Get("value")
		if !ok {
			return FlatRecord{}, model.ShapeMismatchf(path+".value", "descriptor has no value")
		}
		rec.Set(pair.Key, v)
	}
	return rec, nil
}

// MarshalRecords encodes records as one compact JSON array.
func MarshalRecords(records []FlatRecord) ([]byte, error) {
	items := make([]document.Value, len(records))
	for i, rec := range records {
		items[i] = rec.Document()
	}
	return document.Marshal(document.ArrayValue(items))
}

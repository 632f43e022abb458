// Package sparql turns SPARQL JSON query results into flat records.
package sparql

import (
	"fmt"

	"sparql-flatten/internal/document"
	"sparql-flatten/internal/model"
)

// Binding is one result row: variable name to value descriptor, in document order.
type Binding struct {
	Terms *document.Members
}

// ResultSet is the decoded root document.
type ResultSet struct {
	Vars     []string // head.vars, when the document carries it
	Bindings []Binding
}

// Decode parses data and checks the results.bindings shape.
func Decode(data []byte) (ResultSet, error) {
	root, err := document.Parse(data)
	if err != nil {
		return ResultSet{}, err
	}
	return fromDocument(root)
}

// fromDocument extracts the result set from an already parsed document.
// results and results.bindings must exist, bindings must be an array and
// every binding must be an object. Descriptors are checked by Flatten.
func fromDocument(root document.Value) (ResultSet, error) {
	bindingsV, err := root.At("results", "bindings")
	if err != nil {
		return ResultSet{}, err
	}
	if bindingsV.Kind() != document.Array {
		return ResultSet{}, model.ShapeMismatchf("results.bindings", "expected array, got %s", bindingsV.Kind())
	}
	items, _ := bindingsV.Elements()

	rs := ResultSet{
		Vars:     headVars(root),
		Bindings: make([]Binding, 0, len(items)),
	}
	for i, item := range items {
		terms, ok := item.Members()
		if !ok {
			return ResultSet{}, model.ShapeMismatchf(bindingPath(i), "expected object, got %s", item.Kind())
		}
		rs.Bindings = append(rs.Bindings, Binding{Terms: terms})
	}
	return rs, nil
}

// headVars is lenient: a missing or odd head is not an error.
func headVars(root document.Value) []string {
	vars, err := root.At("head", "vars")
	if err != nil {
		return nil
	}
	items, err := vars.Elements()
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.Str(); ok {
			out = append(out, s)
		}
	}
	return out
}

func bindingPath(i int) string {
	return fmt.Sprintf("results.bindings[%d]", i)
}

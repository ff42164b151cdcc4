// Package sapjson converts expression trees to and from their JSON
// form.  Compound expressions are objects with a single tag key
// holding an array of children, for example
//
//	{"Application": [{"Identifier": "add"}, 1, 2]}
//
// Integer and string literals may appear either as bare JSON values or
// in tagged form, and the JSON booleans decode as references to the
// true and false constants.
package sapjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/luthersystems/sapling/sap"
)

// ErrMalformedInput is wrapped by every error returned from Decode.
var ErrMalformedInput = errors.New("malformed expression")

// DefaultSerializer is used by the package level Decode and Encode
// functions.
var DefaultSerializer = &Serializer{}

// Decode parses JSON that encodes an expression tree.
func Decode(b []byte) (*sap.Node, error) {
	return DefaultSerializer.Decode(b)
}

// Encode renders an expression tree as JSON.
func Encode(node *sap.Node) ([]byte, error) {
	return DefaultSerializer.Encode(node)
}

// Serializer converts expression trees to and from JSON.
type Serializer struct {
	// AlwaysObject makes Encode render literals in tagged object form,
	// for example {"Number": 5} instead of 5.
	AlwaysObject bool
}

var consTags = map[string]sap.NodeType{
	"Application": sap.NApplication,
	"Cond":        sap.NCond,
	"Clause":      sap.NClause,
	"Block":       sap.NBlock,
	"Let":         sap.NLet,
	"Assignment":  sap.NAssign,
	"Lambda":      sap.NLambda,
	"Parameters":  sap.NParams,
	"Def":         sap.NDef,
}

var consTagNames = make(map[sap.NodeType]string, len(consTags))

func init() {
	for tag, typ := range consTags {
		consTagNames[typ] = tag
	}
}

// Decode parses a single JSON expression from b.  Data trailing the
// expression is an error.
func (s *Serializer) Decode(b []byte) (*sap.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var data interface{}
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: unexpected trailing data", ErrMalformedInput)
	}
	return s.decodeInterface(data)
}

func (s *Serializer) decodeInterface(data interface{}) (*sap.Node, error) {
	switch data := data.(type) {
	case json.Number:
		return decodeNumber(data)
	case string:
		return sap.StringLit(data), nil
	case bool:
		if data {
			return sap.Identifier(sap.TrueSymbol), nil
		}
		return sap.Identifier(sap.FalseSymbol), nil
	case map[string]interface{}:
		return s.decodeTagged(data)
	default:
		return nil, fmt.Errorf("%w: cannot decode %T", ErrMalformedInput, data)
	}
}

func (s *Serializer) decodeTagged(data map[string]interface{}) (*sap.Node, error) {
	if len(data) != 1 {
		return nil, fmt.Errorf("%w: expression object needs exactly one key (got %d)", ErrMalformedInput, len(data))
	}
	var tag string
	var body interface{}
	for k, v := range data {
		tag, body = k, v
	}
	switch tag {
	case "Number":
		num, ok := body.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: Number needs a number (got %T)", ErrMalformedInput, body)
		}
		return decodeNumber(num)
	case "String":
		str, ok := body.(string)
		if !ok {
			return nil, fmt.Errorf("%w: String needs a string (got %T)", ErrMalformedInput, body)
		}
		return sap.StringLit(str), nil
	case "Identifier":
		str, ok := body.(string)
		if !ok {
			return nil, fmt.Errorf("%w: Identifier needs a string (got %T)", ErrMalformedInput, body)
		}
		return sap.Identifier(str), nil
	}
	typ, ok := consTags[tag]
	if !ok {
		return nil, fmt.Errorf("%w: unknown expression tag: %q", ErrMalformedInput, tag)
	}
	cells, ok := body.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %s needs an array (got %T)", ErrMalformedInput, tag, body)
	}
	node := &sap.Node{Type: typ, Cells: make([]*sap.Node, len(cells))}
	for i, cell := range cells {
		child, err := s.decodeInterface(cell)
		if err != nil {
			return nil, err
		}
		node.Cells[i] = child
	}
	return node, nil
}

func decodeNumber(num json.Number) (*sap.Node, error) {
	x, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: not an integer: %s", ErrMalformedInput, num)
	}
	return sap.Number(x), nil
}

// Encode renders node as JSON.
func (s *Serializer) Encode(node *sap.Node) ([]byte, error) {
	data, err := s.encodeInterface(node)
	if err != nil {
		return nil, err
	}
	return json.Marshal(data)
}

func (s *Serializer) encodeInterface(node *sap.Node) (interface{}, error) {
	switch node.Type {
	case sap.NInteger:
		if s.AlwaysObject {
			return map[string]interface{}{"Number": node.Int}, nil
		}
		return node.Int, nil
	case sap.NString:
		if s.AlwaysObject {
			return map[string]interface{}{"String": node.Str}, nil
		}
		return node.Str, nil
	case sap.NIdentifier:
		return map[string]interface{}{"Identifier": node.Str}, nil
	}
	tag, ok := consTagNames[node.Type]
	if !ok {
		return nil, fmt.Errorf("cannot encode node: %s", node.Type)
	}
	cells := make([]interface{}, len(node.Cells))
	for i, cell := range node.Cells {
		data, err := s.encodeInterface(cell)
		if err != nil {
			return nil, err
		}
		cells[i] = data
	}
	return map[string]interface{}{tag: cells}, nil
}

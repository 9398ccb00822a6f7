package service

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	lorem "github.com/bozaro/golorem"
	"github.com/google/uuid"
)

// maxSchemaDepth bounds recursion for deeply nested schema documents.
const maxSchemaDepth = 32

// schemaNode is the reduced JSON-Schema subset the mock generator understands:
// type, properties, items, enum, numeric bounds, string length/format.
type schemaNode struct {
	Type       string                `json:"type"`
	Properties map[string]schemaNode `json:"properties"`
	Items      *schemaNode           `json:"items"`
	Enum       []json.RawMessage     `json:"enum"`
	Format     string                `json:"format"`
	Minimum    *float64              `json:"minimum"`
	Maximum    *float64              `json:"maximum"`
	MinItems   *int                  `json:"minItems"`
	MaxItems   *int                  `json:"maxItems"`
	MinLength  *int                  `json:"minLength"`
	MaxLength  *int                  `json:"maxLength"`
}

// MockGenerator resolves schema documents into fake data.
type MockGenerator struct {
	gen *lorem.Lorem
}

// NewMockGenerator creates a MockGenerator.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{gen: lorem.New()}
}

// Resolve parses a schema document and generates matching fake data.
func (m *MockGenerator) Resolve(raw json.RawMessage) (any, error) {
	var node schemaNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	return m.resolve(&node, 0)
}

func (m *MockGenerator) resolve(node *schemaNode, depth int) (any, error) {
	if depth > maxSchemaDepth {
		return nil, fmt.Errorf("schema nesting exceeds %d levels", maxSchemaDepth)
	}

	if len(node.Enum) > 0 {
		return pickEnum(node.Enum)
	}

	switch node.Type {
	case "object":
		return m.resolveObject(node, depth)
	case "array":
		return m.resolveArray(node, depth)
	case "string":
		return m.resolveString(node), nil
	case "integer":
		lo, hi := numericBounds(node, 0, 100)
		return int64(lo) + rand.Int64N(int64(hi)-int64(lo)+1), nil
	case "number":
		lo, hi := numericBounds(node, 0, 100)
		return lo + rand.Float64()*(hi-lo), nil
	case "boolean":
		return rand.IntN(2) == 0, nil
	case "null":
		return nil, nil
	case "":
		// Untyped nodes: infer from shape.
		if len(node.Properties) > 0 {
			return m.resolveObject(node, depth)
		}
		if node.Items != nil {
			return m.resolveArray(node, depth)
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported schema type %q", node.Type)
	}
}

func (m *MockGenerator) resolveObject(node *schemaNode, depth int) (any, error) {
	obj := make(map[string]any, len(node.Properties))
	for name, prop := range node.Properties {
		v, err := m.resolve(&prop, depth+1)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		obj[name] = v
	}
	return obj, nil
}

func (m *MockGenerator) resolveArray(node *schemaNode, depth int) (any, error) {
	if node.Items == nil {
		return []any{}, nil
	}

	lo, hi := 1, 3
	if node.MinItems != nil && *node.MinItems >= 0 {
		lo = *node.MinItems
	}
	if node.MaxItems != nil && *node.MaxItems >= lo {
		hi = *node.MaxItems
	}
	if hi < lo {
		hi = lo
	}

	n := lo + rand.IntN(hi-lo+1)
	arr := make([]any, 0, n)
	for range n {
		v, err := m.resolve(node.Items, depth+1)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func (m *MockGenerator) resolveString(node *schemaNode) string {
	switch node.Format {
	case "uuid":
		return uuid.NewString()
	case "date":
		return time.Now().Format("2006-01-02")
	case "date-time":
		return time.Now().Format(time.RFC3339)
	case "email":
		return m.gen.Email()
	case "uri", "url":
		return m.gen.Url()
	}

	lo, hi := 3, 12
	if node.MinLength != nil && *node.MinLength > 0 {
		lo = *node.MinLength
	}
	if node.MaxLength != nil && *node.MaxLength >= lo {
		hi = *node.MaxLength
	}
	if hi < lo {
		hi = lo
	}

	return m.gen.Word(lo, hi)
}

// pickEnum returns a random enum member decoded to its natural Go type.
func pickEnum(members []json.RawMessage) (any, error) {
	var v any
	if err := json.Unmarshal(members[rand.IntN(len(members))], &v); err != nil {
		return nil, fmt.Errorf("decoding enum member: %w", err)
	}
	return v, nil
}

// numericBounds extracts the effective min/max for numeric nodes.
func numericBounds(node *schemaNode, defLo, defHi float64) (float64, float64) {
	lo, hi := defLo, defHi
	if node.Minimum != nil {
		lo = *node.Minimum
	}
	if node.Maximum != nil {
		hi = *node.Maximum
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMockGenerator_Object(t *testing.T) {
	m := NewMockGenerator()

	schema := json.RawMessage(`{
		"type": "object",
		"properties": {
			"id":    {"type": "integer", "minimum": 1, "maximum": 10},
			"name":  {"type": "string"},
			"ok":    {"type": "boolean"},
			"score": {"type": "number", "minimum": 0, "maximum": 1}
		}
	}`)

	v, err := m.Resolve(schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", v)
	}

	id, ok := obj["id"].(int64)
	if !ok || id < 1 || id > 10 {
		t.Errorf("id out of range: %v", obj["id"])
	}
	if s, ok := obj["name"].(string); !ok || s == "" {
		t.Errorf("expected non-empty string name, got %v", obj["name"])
	}
	if _, ok := obj["ok"].(bool); !ok {
		t.Errorf("expected boolean, got %T", obj["ok"])
	}
	score, ok := obj["score"].(float64)
	if !ok || score < 0 || score > 1 {
		t.Errorf("score out of range: %v", obj["score"])
	}
}

func TestMockGenerator_Array(t *testing.T) {
	m := NewMockGenerator()

	schema := json.RawMessage(`{
		"type": "array",
		"minItems": 2,
		"maxItems": 4,
		"items": {"type": "string"}
	}`)

	v, err := m.Resolve(schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	arr, ok := v.([]any)
	if !ok {
		t.Fatalf("expected array, got %T", v)
	}
	if len(arr) < 2 || len(arr) > 4 {
		t.Errorf("expected 2-4 items, got %d", len(arr))
	}
}

func TestMockGenerator_ArrayWithoutItems(t *testing.T) {
	m := NewMockGenerator()

	v, err := m.Resolve(json.RawMessage(`{"type": "array"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	arr, ok := v.([]any)
	if !ok || len(arr) != 0 {
		t.Errorf("expected empty array, got %v", v)
	}
}

func TestMockGenerator_Enum(t *testing.T) {
	m := NewMockGenerator()

	v, err := m.Resolve(json.RawMessage(`{"type": "string", "enum": ["a", "b", "c"]}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, ok := v.(string)
	if !ok || (s != "a" && s != "b" && s != "c") {
		t.Errorf("expected enum member, got %v", v)
	}
}

func TestMockGenerator_StringFormats(t *testing.T) {
	m := NewMockGenerator()

	t.Run("uuid", func(t *testing.T) {
		v, err := m.Resolve(json.RawMessage(`{"type": "string", "format": "uuid"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := uuid.Parse(v.(string)); err != nil {
			t.Errorf("not a uuid: %v", v)
		}
	})

	t.Run("date", func(t *testing.T) {
		v, err := m.Resolve(json.RawMessage(`{"type": "string", "format": "date"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := time.Parse("2006-01-02", v.(string)); err != nil {
			t.Errorf("not a date: %v", v)
		}
	})

	t.Run("date-time", func(t *testing.T) {
		v, err := m.Resolve(json.RawMessage(`{"type": "string", "format": "date-time"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := time.Parse(time.RFC3339, v.(string)); err != nil {
			t.Errorf("not a date-time: %v", v)
		}
	})
}

func TestMockGenerator_Errors(t *testing.T) {
	m := NewMockGenerator()

	if _, err := m.Resolve(json.RawMessage(`not json`)); err == nil {
		t.Error("expected error for invalid schema document")
	}

	if _, err := m.Resolve(json.RawMessage(`{"type": "binary"}`)); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestMockGenerator_UntypedInference(t *testing.T) {
	m := NewMockGenerator()

	v, err := m.Resolve(json.RawMessage(`{"properties": {"x": {"type": "integer"}}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(map[string]any); !ok {
		t.Errorf("expected object from untyped node with properties, got %T", v)
	}
}

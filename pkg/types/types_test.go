package types_test

import (
	"errors"
	"testing"
	"time"

	"github.com/strandhq/formula/pkg/types"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  types.ValueType
	}{
		{"nil", nil, types.TypeNull},
		{"string", "x", types.TypeString},
		{"float64", 1.5, types.TypeNumber},
		{"int", 3, types.TypeNumber},
		{"bool", true, types.TypeBoolean},
		{"time", time.Now(), types.TypeDate},
		{"array", []any{1}, types.TypeArray},
		{"map", map[string]any{}, types.TypeObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.TypeOf(tt.value); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestToFloat(t *testing.T) {
	for _, v := range []any{float64(2), float32(2), int(2), int32(2), int64(2)} {
		n, ok := types.ToFloat(v)
		if !ok || n != 2 {
			t.Errorf("ToFloat(%T) = %v, %v", v, n, ok)
		}
	}
	if _, ok := types.ToFloat("2"); ok {
		t.Error("strings are not numeric at this layer")
	}
	if _, ok := types.ToFloat(nil); ok {
		t.Error("nil is not numeric")
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil is empty", nil, ""},
		{"string passthrough", "x", "x"},
		{"whole number has no decimal point", 50.0, "50"},
		{"fraction kept", 2.5, "2.5"},
		{"bool", true, "true"},
		{"array as JSON", []any{1.0, "a"}, `[1,"a"]`},
		{"object as JSON", map[string]any{"a": 1.0}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := types.FormatValue(tt.value); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	ts := time.Date(2026, 8, 28, 12, 30, 45, 123e6, time.UTC)
	if got := types.FormatValue(ts); got != "2026-08-28T12:30:45.123Z" {
		t.Errorf("timestamp: got %q", got)
	}
}

func TestNewContextDefaults(t *testing.T) {
	fc := types.NewContext()
	if fc.Fields == nil || fc.Settings == nil {
		t.Error("expected non-nil field and setting maps")
	}
	if fc.Now.IsZero() {
		t.Error("expected a populated evaluation timestamp")
	}
}

func TestContextOptions(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fc := types.NewContext(
		types.WithFields(map[string]any{"a": 1}),
		types.WithSettings(map[string]any{"b": 2}),
		types.WithStrandPath("/p"),
		types.WithBlockID("blk"),
		types.WithNow(now),
	)

	if fc.Fields["a"] != 1 || fc.Settings["b"] != 2 {
		t.Error("options did not apply")
	}
	if fc.StrandPath != "/p" || fc.BlockID != "blk" {
		t.Error("path options did not apply")
	}
	if !fc.Now.Equal(now) {
		t.Error("WithNow did not apply")
	}
}

func TestMentionByName(t *testing.T) {
	fc := types.NewContext(types.WithMentions([]types.Mention{
		{Name: "Paris", Kind: "place"},
	}))

	for _, name := range []string{"Paris", "paris", "PARIS"} {
		m, ok := fc.MentionByName(name)
		if !ok {
			t.Fatalf("expected match for %q", name)
		}
		if m.Name != "Paris" {
			t.Errorf("got %q, want original casing", m.Name)
		}
	}
	if _, ok := fc.MentionByName("London"); ok {
		t.Error("expected miss for unknown mention")
	}
	if _, ok := fc.MentionByName("Pariss"); ok {
		t.Error("expected miss for different length")
	}
}

func TestMentionObject(t *testing.T) {
	m := types.Mention{Name: "Paris", Kind: "place", Properties: map[string]any{"lat": 48.8566}}
	obj := m.Object()
	if obj["name"] != "Paris" || obj["kind"] != "place" {
		t.Error("identity keys missing")
	}
	props, ok := obj["properties"].(map[string]any)
	if !ok || props["lat"] != 48.8566 {
		t.Error("properties not carried through")
	}
}

func TestErrorFormatting(t *testing.T) {
	err := types.NewError(types.ErrParse, "Unexpected token", 4)
	if got := err.Error(); got != "PARSE_ERROR at position 4: Unexpected token" {
		t.Errorf("got %q", got)
	}

	err = types.NewError(types.ErrType, "Cannot multiply a string", -1)
	if got := err.Error(); got != "TYPE_ERROR: Cannot multiply a string" {
		t.Errorf("got %q", got)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := types.NewError(types.ErrAsync, "Mention resolution failed", -1).WithCause(cause)
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if err.WithToken("@Paris").Token != "@Paris" {
		t.Error("WithToken did not apply")
	}
}

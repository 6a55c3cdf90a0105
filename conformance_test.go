package formula_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/strandhq/formula"
	"github.com/strandhq/formula/pkg/types"
)

type conformanceMention struct {
	Name       string         `yaml:"name"`
	Kind       string         `yaml:"kind"`
	Properties map[string]any `yaml:"properties"`
}

type conformanceCase struct {
	Name      string               `yaml:"name"`
	Formula   string               `yaml:"formula"`
	Fields    map[string]any       `yaml:"fields"`
	Settings  map[string]any       `yaml:"settings"`
	Mentions  []conformanceMention `yaml:"mentions"`
	Want      any                  `yaml:"want"`
	WantError string               `yaml:"wantError"`
}

// normalizeYAML converts the integers the YAML decoder produces into
// float64, the engine's only numeric type, so fixtures can write plain
// numbers.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return normalizeYAML(m).(map[string]any)
}

func TestConformance(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "conformance.yaml"))
	if err != nil {
		t.Fatal(err)
	}

	var cases []conformanceCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatal(err)
	}
	if len(cases) == 0 {
		t.Fatal("no conformance cases loaded")
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			opts := []types.ContextOption{}
			if tc.Fields != nil {
				opts = append(opts, types.WithFields(normalizeMap(tc.Fields)))
			}
			if tc.Settings != nil {
				opts = append(opts, types.WithSettings(normalizeMap(tc.Settings)))
			}
			if len(tc.Mentions) > 0 {
				mentions := make([]types.Mention, len(tc.Mentions))
				for i, m := range tc.Mentions {
					mentions[i] = types.Mention{
						Name:       m.Name,
						Kind:       m.Kind,
						Properties: normalizeMap(m.Properties),
					}
				}
				opts = append(opts, types.WithMentions(mentions))
			}

			result := formula.Evaluate(context.Background(), tc.Formula, formula.NewContext(opts...))

			if tc.WantError != "" {
				if result.Success {
					t.Fatalf("expected error %s, got value %v", tc.WantError, result.Value)
				}
				if got := string(result.Error.Code); got != tc.WantError {
					t.Errorf("expected error %s, got %s", tc.WantError, got)
				}
				return
			}

			if !result.Success {
				t.Fatalf("unexpected failure: %v", result.Error)
			}
			if diff := cmp.Diff(normalizeYAML(tc.Want), result.Value); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

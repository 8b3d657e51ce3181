package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weatherArgs struct {
	City    string   `json:"city" description:"City name"`
	Units   *string  `json:"units,omitempty" description:"metric or imperial"`
	Days    int      `json:"days,omitempty"`
	Verbose bool     `json:"verbose"`
	Tags    []string `json:"tags,omitempty"`
	hidden  string   // unexported, must be skipped
}

func TestFromStruct(t *testing.T) {
	s := FromStruct(weatherArgs{})

	assert.Equal(t, "object", s["type"])

	properties, ok := s["properties"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, properties, 5)

	city, ok := properties["city"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", city["type"])
	assert.Equal(t, "City name", city["description"])

	assert.Equal(t, "integer", properties["days"].(map[string]any)["type"])
	assert.Equal(t, "boolean", properties["verbose"].(map[string]any)["type"])
	assert.Equal(t, "array", properties["tags"].(map[string]any)["type"])

	// Pointer and omitempty fields are optional; the rest are required.
	assert.ElementsMatch(t, []string{"city", "verbose"}, s["required"])
}

func TestFromStruct_NonStructFallsBackToEmptyObject(t *testing.T) {
	s := FromStruct("not a struct")

	assert.Equal(t, "object", s["type"])
	assert.Empty(t, s["properties"])
	assert.Nil(t, s["required"])
}

func TestValidate(t *testing.T) {
	s := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city":  map[string]any{"type": "string"},
			"days":  map[string]any{"type": "integer"},
			"ratio": map[string]any{"type": "number"},
		},
		"required": []string{"city"},
	}

	tests := []struct {
		name    string
		args    map[string]any
		wantErr string
	}{
		{"valid", map[string]any{"city": "Berlin", "days": 3}, ""},
		{"missing required", map[string]any{"days": 3}, "required field is missing"},
		{"wrong type", map[string]any{"city": 42}, "expected type string"},
		{"extra fields allowed", map[string]any{"city": "Berlin", "unknown": true}, ""},
		{"nil value allowed", map[string]any{"city": nil}, ""},
		{"json number for integer", map[string]any{"city": "Berlin", "days": float64(3)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.args, s)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RequiredListRoundTrippedThroughJSON(t *testing.T) {
	s := map[string]any{
		"type":       "object",
		"properties": map[string]any{"city": map[string]any{"type": "string"}},
		"required":   []any{"city"},
	}

	var ve *ValidationError
	require.ErrorAs(t, Validate(map[string]any{}, s), &ve)
	assert.Equal(t, "city", ve.Field)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain object",
			raw:  `{"name": "alpha"}`,
			want: "alpha",
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"name\": \"beta\"}\n```",
			want: "beta",
		},
		{
			name: "fenced without language tag",
			raw:  "```\n{\"name\": \"gamma\"}\n```",
			want: "gamma",
		},
		{
			name: "object surrounded by prose",
			raw:  "Here is the result you asked for:\n{\"name\": \"delta\"}\nLet me know if you need changes.",
			want: "delta",
		},
		{
			name:    "no json at all",
			raw:     "I could not produce the requested output.",
			wantErr: true,
		},
		{
			name:    "malformed json",
			raw:     `{"name": "epsilon`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got payload
			err := ExtractJSON(tt.raw, &got)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no valid JSON object")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

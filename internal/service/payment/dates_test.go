package payment

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "encoded array string",
			raw:    `"[1700000000,0.5]"`,
			want:   time.UnixMilli(1700000000000).UTC(),
			wantOK: true,
		},
		{
			name:   "iso string",
			raw:    `"2024-03-05T10:00:00Z"`,
			want:   time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "date only",
			raw:    `"2024-03-05"`,
			want:   time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "array of seconds object",
			raw:    `[{"seconds":1700000000,"nanoseconds":0}]`,
			want:   time.Unix(1700000000, 0).UTC(),
			wantOK: true,
		},
		{
			name:   "array of number",
			raw:    `[1700000000, 12]`,
			want:   time.Unix(1700000000, 0).UTC(),
			wantOK: true,
		},
		{
			name:   "array of date string",
			raw:    `["2023-01-15T08:00:00Z"]`,
			want:   time.Date(2023, time.January, 15, 8, 0, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "seconds object without seconds falls through",
			raw:    `[{"nanos":1}]`,
			wantOK: false,
		},
		{name: "garbage string", raw: `"yesterday"`},
		{name: "encoded array of text", raw: `"[\"x\"]"`},
		{name: "empty array", raw: `[]`},
		{name: "object", raw: `{"seconds":1700000000}`},
		{name: "bare number", raw: `1700000000`},
		{name: "null", raw: `null`},
		{name: "missing", raw: ``},
		{name: "out of range", raw: `[1e300]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(json.RawMessage(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

func TestExtractDate_EncodedArrayIsNovember2023(t *testing.T) {
	got, ok := ExtractDate(json.RawMessage(`"[1700000000,0.5]"`))
	assert.True(t, ok)
	assert.Equal(t, time.November, got.Month())
	assert.Equal(t, 2023, got.Year())
}

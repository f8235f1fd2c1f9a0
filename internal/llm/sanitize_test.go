package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"uppercase json fence", "```JSON\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestSanitizeJSONValidInputIsUntouched(t *testing.T) {
	in := `{"segments": ["a", "b", "c", "d", "e"]}`
	assert.Equal(t, in, SanitizeJSON(in))
}

func TestSanitizeJSONRepairsNewlinesInStrings(t *testing.T) {
	in := "{\"segments\": [\"一行目。\n二行目。\", \"b\", \"c\", \"d\", \"e\"]}"
	out := SanitizeJSON(in)

	var parsed struct {
		Segments []string `json:"segments"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "一行目。 二行目。", parsed.Segments[0])
}

func TestSanitizeJSONKeepsNewlinesOutsideStrings(t *testing.T) {
	in := "{\n\"segments\": [\"a\", \"b\", \"c\", \"d\", \"e\"]\n}"
	out := SanitizeJSON(in)
	assert.Equal(t, in, out)
	assert.True(t, json.Valid([]byte(out)))
}

func TestSanitizeJSONRestoresTruncatedBrace(t *testing.T) {
	in := `{"segments": ["a", "b", "c", "d", "e"]`
	out := SanitizeJSON(in)
	assert.Equal(t, `{"segments": ["a", "b", "c", "d", "e"]}`, out)
	assert.True(t, json.Valid([]byte(out)))
}

func TestSanitizeJSONEscapedQuotesStayInString(t *testing.T) {
	in := "{\"segments\": [\"say \\\"hi\\\"\nnow\", \"b\", \"c\", \"d\", \"e\"]}"
	out := SanitizeJSON(in)

	var parsed struct {
		Segments []string `json:"segments"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, `say "hi" now`, parsed.Segments[0])
}

func TestSanitizeJSONIsIdempotent(t *testing.T) {
	in := "```json\n{\"segments\": [\"x\ny\", \"b\", \"c\", \"d\", \"e\"]\n```"
	once := SanitizeJSON(in)
	assert.Equal(t, once, SanitizeJSON(once))
}

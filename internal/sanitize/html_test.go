package sanitize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText_RemovesAllHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "script tag",
			input:    `Hello <script>alert('xss')</script> World`,
			expected: `Hello  World`,
		},
		{
			name:     "inline event handler",
			input:    `<div onclick="alert('xss')">Click me</div>`,
			expected: `Click me`,
		},
		{
			name:     "mixed HTML tags",
			input:    `<b>Chess</b> <i>Club</i>`,
			expected: `Chess Club`,
		},
		{
			name:     "ampersand survives",
			input:    `Art & Design Society`,
			expected: `Art & Design Society`,
		},
		{
			name:     "apostrophe survives",
			input:    `We're excited`,
			expected: `We're excited`,
		},
		{
			name:     "entity encoded script",
			input:    `&lt;script&gt;alert(1)&lt;/script&gt;Chess`,
			expected: `Chess`,
		},
		{
			name:     "entity encoded tags",
			input:    `&lt;b onclick=&quot;x()&quot;&gt;Bold&lt;/b&gt; move`,
			expected: `Bold move`,
		},
		{
			name:     "double encoded markup stays inert",
			input:    `&amp;lt;script&amp;gt;`,
			expected: `&lt;script&gt;`,
		},
		{
			name:     "bare angle bracket stays encoded",
			input:    `Rating < 1200`,
			expected: `Rating &lt; 1200`,
		},
		{
			name:     "quotes survive",
			input:    `The "Gambit" Club`,
			expected: `The "Gambit" Club`,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  Main Auditorium, Building A \n",
			expected: `Main Auditorium, Building A`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, Text(tt.input))
		})
	}
}

func TestTextPtr(t *testing.T) {
	require.Nil(t, TextPtr(nil))

	in := " <em>Tech</em> "
	out := TextPtr(&in)
	require.NotNil(t, out)
	require.Equal(t, "Tech", *out)
	require.Equal(t, " <em>Tech</em> ", in)
}

package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes all HTML tags and attributes.
var StrictPolicy = bluemonday.StrictPolicy()

// policyEntities undoes the escaping the policy applies to harmless
// characters. &lt; and &gt; stay encoded so no markup comes back.
var policyEntities = strings.NewReplacer("&amp;", "&", "&#39;", "'", "&#34;", `"`)

// Text strips all markup and returns trimmed plain text. Entities are
// decoded before the policy runs, so encoded tags are stripped like literal
// ones. Values like "Art & Design" survive a JSON round trip unchanged.
func Text(input string) string {
	clean := StrictPolicy.Sanitize(html.UnescapeString(input))
	return strings.TrimSpace(policyEntities.Replace(clean))
}

// TextPtr sanitizes an optional field, leaving nil untouched.
func TextPtr(input *string) *string {
	if input == nil {
		return nil
	}
	out := Text(*input)
	return &out
}

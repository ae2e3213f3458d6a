package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helpPolicyOnce sync.Once
	helpPolicy     *bluemonday.Policy
)

// helpHTML sanitizes a schema-provided field description so it can be
// emitted unescaped. Inline emphasis and links survive, everything else is
// dropped.
func helpHTML(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return ""
	}
	return strings.TrimSpace(helpSanitizer().Sanitize(description))
}

func helpSanitizer() *bluemonday.Policy {
	helpPolicyOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("em", "strong", "code", "br")
		p.AllowAttrs("href").OnElements("a")
		p.AllowStandardURLs()
		p.RequireNoFollowOnLinks(true)
		p.AddTargetBlankToFullyQualifiedLinks(true)
		helpPolicy = p
	})
	return helpPolicy
}

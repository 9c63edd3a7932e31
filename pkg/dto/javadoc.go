package dto

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	docPolicyOnce sync.Once
	docPolicy     *bluemonday.Policy
)

// SanitizeDoc strips markup from model javadoc that is not safe to copy into
// generated classes. Basic inline and list elements survive.
func SanitizeDoc(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(docSanitizer().Sanitize(trimmed))
}

func docSanitizer() *bluemonday.Policy {
	docPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"b", "i", "em", "strong", "code", "tt", "pre", "p", "br",
			"ul", "ol", "li",
		)
		docPolicy = policy
	})
	return docPolicy
}

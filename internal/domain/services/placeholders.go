// Package services holds the pure domain logic behind page rendering:
// placeholder substitution, route matching, component tree edits, request
// building and form state.
package services

import (
	"regexp"
	"strings"
	"sync"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

var colonTokenPatterns sync.Map // key -> *regexp.Regexp

func colonTokenPattern(key string) *regexp.Regexp {
	if re, ok := colonTokenPatterns.Load(key); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(":" + regexp.QuoteMeta(key) + `\b`)
	actual, _ := colonTokenPatterns.LoadOrStore(key, re)
	return actual.(*regexp.Regexp)
}

// ResolvePlaceholders replaces every whole-word `:key` and every `%key%` in
// template with the value of key, applying keys in insertion order.
// Unknown tokens are left as they are.
func ResolvePlaceholders(template string, params *rendering.ParameterMap) string {
	if template == "" || params.Len() == 0 {
		return template
	}
	result := template
	for _, key := range params.Keys() {
		if key == "" {
			continue
		}
		value, _ := params.Get(key)
		result = colonTokenPattern(key).ReplaceAllLiteralString(result, value)
		result = strings.ReplaceAll(result, "%"+key+"%", value)
	}
	return result
}

package notify

import "regexp"

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.]+)\s*\}\}`)

// Render replaces {{key}} tokens with values from data. Tokens without a
// value are left exactly as written.
func Render(tmpl string, data map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(tok string) string {
		key := placeholder.FindStringSubmatch(tok)[1]
		if v, ok := data[key]; ok {
			return v
		}
		return tok
	})
}

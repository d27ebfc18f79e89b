package statement

// Section key aliases producers are known to emit: the extraction prompt
// asks for the human-readable names, but models frequently answer with
// snake_case identifiers instead.
const (
	accountSection    = "Account Info"
	accountSectionAlt = "account_info"
	summarySection    = "Summary Values"
	summarySectionAlt = "summary_values"
	txSection         = "Transactions"
	txSectionAlt      = "transactions"
	fieldsWrapperKey  = "fields"
)

// Coerce reduces an arbitrarily shaped producer payload to the canonical
// three-section form. It accepts a mapping (optionally nested under a
// "fields" wrapper, with either naming convention per section), a bare
// list of transaction-shaped mappings, or anything else — malformed input
// degrades to the fully empty shape, never an error.
func Coerce(data any) Payload {
	switch v := data.(type) {
	case map[string]any:
		if inner, ok := v[fieldsWrapperKey].(map[string]any); ok {
			v = inner
		}
		return Payload{
			Account:      sectionMap(v, accountSection, accountSectionAlt),
			Summary:      sectionMap(v, summarySection, summarySectionAlt),
			Transactions: sectionList(v, txSection, txSectionAlt),
		}
	case []any:
		if len(v) > 0 {
			if _, ok := v[0].(map[string]any); ok {
				return Payload{
					Account:      map[string]any{},
					Summary:      map[string]any{},
					Transactions: v,
				}
			}
		}
	}
	return EmptyPayload()
}

// EmptyPayload returns the canonical shape with all sections empty.
func EmptyPayload() Payload {
	return Payload{
		Account:      map[string]any{},
		Summary:      map[string]any{},
		Transactions: []any{},
	}
}

func sectionMap(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if section, ok := m[k].(map[string]any); ok && section != nil {
			return section
		}
	}
	return map[string]any{}
}

func sectionList(m map[string]any, keys ...string) []any {
	for _, k := range keys {
		if section, ok := m[k].([]any); ok && section != nil {
			return section
		}
	}
	return []any{}
}

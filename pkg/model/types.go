package model

import "strings"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
)

const (
	ValidationRuleMin       = "min"
	ValidationRuleMax       = "max"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
)

// ValidationRule represents a single validation constraint applied to a field.
// Numeric bounds and length limits encode their threshold in Params["value"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models an individual input inside the entry form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	OperationID string            `json:"operationId"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Rule returns the value parameter of the first rule of the given kind.
func (f Field) Rule(kind string) (string, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			value, ok := rule.Params["value"]
			return value, ok
		}
	}
	return "", false
}

// WithRule returns a copy of f where the rule of the given kind carries value,
// replacing an existing rule of that kind.
func (f Field) WithRule(kind, value string) Field {
	rules := make([]ValidationRule, 0, len(f.Validations)+1)
	replaced := false
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			rules = append(rules, ValidationRule{Kind: kind, Params: map[string]string{"value": value}})
			replaced = true
			continue
		}
		rules = append(rules, rule)
	}
	if !replaced {
		rules = append(rules, ValidationRule{Kind: kind, Params: map[string]string{"value": value}})
	}
	f.Validations = rules
	return f
}

// EnumStrings returns the enum options as strings.
func (f Field) EnumStrings() []string {
	if len(f.Enum) == 0 {
		return nil
	}
	out := make([]string, 0, len(f.Enum))
	for _, value := range f.Enum {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Field looks up a field by name.
func (m FormModel) Field(name string) (Field, bool) {
	name = strings.TrimSpace(name)
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in render order.
func (m FormModel) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for _, field := range m.Fields {
		names = append(names, field.Name)
	}
	return names
}

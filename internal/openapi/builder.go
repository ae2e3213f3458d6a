// Package openapi turns the store's OpenAPI description of the create
// operation into a model.FormModel using kin-openapi.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-shelf/pkg/model"
)

const extensionNamespace = "x-shelf"

// unordered sorts fields without an order hint after the hinted ones.
const unordered = 1 << 20

// Options tunes how a document is converted.
type Options struct {
	// Labeler builds a label for properties without an explicit one.
	Labeler func(string) string
	// Validate runs kin-openapi document validation before conversion.
	Validate bool
	// Decorators run in order on the finished model.
	Decorators []model.Decorator
}

// Option mutates Options.
type Option func(*Options)

// WithLabeler overrides DefaultLabeler.
func WithLabeler(labeler func(string) string) Option {
	return func(o *Options) {
		if labeler != nil {
			o.Labeler = labeler
		}
	}
}

// WithValidation enables document validation.
func WithValidation(enabled bool) Option {
	return func(o *Options) {
		o.Validate = enabled
	}
}

// WithDecorators appends decorators applied after conversion.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Options) {
		for _, d := range decorators {
			if d != nil {
				o.Decorators = append(o.Decorators, d)
			}
		}
	}
}

// Build loads raw (JSON or YAML) and converts the operation identified by
// operationID into a FormModel. Fields are ordered by their x-shelf order
// hint, then by name.
func Build(ctx context.Context, raw []byte, operationID string, opts ...Option) (model.FormModel, error) {
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if len(raw) == 0 {
		return model.FormModel{}, errors.New("openapi: document payload is empty")
	}

	options := Options{Labeler: DefaultLabeler}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if options.Validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return model.FormModel{}, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	method, path, op, err := findOperation(doc, operationID)
	if err != nil {
		return model.FormModel{}, err
	}

	form := model.FormModel{
		OperationID: operationID,
		Endpoint:    path,
		Method:      method,
		Summary:     op.Summary,
		Description: op.Description,
		Metadata:    stringExtensions(op.Extensions),
	}

	schema := requestSchema(op.RequestBody)
	if schema == nil {
		return model.FormModel{}, fmt.Errorf("openapi: operation %q has no request schema", operationID)
	}
	if types := firstSchemaType(schema.Type); types != "" && types != "object" {
		return model.FormModel{}, fmt.Errorf("openapi: operation %q request schema is %s, want object", operationID, types)
	}

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	type ordered struct {
		field model.Field
		order int
	}
	entries := make([]ordered, 0, len(schema.Properties))
	for name, ref := range schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		field, order := convertField(name, ref.Value, required[name], options.Labeler)
		entries = append(entries, ordered{field: field, order: order})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].field.Name < entries[j].field.Name
	})

	form.Fields = make([]model.Field, 0, len(entries))
	for _, entry := range entries {
		form.Fields = append(form.Fields, entry.field)
	}
	for _, d := range options.Decorators {
		if err := d.Decorate(&form); err != nil {
			return model.FormModel{}, fmt.Errorf("openapi: decorate %q: %w", operationID, err)
		}
	}
	return form, nil
}

func findOperation(doc *openapi3.T, operationID string) (string, string, *openapi3.Operation, error) {
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return "", "", nil, errors.New("openapi: document does not contain any paths")
	}
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return strings.ToUpper(method), path, op, nil
			}
		}
	}
	return "", "", nil, fmt.Errorf("openapi: operation %q not found", operationID)
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func convertField(name string, src *openapi3.Schema, required bool, labeler func(string) string) (model.Field, int) {
	field := model.Field{
		Name:        name,
		Type:        fieldType(firstSchemaType(src.Type)),
		Format:      src.Format,
		Required:    required,
		Description: src.Description,
		Default:     src.Default,
	}
	if len(src.Enum) > 0 {
		field.Enum = append([]any(nil), src.Enum...)
	}

	if src.Min != nil {
		field.Validations = append(field.Validations, rule(model.ValidationRuleMin, formatNumber(*src.Min)))
	}
	if src.Max != nil {
		field.Validations = append(field.Validations, rule(model.ValidationRuleMax, formatNumber(*src.Max)))
	}
	if src.MinLength != 0 {
		field.Validations = append(field.Validations, rule(model.ValidationRuleMinLength, strconv.FormatUint(src.MinLength, 10)))
	}
	if src.MaxLength != nil {
		field.Validations = append(field.Validations, rule(model.ValidationRuleMaxLength, strconv.FormatUint(*src.MaxLength, 10)))
	}

	hints := namespaceHints(src.Extensions)
	field.Label = hints["label"]
	if field.Label == "" && labeler != nil {
		field.Label = labeler(name)
	}
	field.Placeholder = hints["placeholder"]
	if widget := hints["widget"]; widget != "" {
		field.Metadata = map[string]string{"widget": widget}
	}

	order := unordered
	if parsed, err := strconv.Atoi(hints["order"]); err == nil {
		order = parsed
	}
	return field, order
}

func rule(kind, value string) model.ValidationRule {
	return model.ValidationRule{Kind: kind, Params: map[string]string{"value": value}}
}

func fieldType(raw string) model.FieldType {
	switch raw {
	case "integer":
		return model.FieldTypeInteger
	case "number":
		return model.FieldTypeNumber
	case "boolean":
		return model.FieldTypeBoolean
	default:
		return model.FieldTypeString
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}

// namespaceHints flattens the x-shelf object and x-shelf-* keys into
// string hints. Extension values arrive already decoded.
func namespaceHints(ext map[string]any) map[string]string {
	if len(ext) == 0 {
		return nil
	}
	hints := make(map[string]string)
	if nested, ok := ext[extensionNamespace].(map[string]any); ok {
		for key, value := range nested {
			if text, ok := stringify(value); ok {
				hints[key] = text
			}
		}
	}
	prefix := extensionNamespace + "-"
	for key, value := range ext {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if text, ok := stringify(value); ok {
			hints[strings.TrimPrefix(key, prefix)] = text
		}
	}
	return hints
}

func stringExtensions(ext map[string]any) map[string]string {
	hints := namespaceHints(ext)
	if len(hints) == 0 {
		return nil
	}
	return hints
}

func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case float64:
		return formatNumber(v), true
	case int:
		return strconv.Itoa(v), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

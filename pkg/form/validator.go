package form

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-shelf/internal/openapi"
	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/model"
)

//go:embed schema/books.yaml
var defaultSchema []byte

// OperationID names the create operation the form model is read from.
const OperationID = "createBook"

// MinYear is the lowest accepted publish year.
const MinYear = 1000

// Option customises a Validator.
type Option func(*config)

type config struct {
	now    func() time.Time
	schema []byte
}

// WithClock overrides the clock used for the publish year upper bound.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithSchema replaces the embedded OpenAPI document.
func WithSchema(raw []byte) Option {
	return func(c *config) {
		if len(raw) > 0 {
			c.schema = raw
		}
	}
}

// submission mirrors Input with validation tags. Names resolve through the
// form tag so errors are keyed like the rendered inputs.
type submission struct {
	Title         string `form:"title" validate:"required"`
	Author        string `form:"author" validate:"required"`
	Genre         string `form:"genre" validate:"required"`
	PublishedYear string `form:"publishedYear" validate:"required,year,minyear,notfuture"`
	Status        string `form:"status" validate:"required,status"`
}

// Validator turns raw input into drafts. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
	model    model.FormModel
	minYear  int
}

// NewValidator builds a Validator and its form model.
func NewValidator(opts ...Option) (*Validator, error) {
	cfg := config{now: time.Now, schema: defaultSchema}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	formModel, err := openapi.Build(context.Background(), cfg.schema, OperationID)
	if err != nil {
		return nil, fmt.Errorf("form: build model: %w", err)
	}

	v := &Validator{
		now:     cfg.now,
		model:   formModel,
		minYear: MinYear,
	}
	if field, ok := formModel.Field(FieldPublishedYear); ok {
		if raw, ok := field.Rule(model.ValidationRuleMin); ok {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				v.minYear = int(parsed)
			}
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	})
	rules := map[string]validator.Func{
		"year": func(fl validator.FieldLevel) bool {
			_, ok := parseYear(fl.Field().String())
			return ok
		},
		"minyear": func(fl validator.FieldLevel) bool {
			year, ok := parseYear(fl.Field().String())
			return ok && year >= v.minYear
		},
		"notfuture": func(fl validator.FieldLevel) bool {
			year, ok := parseYear(fl.Field().String())
			return ok && year <= v.MaxYear()
		},
		"status": func(fl validator.FieldLevel) bool {
			return book.Status(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("form: register %s rule: %w", tag, err)
		}
	}
	v.validate = validate
	return v, nil
}

// MustValidator is NewValidator for the embedded schema; it panics on error.
func MustValidator(opts ...Option) *Validator {
	v, err := NewValidator(opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// MinYear returns the lowest accepted publish year.
func (v *Validator) MinYear() int {
	return v.minYear
}

// MaxYear returns the current year according to the validator clock.
func (v *Validator) MaxYear() int {
	return v.now().Year()
}

// Model returns the form model with the publish year bounds applied.
func (v *Validator) Model() model.FormModel {
	out, err := v.model.Decorate(model.SetRule(FieldPublishedYear, model.ValidationRuleMax, strconv.Itoa(v.MaxYear())))
	if err != nil {
		return v.model
	}
	return out
}

// Normalize trims every field and otherwise keeps the text as typed. An empty
// status falls back to the default.
func (v *Validator) Normalize(in Input) Input {
	out := Input{
		Title:         strings.TrimSpace(in.Title),
		Author:        strings.TrimSpace(in.Author),
		Genre:         strings.TrimSpace(in.Genre),
		PublishedYear: strings.TrimSpace(in.PublishedYear),
		Status:        strings.TrimSpace(in.Status),
	}
	if out.Status == "" {
		out.Status = string(book.StatusAvailable)
	}
	return out
}

// Validate checks every field independently and converts valid input into a
// draft. Failures are reported as *ValidationError.
func (v *Validator) Validate(in Input) (book.Draft, error) {
	in = v.Normalize(in)
	sub := submission(in)

	if err := v.validate.Struct(sub); err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return book.Draft{}, fmt.Errorf("form: validate: %w", err)
		}
		result := &ValidationError{Fields: make(map[string]string, len(fieldErrors))}
		for _, fe := range fieldErrors {
			if _, seen := result.Fields[fe.Field()]; seen {
				continue
			}
			result.Fields[fe.Field()] = message(fe.Field(), fe.Tag())
		}
		return book.Draft{}, result
	}

	year, _ := parseYear(in.PublishedYear)
	return book.Draft{
		Title:         in.Title,
		Author:        in.Author,
		Genre:         in.Genre,
		PublishedYear: year,
		Status:        book.Status(in.Status),
	}, nil
}

// ValidateField checks a single field and returns its message, or an empty
// string when the value is acceptable.
func (v *Validator) ValidateField(name, value string) string {
	in := v.Normalize(Input{}.Set(name, value))
	var tag string
	switch name {
	case FieldTitle, FieldAuthor, FieldGenre:
		tag = "required"
	case FieldPublishedYear:
		tag = "required,year,minyear,notfuture"
	case FieldStatus:
		tag = "required,status"
	default:
		return ""
	}
	err := v.validate.Var(in.Get(name), tag)
	if err == nil {
		return ""
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return message(name, fieldErrors[0].Tag())
	}
	return MessageYearInvalid
}

func message(field, tag string) string {
	switch field {
	case FieldTitle:
		return MessageTitleRequired
	case FieldAuthor:
		return MessageAuthorRequired
	case FieldGenre:
		return MessageGenreRequired
	case FieldPublishedYear:
		if tag == "required" {
			return MessageYearRequired
		}
		return MessageYearInvalid
	case FieldStatus:
		return MessageStatusInvalid
	default:
		return "Invalid value"
	}
}

func parseYear(raw string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return year, true
}

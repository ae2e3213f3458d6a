package form

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/model"
)

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(WithClock(fixedClock(2024)))
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return v
}

func TestValidateAcceptsCompleteInput(t *testing.T) {
	v := newTestValidator(t)

	draft, err := v.Validate(Input{
		Title:         "  Dune ",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		PublishedYear: " 1965 ",
		Status:        "Issued",
	})
	if err != nil {
		t.Fatalf("validate: %v", err)
	}

	want := book.Draft{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Genre:         "Science Fiction",
		PublishedYear: 1965,
		Status:        book.StatusIssued,
	}
	if diff := cmp.Diff(want, draft); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateReportsEachFieldIndependently(t *testing.T) {
	v := newTestValidator(t)

	_, err := v.Validate(Input{Title: "   ", PublishedYear: ""})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}

	want := map[string]string{
		FieldTitle:         MessageTitleRequired,
		FieldAuthor:        MessageAuthorRequired,
		FieldGenre:         MessageGenreRequired,
		FieldPublishedYear: MessageYearRequired,
	}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if got := verr.Error(); got != "form: invalid input: author, genre, publishedYear, title" {
		t.Fatalf("error text = %q", got)
	}
}

func TestValidateYearBounds(t *testing.T) {
	v := newTestValidator(t)
	base := Input{Title: "T", Author: "A", Genre: "G"}

	cases := map[string]struct {
		year string
		want string
	}{
		"lower bound":  {year: "1000", want: ""},
		"current year": {year: "2024", want: ""},
		"below range":  {year: "999", want: MessageYearInvalid},
		"future":       {year: "3000", want: MessageYearInvalid},
		"next year":    {year: "2025", want: MessageYearInvalid},
		"not a number": {year: "19x5", want: MessageYearInvalid},
		"decimal":      {year: "1999.5", want: MessageYearInvalid},
		"missing":      {year: "", want: MessageYearRequired},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			in.PublishedYear = tc.year
			_, err := v.Validate(in)
			var verr *ValidationError
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if got := verr.Message(FieldPublishedYear); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateYearBoundFollowsClock(t *testing.T) {
	year := 2024
	v, err := NewValidator(WithClock(func() time.Time {
		return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}))
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}

	if msg := v.ValidateField(FieldPublishedYear, "2025"); msg != MessageYearInvalid {
		t.Fatalf("2025 accepted in 2024: %q", msg)
	}
	year = 2025
	if msg := v.ValidateField(FieldPublishedYear, "2025"); msg != "" {
		t.Fatalf("2025 rejected in 2025: %q", msg)
	}
}

func TestValidateStatus(t *testing.T) {
	v := newTestValidator(t)
	base := Input{Title: "T", Author: "A", Genre: "G", PublishedYear: "2000"}

	draft, err := v.Validate(base)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if draft.Status != book.StatusAvailable {
		t.Fatalf("default status = %q", draft.Status)
	}

	base.Status = "Lost"
	_, err = v.Validate(base)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Message(FieldStatus) != MessageStatusInvalid {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestValidateKeepsTextAsTyped(t *testing.T) {
	v := newTestValidator(t)

	cases := []string{
		"Generics <T> in Go",
		"HTML &lt;b&gt; tags",
		"<Untitled>",
		"Pride & Prejudice",
	}
	for _, title := range cases {
		draft, err := v.Validate(Input{
			Title:         "  " + title + "  ",
			Author:        "O'Brien",
			Genre:         "<i>Essays</i>",
			PublishedYear: "1999",
		})
		if err != nil {
			t.Fatalf("validate %q: %v", title, err)
		}
		if draft.Title != title || draft.Author != "O'Brien" || draft.Genre != "<i>Essays</i>" {
			t.Fatalf("text changed: %+v", draft)
		}
	}
}

func TestValidateField(t *testing.T) {
	v := newTestValidator(t)

	cases := []struct {
		field string
		value string
		want  string
	}{
		{FieldTitle, "", MessageTitleRequired},
		{FieldTitle, "Emma", ""},
		{FieldAuthor, " ", MessageAuthorRequired},
		{FieldGenre, "Drama", ""},
		{FieldPublishedYear, "", MessageYearRequired},
		{FieldPublishedYear, "3000", MessageYearInvalid},
		{FieldPublishedYear, "1950", ""},
		{FieldStatus, "Issued", ""},
		{FieldStatus, "Gone", MessageStatusInvalid},
		{"unknown", "x", ""},
	}
	for _, tc := range cases {
		if got := v.ValidateField(tc.field, tc.value); got != tc.want {
			t.Errorf("ValidateField(%s, %q) = %q, want %q", tc.field, tc.value, got, tc.want)
		}
	}
}

func TestModelAppliesYearBounds(t *testing.T) {
	v := newTestValidator(t)
	form := v.Model()

	if diff := cmp.Diff(Fields(), form.FieldNames()); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}

	year, ok := form.Field(FieldPublishedYear)
	if !ok {
		t.Fatalf("publishedYear missing")
	}
	want := []model.ValidationRule{
		{Kind: model.ValidationRuleMin, Params: map[string]string{"value": "1000"}},
		{Kind: model.ValidationRuleMax, Params: map[string]string{"value": "2024"}},
	}
	if diff := cmp.Diff(want, year.Validations); diff != "" {
		t.Fatalf("year rules mismatch (-want +got):\n%s", diff)
	}
	if year.Placeholder != "Enter published year" || year.Label != "Published Year" || !year.Required {
		t.Fatalf("unexpected year field: %+v", year)
	}

	status, _ := form.Field(FieldStatus)
	if diff := cmp.Diff([]string{"Available", "Issued"}, status.EnumStrings()); diff != "" {
		t.Fatalf("status options mismatch (-want +got):\n%s", diff)
	}
	if status.Required {
		t.Fatalf("status should be optional")
	}
	if form.Metadata["submitEdit"] != "Update Book" {
		t.Fatalf("metadata = %v", form.Metadata)
	}
	if v.MinYear() != 1000 || v.MaxYear() != 2024 {
		t.Fatalf("bounds = [%d, %d]", v.MinYear(), v.MaxYear())
	}
}

func TestNewValidatorRejectsBrokenSchema(t *testing.T) {
	if _, err := NewValidator(WithSchema([]byte("openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n"))); err == nil {
		t.Fatalf("expected error for schema without operations")
	}
}

func TestStateConstructors(t *testing.T) {
	created := NewCreate()
	if created.Editing() {
		t.Fatalf("create form reports editing")
	}
	if diff := cmp.Diff(Input{Status: "Available"}, created.Input); diff != "" {
		t.Fatalf("create defaults mismatch (-want +got):\n%s", diff)
	}

	existing := book.Book{ID: "b1", Title: "Emma", Author: "Jane Austen", Genre: "Romance", PublishedYear: 1815, Status: book.StatusIssued}
	edit := NewEdit(existing)
	if !edit.Editing() || edit.Target.ID != "b1" {
		t.Fatalf("unexpected edit state: %+v", edit)
	}
	want := Input{Title: "Emma", Author: "Jane Austen", Genre: "Romance", PublishedYear: "1815", Status: "Issued"}
	if diff := cmp.Diff(want, edit.Input); diff != "" {
		t.Fatalf("edit input mismatch (-want +got):\n%s", diff)
	}

	failed := edit.WithErrors(want.Set(FieldTitle, ""), &ValidationError{Fields: map[string]string{FieldTitle: MessageTitleRequired}})
	if failed.Error(FieldTitle) != MessageTitleRequired || failed.Input.Title != "" {
		t.Fatalf("unexpected failed state: %+v", failed)
	}
	if edit.Errors != nil {
		t.Fatalf("WithErrors mutated the receiver")
	}
}

package vanilla

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-shelf/pkg/book"
	"github.com/goliatone/go-shelf/pkg/dashboard"
	"github.com/goliatone/go-shelf/pkg/form"
	"github.com/goliatone/go-shelf/pkg/model"
	"github.com/goliatone/go-shelf/pkg/render"
)

const defaultTitle = "Book Management Dashboard"

const skeletonRows = 5

var sortLabels = map[dashboard.SortKey]string{
	dashboard.SortNone:   "Sort: default",
	dashboard.SortTitle:  "Sort: title",
	dashboard.SortAuthor: "Sort: author",
	dashboard.SortGenre:  "Sort: genre",
	dashboard.SortYear:   "Sort: year",
	dashboard.SortStatus: "Sort: status",
}

// pageContext flattens a View into the plain maps and slices the template
// reads.
func pageContext(view dashboard.View, options render.RenderOptions) map[string]any {
	title := options.Title
	if title == "" {
		title = defaultTitle
	}

	rows := make([]map[string]any, 0, len(view.Rows))
	for _, b := range view.Rows {
		rows = append(rows, rowContext(b))
	}

	sortOptions := []map[string]any{{"value": "", "label": sortLabels[dashboard.SortNone]}}
	for _, key := range dashboard.SortKeys() {
		sortOptions = append(sortOptions, map[string]any{"value": string(key), "label": sortLabels[key]})
	}

	ctx := map[string]any{
		"title":          title,
		"base":           strings.TrimRight(options.BasePath, "/"),
		"classes":        chromeClasses(),
		"loading":        view.Loading,
		"skeleton":       make([]int, skeletonRows),
		"skeleton_cells": make([]int, 6),
		"empty":          view.Empty(),
		"rows":           rows,
		"total":          view.Total,
		"filtered":       view.Filtered,
		"count_label":    view.CountLabel(),
		"range_label":    view.RangeLabel(),
		"page":           view.Page,
		"total_pages":    view.TotalPages,
		"pages":          view.Pages,
		"has_prev":       view.HasPrev,
		"has_next":       view.HasNext,
		"genres":         view.Genres,
		"statuses":       view.Statuses,
		"sort_options":   sortOptions,
		"filters": map[string]any{
			"search": view.Filters.Search,
			"genre":  view.Filters.Genre,
			"status": view.Filters.Status,
		},
		"sort": map[string]any{
			"key":  string(view.Sort.Key),
			"desc": view.Sort.Desc,
		},
		"form":         nil,
		"prompt":       nil,
		"notification": nil,
	}

	if view.Form != nil {
		ctx["form"] = formContext(*view.Form, view.FormModel, view.FormBusy)
	}
	if view.Prompt != nil {
		ctx["prompt"] = map[string]any{
			"heading": view.Prompt.Title(),
			"message": view.Prompt.Message(),
			"busy":    view.PromptBusy,
		}
	}
	if n := view.Notification; n != nil {
		ctx["notification"] = map[string]any{
			"id":        strconv.FormatUint(n.ID, 10),
			"message":   n.Message,
			"severity":  string(n.Severity),
			"remaining": view.NotificationRemaining,
		}
	}
	return ctx
}

func rowContext(b book.Book) map[string]any {
	return map[string]any{
		"id":     b.ID,
		"title":  b.Title,
		"author": b.Author,
		"genre":  b.Genre,
		"year":   b.PublishedYear,
		"status": string(b.Status),
	}
}

func formContext(state form.State, formModel model.FormModel, busy bool) map[string]any {
	heading, submit := "Add New Book", "Add Book"
	if value := formModel.Metadata["titleCreate"]; value != "" {
		heading = value
	}
	if value := formModel.Metadata["submitCreate"]; value != "" {
		submit = value
	}
	if state.Editing() {
		heading, submit = "Edit Book", "Update Book"
		if value := formModel.Metadata["titleEdit"]; value != "" {
			heading = value
		}
		if value := formModel.Metadata["submitEdit"]; value != "" {
			submit = value
		}
	}

	fields := make([]map[string]any, 0, len(formModel.Fields))
	for _, field := range formModel.Fields {
		fields = append(fields, fieldContext(field, state))
	}
	return map[string]any{
		"mode":         state.Mode.String(),
		"editing":      state.Editing(),
		"heading":      heading,
		"submit_label": submit,
		"busy":         busy,
		"fields":       fields,
	}
}

func fieldContext(field model.Field, state form.State) map[string]any {
	kind := "text"
	switch {
	case len(field.Enum) > 0 || field.Metadata["widget"] == "select":
		kind = "select"
	case field.Type == model.FieldTypeInteger || field.Type == model.FieldTypeNumber:
		kind = "number"
	}

	value := state.Input.Get(field.Name)
	if value == "" && field.Default != nil {
		value = fmt.Sprint(field.Default)
	}

	out := map[string]any{
		"name":        field.Name,
		"label":       field.Label,
		"kind":        kind,
		"required":    field.Required,
		"placeholder": field.Placeholder,
		"help":        helpHTML(field.Description),
		"value":       value,
		"error":       state.Error(field.Name),
		"options":     field.EnumStrings(),
		"min":         "",
		"max":         "",
	}
	if kind == "number" {
		if value, ok := field.Rule(model.ValidationRuleMin); ok {
			out["min"] = value
		}
		if value, ok := field.Rule(model.ValidationRuleMax); ok {
			out["max"] = value
		}
	}
	return out
}

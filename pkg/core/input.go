package core

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// CreateInput is the request record for Repository.Create.
// Both fields are required once surrounding whitespace is removed.
type CreateInput struct {
	Title   string `json:"title" yaml:"title" validate:"required"`
	Content string `json:"content" yaml:"content" validate:"required"`
}

// UpdateInput is the request record for Repository.Update.
// A nil or empty field is treated as absent and keeps the stored value.
type UpdateInput struct {
	Title   *string `json:"title,omitempty" yaml:"title,omitempty"`
	Content *string `json:"content,omitempty" yaml:"content,omitempty"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func inputValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Normalize trims both fields and validates the result.
func (in CreateInput) Normalize() (CreateInput, error) {
	out := CreateInput{
		Title:   strings.TrimSpace(in.Title),
		Content: strings.TrimSpace(in.Content),
	}

	if err := inputValidator().Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return CreateInput{}, &ValidationError{Fields: fields}
		}
		return CreateInput{}, err
	}

	return out, nil
}

// apply merges the supplied fields into n. Supplied values are trimmed but
// their emptiness is not re-validated, so a whitespace-only value clears the field.
func (in UpdateInput) apply(n Note) Note {
	if in.Title != nil && *in.Title != "" {
		n.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil && *in.Content != "" {
		n.Content = strings.TrimSpace(*in.Content)
	}
	return n
}

// ParseID converts a raw id as received from a caller into a note id.
// Surrounding whitespace is ignored, but the rest must be a base-10 integer:
// "12abc" and "1.5" are rejected rather than read as their numeric prefix.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return id, nil
}

// String returns a pointer to s, for building UpdateInput values.
func String(s string) *string {
	return &s
}

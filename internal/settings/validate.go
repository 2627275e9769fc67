package settings

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/romangod6/sitemapd/internal/models"
)

// TagName is shared with gin's binding so one struct tag serves both.
const TagName = "binding"

var priorityPattern = regexp.MustCompile(`^(0\.[0-9]|1\.0)$`)

// Update is the payload accepted when an operator changes a type's settings.
type Update struct {
	Included  *bool  `json:"included" binding:"required"`
	Frequency string `json:"frequency" binding:"omitempty,changefreq"`
	Priority  string `json:"priority" binding:"omitempty,sitemap_priority"`
}

// TypeSettings converts a validated update.
func (u Update) TypeSettings() models.TypeSettings {
	return models.TypeSettings{
		Included:  u.Included != nil && *u.Included,
		Frequency: u.Frequency,
		Priority:  u.Priority,
	}
}

// RegisterValidations adds the changefreq, sitemap_priority and robots tags.
func RegisterValidations(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"changefreq": func(fl validator.FieldLevel) bool {
			_, ok := models.ParseChangeFrequency(fl.Field().String())
			return ok
		},
		"sitemap_priority": func(fl validator.FieldLevel) bool {
			return priorityPattern.MatchString(fl.Field().String())
		},
		"robots": func(fl validator.FieldLevel) bool {
			return models.RobotsDirective(fl.Field().String()).Valid()
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}

// Validator checks updates outside of gin, e.g. from the CLI.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.SetTagName(TagName)
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

// Validate returns a field → failed tag map, or nil when s is valid.
func (v *Validator) Validate(s interface{}) map[string]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	fields := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return fields
	}
	fields["_"] = err.Error()
	return fields
}

// Package types provides type definitions for structured data used throughout the persona-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// CompanyInput represents the company and marketing details submitted for one generation run.
type CompanyInput struct {
	Name           string          `json:"company_name" validate:"required,notblank"`
	Description    string          `json:"company_description" validate:"required,notblank"`
	URL            string          `json:"company_url,omitempty" validate:"omitempty,url"`
	MarketingGoals string          `json:"marketing_goals" validate:"required,notblank"`
	Files          []ProcessedFile `json:"files,omitempty"`
}

var inputValidator = newInputValidator()

func newInputValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate validates the CompanyInput using the validator.
func (c *CompanyInput) Validate() error {
	return inputValidator.Struct(c)
}

// Trimmed returns a copy with surrounding whitespace removed from every text field.
func (c CompanyInput) Trimmed() CompanyInput {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
	c.URL = strings.TrimSpace(c.URL)
	c.MarketingGoals = strings.TrimSpace(c.MarketingGoals)
	return c
}

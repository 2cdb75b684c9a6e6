// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

// Package validation provides struct validation using go-playground/validator v10.
// A thread-safe singleton instance validates configuration and API request
// bodies, translating failures into the VALIDATION_ERROR response format.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes a single field validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

// Error returns the human-readable message.
func (e FieldError) Error() string {
	return e.Message
}

// Errors is a collection of field validation failures.
type Errors struct {
	fields []FieldError
}

// Fields returns the individual field errors.
func (ve *Errors) Fields() []FieldError {
	return ve.fields
}

// Error implements the error interface.
func (ve *Errors) Error() string {
	if len(ve.fields) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.fields))
	for i, fe := range ve.fields {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateStruct validates a struct against its `validate` tags.
// Returns nil on success, *Errors on failure.
func ValidateStruct(s interface{}) *Errors {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &Errors{fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(validationErrs))
	for i, fe := range validationErrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translateError(fe),
		}
	}
	return &Errors{fields: fields}
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
	"datetime": "%s must be a valid date/time in RFC3339 format",
	"url":      "%s must be a valid URL",
	"uuid":     "%s must be a valid UUID",
}

// errorMessageWithParam maps validation tags to templates that include the param.
var errorMessageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}
	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max with type-specific wording.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind().String() == "string"

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}

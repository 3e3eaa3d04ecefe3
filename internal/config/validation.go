// Package config provides configuration management for the Sharp Picks service.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("roles", validateRoles)
	_ = v.RegisterValidation("categories", validateCategories)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

var validRoles = map[string]bool{
	"star":      true,
	"starter":   true,
	"sixth_man": true,
	"rotation":  true,
	"bench":     true,
}

func validateRoles(fl validator.FieldLevel) bool {
	roles, ok := fl.Field().Interface().([]string)
	if !ok || len(roles) == 0 {
		return false
	}
	seen := make(map[string]bool, len(roles))
	for _, r := range roles {
		if !validRoles[r] || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

var validCategories = map[string]bool{
	"points":   true,
	"rebounds": true,
	"assists":  true,
	"threes":   true,
	"steals":   true,
	"blocks":   true,
}

func validateCategories(fl validator.FieldLevel) bool {
	categories, ok := fl.Field().Interface().([]string)
	if !ok || len(categories) == 0 {
		return false
	}
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		if !validCategories[c] || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

func validateCrossField(cfg *Config) error {
	if cfg.Gates.EdgeFloor >= cfg.Slots.FlexWideEdge {
		return fmt.Errorf("gates.edge_floor (%.2f) must be below slots.flex_wide_edge (%.2f)",
			cfg.Gates.EdgeFloor, cfg.Slots.FlexWideEdge)
	}
	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("database.max_idle_connections cannot exceed database.max_connections")
	}
	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on %s", e.Namespace(), e.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

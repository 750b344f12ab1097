package validator

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/HrustakV/kratky-link/pkg/response"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var aliasRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	minAliasLength = 3
	maxAliasLength = 50
)

func init() {
	validate = validator.New()

	validate.RegisterValidation("alias", func(fl validator.FieldLevel) bool {
		return IsValidCustomCode(fl.Field().String())
	})
}

func Validate(data interface{}) []response.ValidationError {
	var validationErrors []response.ValidationError

	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, response.ValidationError{
				Field:   err.Field(),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

// FormatURL prefixes https:// when the input carries no http(s) scheme.
// Normalization runs before validation, so "example.com" is acceptable input.
func FormatURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "https://" + raw
	}
	return raw
}

// IsValidURL reports whether raw parses as an absolute http(s) URL with a host.
func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Hostname() != ""
}

// IsLoopURL reports whether the URL targets one of the service's own hosts
// (or their www. variants), which would create an infinite redirect chain.
func IsLoopURL(raw string, loopHosts []string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range loopHosts {
		h = strings.ToLower(h)
		if host == h || host == "www."+h {
			return true
		}
	}
	return false
}

func IsValidCustomCode(code string) bool {
	if len(code) < minAliasLength || len(code) > maxAliasLength {
		return false
	}
	return aliasRegex.MatchString(code)
}

func getErrorMessage(err validator.FieldError) string {
	field := err.Field()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "alias":
		return fmt.Sprintf("%s must be 3-50 characters of letters, digits, hyphens and underscores", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, err.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/brightline-studio/site-backend/errs"
)

// Field limits for contact submissions
const (
	minNameLength     = 2
	maxNameLength     = 200
	maxEmailLength    = 320
	minCompanyLength  = 2
	maxCompanyLength  = 200
	minMessageLength  = 5
	maxMessageLength  = 5000
	maxUTMLength      = 200
	maxPageURLLength  = 2048
	maxTimestampField = 64
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ContactInput is a validated, normalized contact payload.
type ContactInput struct {
	Name              string
	Email             string // lower-cased
	Company           string
	Message           string
	MarketingOptIn    bool
	PageURL           string
	UTMSource         string
	UTMMedium         string
	UTMCampaign       string
	ClientSubmittedAt string
}

// fieldErrors collects messages per field so a single pass reports everything.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, format string, args ...any) {
	f[field] = append(f[field], fmt.Sprintf(format, args...))
}

// ValidateContactPayload checks an untrusted payload in one pass. On failure it
// returns a validation ApiErr listing every failing field.
func ValidateContactPayload(payload map[string]any) (ContactInput, error) {
	problems := fieldErrors{}
	var input ContactInput

	input.Name = requiredText(problems, payload, "name", "Name", minNameLength, maxNameLength)
	input.Company = requiredText(problems, payload, "company", "Company", minCompanyLength, maxCompanyLength)
	input.Message = requiredText(problems, payload, "message", "Message", minMessageLength, maxMessageLength)

	if email, ok := stringField(problems, payload, "email"); ok {
		email = strings.ToLower(strings.TrimSpace(email))
		switch {
		case !emailPattern.MatchString(email):
			problems.add("email", "Please enter a valid email address")
		case len(email) > maxEmailLength:
			problems.add("email", "Email must be at most %d characters", maxEmailLength)
		default:
			input.Email = email
		}
	}

	input.MarketingOptIn = coerceBool(payload["marketingOptIn"])

	if pageURL, ok := optionalText(problems, payload, "pageUrl", maxPageURLLength); ok && pageURL != "" {
		if !isAbsoluteURL(pageURL) {
			problems.add("pageUrl", "Page URL must be a valid URL")
		} else {
			input.PageURL = pageURL
		}
	}

	input.UTMSource, _ = optionalText(problems, payload, "utm_source", maxUTMLength)
	input.UTMMedium, _ = optionalText(problems, payload, "utm_medium", maxUTMLength)
	input.UTMCampaign, _ = optionalText(problems, payload, "utm_campaign", maxUTMLength)
	input.ClientSubmittedAt, _ = optionalText(problems, payload, "submittedAt", maxTimestampField)

	if len(problems) > 0 {
		return ContactInput{}, errs.NewValidationError(problems)
	}
	return input, nil
}

// stringField reads key as a string. A missing key is reported as required.
func stringField(problems fieldErrors, payload map[string]any, key string) (string, bool) {
	raw, present := payload[key]
	if !present || raw == nil {
		problems.add(key, "Required")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		problems.add(key, "Expected string, received %s", jsonTypeName(raw))
		return "", false
	}
	return s, true
}

func requiredText(problems fieldErrors, payload map[string]any, key, label string, min, max int) string {
	s, ok := stringField(problems, payload, key)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	switch {
	case n < min:
		problems.add(key, "%s must be at least %d characters", label, min)
		return ""
	case n > max:
		problems.add(key, "%s must be at most %d characters", label, max)
		return ""
	}
	return s
}

// optionalText returns the trimmed value of an optional string field. ok is
// false when the field is absent or invalid.
func optionalText(problems fieldErrors, payload map[string]any, key string, max int) (string, bool) {
	raw, present := payload[key]
	if !present || raw == nil {
		return "", false
	}
	s, isString := raw.(string)
	if !isString {
		problems.add(key, "Expected string, received %s", jsonTypeName(raw))
		return "", false
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > max {
		problems.add(key, "Must be at most %d characters", max)
		return "", false
	}
	return s, true
}

func coerceBool(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return strings.EqualFold(strings.TrimSpace(v), "on") || strings.EqualFold(strings.TrimSpace(v), "yes")
		}
		return b
	case float64:
		return v != 0
	default:
		return false
	}
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

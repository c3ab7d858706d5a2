package booking

import (
	"context"
	"regexp"
	"strings"

	"github.com/smartdocs-ai/assistant/internal/nlu"
)

// Validation is the explicit result type shared by all field validators.
// Expected "could not parse" outcomes are values, never errors.
type Validation struct {
	Valid      bool
	Normalized string
	Reason     string
}

// Validator normalizes and validates one candidate value for one field.
type Validator func(ctx context.Context, raw string) Validation

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// phoneSeparators are stripped before the digits-only check.
var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")

// ValidateName accepts any non-empty trimmed string.
func ValidateName(_ context.Context, raw string) Validation {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Validation{Reason: "name is empty"}
	}
	return Validation{Valid: true, Normalized: name}
}

// ValidatePhone strips common separators and requires a digits-only remainder
// of at least 10 digits. Validation is purely structural so it stays
// deterministic and testable.
func ValidatePhone(_ context.Context, raw string) Validation {
	phone := phoneSeparators.Replace(strings.TrimSpace(raw))
	if phone == "" {
		return Validation{Reason: "phone number is empty"}
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return Validation{Reason: "phone number may only contain digits and separators"}
		}
	}
	if len(phone) < 10 {
		return Validation{Reason: "phone number must have at least 10 digits"}
	}
	return Validation{Valid: true, Normalized: phone}
}

// ValidateEmail requires local-part @ domain . tld and normalizes to lower
// case.
func ValidateEmail(_ context.Context, raw string) Validation {
	email := strings.TrimSpace(raw)
	if email == "" {
		return Validation{Reason: "email address is empty"}
	}
	if !emailPattern.MatchString(email) {
		return Validation{Reason: "email address is not in a valid format"}
	}
	return Validation{Valid: true, Normalized: strings.ToLower(email)}
}

// newDateTimeValidator delegates natural-language resolution to the NLU
// collaborator; the normalized value is an ISO-8601 date or date-time string
// in the configured timezone.
func newDateTimeValidator(resolver nlu.DateResolver, timezone string) Validator {
	return func(ctx context.Context, raw string) Validation {
		phrase := strings.TrimSpace(raw)
		if phrase == "" {
			return Validation{Reason: "date/time is empty"}
		}
		result := resolver.ResolveDate(ctx, phrase, timezone)
		if !result.Valid {
			reason := result.Reason
			if reason == "" {
				reason = "no resolvable date found"
			}
			return Validation{Reason: reason}
		}
		return Validation{Valid: true, Normalized: result.ISODate}
	}
}

// validatorTable is the fixed dispatch table from field tags to validators.
type validatorTable map[Field]Validator

func newValidatorTable(resolver nlu.DateResolver, timezone string) validatorTable {
	return validatorTable{
		FieldName:     ValidateName,
		FieldPhone:    ValidatePhone,
		FieldEmail:    ValidateEmail,
		FieldDateTime: newDateTimeValidator(resolver, timezone),
	}
}

func (t validatorTable) validate(ctx context.Context, field Field, raw string) Validation {
	validator, ok := t[field]
	if !ok {
		return Validation{Reason: "unknown field"}
	}
	return validator(ctx, raw)
}

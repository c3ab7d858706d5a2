package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartdocs-ai/assistant/internal/nlu"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		valid      bool
		normalized string
	}{
		{"plain name", "Asha Sharma", true, "Asha Sharma"},
		{"trims whitespace", "  Ravi  ", true, "Ravi"},
		{"empty", "", false, ""},
		{"whitespace only", "   ", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateName(context.Background(), tt.raw)
			assert.Equal(t, tt.valid, v.Valid)
			assert.Equal(t, tt.normalized, v.Normalized)
			if !tt.valid {
				assert.NotEmpty(t, v.Reason)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		valid      bool
		normalized string
	}{
		{"bare digits", "9812345678", true, "9812345678"},
		{"with separators", "(981) 234-5678", true, "9812345678"},
		{"with spaces", "98 1234 5678", true, "9812345678"},
		{"too short", "12345", false, ""},
		{"letters", "98123456ab", false, ""},
		{"plus prefix rejected", "+9779812345678", false, ""},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidatePhone(context.Background(), tt.raw)
			assert.Equal(t, tt.valid, v.Valid, "reason: %s", v.Reason)
			assert.Equal(t, tt.normalized, v.Normalized)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		valid      bool
		normalized string
	}{
		{"plain", "asha@example.com", true, "asha@example.com"},
		{"lowercases", "Asha@Example.COM", true, "asha@example.com"},
		{"subdomain", "a.b@mail.example.co", true, "a.b@mail.example.co"},
		{"missing at", "ashaexample.com", false, ""},
		{"missing tld", "asha@example", false, ""},
		{"spaces inside", "asha @example.com", false, ""},
		{"empty", "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValidateEmail(context.Background(), tt.raw)
			assert.Equal(t, tt.valid, v.Valid, "reason: %s", v.Reason)
			assert.Equal(t, tt.normalized, v.Normalized)
		})
	}
}

type fixedResolver struct {
	result nlu.DateResult
}

func (f fixedResolver) ResolveDate(context.Context, string, string) nlu.DateResult {
	return f.result
}

func TestDateTimeValidator(t *testing.T) {
	t.Run("resolved date is accepted", func(t *testing.T) {
		validator := newDateTimeValidator(fixedResolver{result: nlu.DateResult{
			Valid:   true,
			ISODate: "2025-03-14T15:00:00",
		}}, "UTC")

		v := validator(context.Background(), "next friday at 3pm")
		assert.True(t, v.Valid)
		assert.Equal(t, "2025-03-14T15:00:00", v.Normalized)
	})

	t.Run("unresolvable phrase is rejected with reason", func(t *testing.T) {
		validator := newDateTimeValidator(fixedResolver{result: nlu.DateResult{
			Valid:  false,
			Reason: "no resolvable date found",
		}}, "UTC")

		v := validator(context.Background(), "whenever")
		assert.False(t, v.Valid)
		assert.Equal(t, "no resolvable date found", v.Reason)
	})

	t.Run("empty phrase never reaches the resolver", func(t *testing.T) {
		validator := newDateTimeValidator(fixedResolver{result: nlu.DateResult{Valid: true}}, "UTC")

		v := validator(context.Background(), "   ")
		assert.False(t, v.Valid)
	})
}

func TestValidatorTable(t *testing.T) {
	table := newValidatorTable(fixedResolver{result: nlu.DateResult{Valid: true, ISODate: "2025-01-01"}}, "UTC")

	assert.True(t, table.validate(context.Background(), FieldName, "Asha").Valid)
	assert.True(t, table.validate(context.Background(), FieldPhone, "9812345678").Valid)
	assert.True(t, table.validate(context.Background(), FieldEmail, "a@b.co").Valid)
	assert.True(t, table.validate(context.Background(), FieldDateTime, "tomorrow").Valid)
	assert.False(t, table.validate(context.Background(), Field("unknown"), "x").Valid)
}

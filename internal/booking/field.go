package booking

// Field identifies one slot of the booking form. The set is closed: the
// extractor is prompted with exactly these tokens and anything else it
// reports is dropped.
type Field string

const (
	FieldName     Field = "name"
	FieldPhone    Field = "phone"
	FieldEmail    Field = "email"
	FieldDateTime Field = "date_time"
)

// RequiredFields returns the fixed ordered list of fields a booking
// conversation must collect.
func RequiredFields() []Field {
	return []Field{FieldName, FieldPhone, FieldEmail, FieldDateTime}
}

// ParseField maps an extractor-reported name onto the closed field set.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldName, FieldPhone, FieldEmail, FieldDateTime:
		return Field(s), true
	}
	return "", false
}

// Label is the human wording used in re-prompts.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "name"
	case FieldPhone:
		return "phone number"
	case FieldEmail:
		return "email address"
	case FieldDateTime:
		return "date and time"
	}
	return string(f)
}

// Prompt is the targeted question asked when the field is rejected or still
// missing.
func (f Field) Prompt() string {
	switch f {
	case FieldName:
		return "What name should I put the booking under?"
	case FieldPhone:
		return "What's your phone number?"
	case FieldEmail:
		return "What's your email address?"
	case FieldDateTime:
		return "When would you like to schedule the call?"
	}
	return "Could you provide that again?"
}

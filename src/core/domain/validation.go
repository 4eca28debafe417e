package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation messages surfaced to API consumers.
const (
	MsgNameRequired     = "'Name' deve ser informado."
	MsgEmailRequired    = "'Email' deve ser informado."
	MsgEmailInvalid     = "'Email' é um endereço de email inválido."
	MsgPhoneDigits      = "'Phone' number must contain 8 or 9 digits."
	MsgAreaCodeRequired = "'DDD Id' deve ser informado."
	MsgAreaCodeUnknown  = "'DDD Id' não está cadastrado."
)

// Field names reported in ValidationFailure.Field.
const (
	FieldName     = "Name"
	FieldPhone    = "Phone"
	FieldEmail    = "Email"
	FieldAreaCode = "DDDId"
)

// ValidationFailure is a single (field, message) pair.
type ValidationFailure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult accumulates the failures of one validation pass.
type ValidationResult struct {
	Errors []ValidationFailure
}

// IsValid reports whether the pass produced no failures.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Fields returns the failing field names in order, duplicates included.
func (r ValidationResult) Fields() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field)
	}
	return out
}

// Add appends a failure.
func (r *ValidationResult) Add(field, message string) {
	r.Errors = append(r.Errors, ValidationFailure{Field: field, Message: message})
}

// contactRules is the shape the validator checks. Field order is the order
// failures are reported in.
type contactRules struct {
	Name  string `validate:"required"`
	Phone string `validate:"localphone"`
	Email string `validate:"required,email"`
	DDDId int    `validate:"required"`
}

var localPhonePattern = regexp.MustCompile(`^[0-9]{8,9}$`)

var contactValidator = newContactValidator()

func newContactValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("localphone", func(fl validator.FieldLevel) bool {
		return localPhonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// messages maps "<field>.<tag>" to the user-facing message.
var messages = map[string]string{
	FieldName + ".required":     MsgNameRequired,
	FieldEmail + ".required":    MsgEmailRequired,
	FieldEmail + ".email":       MsgEmailInvalid,
	FieldPhone + ".localphone":  MsgPhoneDigits,
	FieldAreaCode + ".required": MsgAreaCodeRequired,
}

func validateContact(c *Contact) ValidationResult {
	rules := contactRules{
		Name:  strings.TrimSpace(c.Name),
		Phone: c.Phone,
		Email: c.Email,
		DDDId: c.AreaCodeID,
	}

	var result ValidationResult
	err := contactValidator.Struct(rules)
	if err == nil {
		return result
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		result.Add("", err.Error())
		return result
	}
	for _, fe := range fieldErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "'" + fe.Field() + "' é inválido."
		}
		result.Add(fe.Field(), msg)
	}
	return result
}

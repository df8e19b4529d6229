package discovery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxAllowedResults caps Request.MaxResults.
const MaxAllowedResults = 50

var validate = validator.New(validator.WithRequiredStructEnabled())

// Request is one contact discovery call.
type Request struct {
	Company    string `json:"company" validate:"required,max=200"`
	Domain     string `json:"domain,omitempty" validate:"omitempty,max=253"`
	Role       string `json:"role,omitempty" validate:"max=200"`
	Location   string `json:"location,omitempty" validate:"max=200"`
	MaxResults int    `json:"max_results,omitempty" validate:"gte=0,lte=50"`
	// NoCache bypasses the response cache for both lookup and store.
	NoCache bool `json:"-"`
}

// Normalize trims surrounding whitespace from the free-text fields.
func (r Request) Normalize() Request {
	r.Company = strings.TrimSpace(r.Company)
	r.Domain = strings.TrimSpace(r.Domain)
	r.Role = strings.TrimSpace(r.Role)
	r.Location = strings.TrimSpace(r.Location)
	return r
}

// Validate checks the request shape and returns an *InputError on failure.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &InputError{Message: "invalid request", Cause: err}
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	if field == "maxresults" {
		field = "max_results"
	}
	return &InputError{Field: field, Message: describeTag(fe), Cause: err}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

package pages

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/desertthunder/solvex/internal/models"
	"github.com/desertthunder/solvex/internal/shared"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Field labels come from the form tag so messages read naturally.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("form"); name != "" {
			return name
		}
		return fld.Name
	})

	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	v.RegisterValidation("posint", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && n > 0
	})
	v.RegisterValidation("percent", func(fl validator.FieldLevel) bool {
		f, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
		return err == nil && f >= 0 && f <= 100
	})
	return v
}

// FieldError is one failed form field.
type FieldError struct {
	Field   string
	Message string
}

// FormError lists every failed field of a form. It wraps [shared.ErrValidation].
type FormError struct {
	Fields []FieldError
}

func (e *FormError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *FormError) Unwrap() error { return shared.ErrValidation }

// Field returns the message for field, or "" when it passed.
func (e *FormError) Field(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// validateForm checks form against its validate tags.
func validateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", shared.ErrValidation, err)
	}

	fe := &FormError{}
	for _, ve := range verrs {
		fe.Fields = append(fe.Fields, FieldError{Field: ve.Field(), Message: fieldMessage(ve)})
	}
	return fe
}

func fieldMessage(ve validator.FieldError) string {
	field := ve.Field()
	switch ve.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "posint", "gt":
		return fmt.Sprintf("%s must be a positive integer", field)
	case "percent":
		return fmt.Sprintf("%s must be between 0 and 100", field)
	case "gte", "lte":
		return fmt.Sprintf("%s must be between %d and %d", field, models.MinUsefulness, models.MaxUsefulness)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func itoa(n int) string { return strconv.Itoa(n) }

// ProblemForm is the create-problem input as typed by the user.
type ProblemForm struct {
	Title       string `form:"title" validate:"notblank"`
	UserID      string `form:"user id" validate:"posint"`
	Description string `form:"description"`
	ProblemType string `form:"problem type"`
	TagIDs      []int  `form:"tags" validate:"dive,gt=0"`
}

func (f ProblemForm) request() models.CreateProblemRequest {
	userID, _ := strconv.Atoi(strings.TrimSpace(f.UserID))
	return models.CreateProblemRequest{
		UserID:      userID,
		Title:       strings.TrimSpace(f.Title),
		Description: strings.TrimSpace(f.Description),
		ProblemType: strings.TrimSpace(f.ProblemType),
		Tags:        f.TagIDs,
	}
}

// SolutionForm is the create-solution input as typed by the user.
type SolutionForm struct {
	CodeSnippet            string `form:"code snippet" validate:"notblank"`
	Explanation            string `form:"explanation"`
	ApproachType           string `form:"approach type"`
	SuccessRate            string `form:"success rate" validate:"omitempty,percent"`
	ParentSolutionID       string `form:"parent solution id" validate:"omitempty,posint"`
	ImprovementDescription string `form:"improvement description"`
	BranchType             string `form:"branch type"`
}

func (f SolutionForm) request() models.CreateSolutionRequest {
	req := models.CreateSolutionRequest{
		CodeSnippet:            f.CodeSnippet,
		Explanation:            strings.TrimSpace(f.Explanation),
		ApproachType:           strings.TrimSpace(f.ApproachType),
		ImprovementDescription: strings.TrimSpace(f.ImprovementDescription),
		BranchType:             strings.TrimSpace(f.BranchType),
	}
	if v := strings.TrimSpace(f.SuccessRate); v != "" {
		rate, _ := strconv.ParseFloat(v, 64)
		req.SuccessRate = &rate
	}
	if v := strings.TrimSpace(f.ParentSolutionID); v != "" {
		id, _ := strconv.Atoi(v)
		req.ParentSolutionID = &id
	}
	return req
}

// ProfileForm is the editable part of the account view.
type ProfileForm struct {
	Username  string `form:"username" validate:"notblank"`
	Email     string `form:"email" validate:"notblank,email"`
	FirstName string `form:"first name"`
	LastName  string `form:"last name"`
}

func profileFormFrom(u *models.User) ProfileForm {
	if u == nil {
		return ProfileForm{}
	}
	return ProfileForm{Username: u.Username, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}

func (f ProfileForm) trimmed() ProfileForm {
	return ProfileForm{
		Username:  strings.TrimSpace(f.Username),
		Email:     strings.TrimSpace(f.Email),
		FirstName: strings.TrimSpace(f.FirstName),
		LastName:  strings.TrimSpace(f.LastName),
	}
}

func (f ProfileForm) request() models.UpdateUserRequest {
	return models.UpdateUserRequest{
		Username:  models.String(f.Username),
		Email:     models.String(f.Email),
		FirstName: models.String(f.FirstName),
		LastName:  models.String(f.LastName),
	}
}

// LoginForm identifies an existing account.
type LoginForm struct {
	Username string `form:"username" validate:"notblank"`
	Email    string `form:"email" validate:"notblank"`
}

// SignupForm registers a new account.
type SignupForm struct {
	Username  string `form:"username" validate:"notblank"`
	Email     string `form:"email" validate:"notblank,email"`
	FirstName string `form:"first name"`
	LastName  string `form:"last name"`
}

// resourceFilterForm checks the bounds of a resource filter.
type resourceFilterForm struct {
	MinScore *float64 `form:"min score" validate:"omitempty,gte=0,lte=5"`
}

package auth

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 8

// DateLayout is the booking date format.
const DateLayout = "2006-01-02"

// ValidationError carries a message meant to be shown next to the form.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// LoginForm is the input of the login view.
type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// SignupForm is the input of the signup view.
type SignupForm struct {
	Username string `validate:"required,max=32"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

// BookingForm is the input of the booking schedule view.
type BookingForm struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateLogin trims the form and checks both fields are present.
func ValidateLogin(form LoginForm) (LoginForm, error) {
	form.Username = strings.TrimSpace(form.Username)
	if err := instance().Struct(form); err != nil {
		return form, &ValidationError{Message: "Please enter both username and password."}
	}
	return form, nil
}

// ValidateSignup trims the form and checks every field.
func ValidateSignup(form SignupForm) (SignupForm, error) {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	if err := instance().Struct(form); err != nil {
		return form, &ValidationError{Message: signupMessage(err)}
	}
	return form, nil
}

// ValidateBooking checks the date is a calendar date in YYYY-MM-DD form.
func ValidateBooking(form BookingForm) (BookingForm, error) {
	form.Date = strings.TrimSpace(form.Date)
	if err := instance().Struct(form); err != nil {
		if form.Date == "" {
			return form, &ValidationError{Message: "Please choose a date."}
		}
		return form, &ValidationError{Message: "Dates look like 2025-06-01."}
	}
	return form, nil
}

func signupMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the signup form."
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			return "Please fill all fields."
		}
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Email":
		return "Please enter a valid email address."
	case "Password":
		return "Passwords need at least 8 characters."
	case "Username":
		return "Usernames are limited to 32 characters."
	}
	return "Please check the signup form."
}

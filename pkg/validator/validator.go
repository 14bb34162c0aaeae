package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/vedran77/roomie/internal/domain"
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return passwordProblem(fl.Field().String()) == ""
	})
	_ = validate.RegisterValidation("hostel", func(fl validator.FieldLevel) bool {
		return domain.IsHostel(fl.Field().String())
	})
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = validate.RegisterValidation("quizanswers", func(fl validator.FieldLevel) bool {
		answers, ok := fl.Field().Interface().(domain.Answers)
		return ok && quizAnswersOK(answers)
	})
}

const (
	maxQuizAnswers   = 100
	maxQuestionIDLen = 64
	maxAnswerLen     = 200
)

func quizAnswersOK(answers domain.Answers) bool {
	if len(answers) > maxQuizAnswers {
		return false
	}
	for id, answer := range answers {
		if strings.TrimSpace(id) == "" || len(id) > maxQuestionIDLen || len(answer) > maxAnswerLen {
			return false
		}
	}
	return true
}

// Struct checks s against its validate tags and returns one message per failing field.
func Struct(s any) ValidationErrors {
	errs := make(ValidationErrors)

	err := validate.Struct(s)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("body", "Invalid request")
		return errs
	}
	for _, fe := range fieldErrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	label := humanize(fe.Field())

	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return "Invalid email address"
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s is too long", label)
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hostel":
		return "Unknown hostel"
	case "quizanswers":
		return "Answers contain an invalid question id or an overlong answer"
	case "password":
		return passwordProblem(fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// humanize turns "photo_url" into "Photo url".
func humanize(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// passwordProblem describes what the password lacks, or returns "" if it is acceptable.
func passwordProblem(password string) string {
	if len(password) < 8 {
		return "Password must be at least 8 characters"
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	missing := []string{}
	if !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if !hasDigit {
		missing = append(missing, "one number")
	}

	if len(missing) > 0 {
		return fmt.Sprintf("Password must contain at least %s", strings.Join(missing, ", "))
	}
	return ""
}

// Package validation wraps go-playground/validator with English messages and the
// kitchen-specific tags used by request payloads.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"kitchenops/models"
)

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

// Error is returned by Struct when a payload fails validation.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, ", ")
}

// New returns the shared validator with translations and custom tags registered.
func New() *validator.Validate {
	once.Do(setup)
	return validate
}

// Struct validates v and translates any failures into an *Error.
func Struct(v any) error {
	err := New().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fe.Translate(trans))
	}
	return &Error{Messages: messages}
}

// First returns the first message of a validation failure as a sentence, or "" when err is
// not an *Error.
func First(err error) string {
	var verr *Error
	if !errors.As(err, &verr) || len(verr.Messages) == 0 {
		return ""
	}
	msg := verr.Messages[0]
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:] + "."
}

func setup() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// HTML forms name fields through a label tag, JSON payloads through their json key.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		if label := field.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	eng := en.New()
	uni := ut.New(eng, eng)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	registerCustom("mealtype", "{0} must be one of "+strings.Join(models.MealTypes(), ", "), func(fl validator.FieldLevel) bool {
		return models.ValidMealType(fl.Field().String())
	})
	registerCustom("theme", "{0} is not a supported theme", func(fl validator.FieldLevel) bool {
		return models.ValidTheme(fl.Field().String())
	})
}

func registerCustom(tag, message string, fn validator.Func) {
	_ = validate.RegisterValidation(tag, fn)
	_ = validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

// Package validate holds the process-wide struct validator and its english messages
package validate

import (
	"path"
	"reflect"
	"strings"
	"sync"

	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

// Svc bundles the validator with its translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	once sync.Once
	svc  *Svc
)

// Get returns the singleton, building it on first use
func Get() *Svc {
	once.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// name fields after their json, then env tag
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "env"} {
				tag := fld.Tag.Get(key)
				if idx := strings.Index(tag, ","); idx >= 0 {
					tag = tag[:idx]
				}
				if tag != "" && tag != "-" {
					return tag
				}
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerShort(v, trans, "min", "{0} must be at least {1}")
		registerShort(v, trans, "max", "{0} must be at most {1}")
		registerShort(v, trans, "oneof", "{0} must be one of [{1}]")

		_ = v.RegisterValidation("glob", validGlob)
		registerShort(v, trans, "glob", "{0} must hold valid path patterns")

		svc = &Svc{Validator: v, Translator: trans}
	})
	return svc
}

// Struct validates s and maps the first failure to a Validation error carrying the field
func Struct(s any) error {
	err := Get().Validator.Struct(s)
	if err == nil {
		return nil
	}
	field, msg := FieldAndMessage(err)
	e := perr.Wrapf(err, perr.ErrorCodeValidation, "%s", msg)
	if field != "" {
		e = perr.WithField(e, field)
	}
	return e
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	if inv, ok := err.(*validator.InvalidValidationError); ok {
		return "", inv.Error()
	}
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			return fe.Field(), fe.Translate(Get().Translator)
		}
	}
	return "", err.Error()
}

// validGlob accepts a string or []string of path.Match patterns
func validGlob(fl validator.FieldLevel) bool {
	check := func(p string) bool {
		p = strings.TrimSpace(p)
		if strings.Trim(p, "/") == "" {
			return false
		}
		_, err := path.Match(p, "")
		return err == nil
	}
	f := fl.Field()
	switch f.Kind() {
	case reflect.String:
		return check(f.String())
	case reflect.Slice:
		for i := 0; i < f.Len(); i++ {
			if f.Index(i).Kind() != reflect.String || !check(f.Index(i).String()) {
				return false
			}
		}
		return true
	}
	return false
}

func registerShort(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

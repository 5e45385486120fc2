// Package forms binds posted forms and turns validation failures into
// per-field messages.
package forms

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(fe[k])
		b.WriteString("\n")
	}
	return b.String()
}

// Add keeps the first message reported for a field.
func (fe FieldErrors) Add(field, msg string) {
	if _, ok := fe[field]; !ok {
		fe[field] = msg
	}
}

func (fe FieldErrors) Empty() bool {
	return len(fe) == 0
}

var (
	setupOnce  sync.Once
	translator ut.Translator
)

func setup() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// report fields by their form name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	locale := en.New()
	translator, _ = ut.New(locale, locale).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, translator)
}

// Bind fills dst from the request and returns the validation failures, if any.
func Bind(c *gin.Context, dst any) FieldErrors {
	setupOnce.Do(setup)

	fe := FieldErrors{}
	err := c.ShouldBind(dst)
	if err == nil {
		return fe
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, e := range ve {
			msg := e.Error()
			if translator != nil {
				msg = e.Translate(translator)
			}
			fe.Add(e.Field(), msg)
		}
		return fe
	}

	fe.Add("form", "Invalid form data: "+err.Error())
	return fe
}

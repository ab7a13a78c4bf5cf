package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// tagName matches the struct tag gin uses for binding constraints.
const tagName = "binding"

// Validator decodes and validates provider payloads. It is safe for
// concurrent use and should be built once per process.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

// NewValidator configures the validator engine with json field names,
// English messages, the model allow-lists and the content union rule.
func NewValidator() *Validator {
	v := validator.New()
	v.SetTagName(tagName)

	v.RegisterTagNameFunc(jsonName)

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	must(v.RegisterValidation("openai_model", func(fl validator.FieldLevel) bool {
		return IsOpenAIModel(fl.Field().String())
	}))
	must(v.RegisterValidation("anthropic_model", func(fl validator.FieldLevel) bool {
		return IsAnthropicModel(fl.Field().String())
	}))

	v.RegisterStructValidation(validateAnthropicMessage, AnthropicMessage{})
	v.RegisterStructValidation(validateOpenAIUsage, OpenAIUsage{})

	s := &Validator{validate: v, trans: trans}
	s.addTranslation("openai_model", "{0} is not a supported model")
	s.addTranslation("anthropic_model", "{0} is not a supported model")
	s.addTranslation("content_union", "{0} must be a string or a list of content blocks")
	s.addTranslation("usage_total", "{0} must equal prompt_tokens + completion_tokens")
	return s
}

func must(err error) {
	if err != nil {
		panic("schema: " + err.Error())
	}
}

func (v *Validator) addTranslation(tag, text string) {
	_ = v.validate.RegisterTranslation(tag, v.trans, func(t ut.Translator) error {
		return t.Add(tag, text, true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		msg, _ := t.T(tag, fe.Field())
		return msg
	})
}

// Validate checks an already typed value against its declared constraints.
// Constraint failures are returned as *ValidationError.
func (v *Validator) Validate(obj any) error {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Violations: v.violations(verrs)}
	}
	return err
}

// Decode unmarshals a JSON object into dst and validates it, collecting
// every reachable violation in one pass. Type mismatches are reported with
// their indexed path, and the constraints of a mistyped field are skipped.
// Object keys must match the json tags exactly.
func (v *Validator) Decode(data []byte, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("schema: Decode needs a non-nil struct pointer, got %T", dst)
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil || root == nil {
		return &ValidationError{Violations: []Violation{{
			Field:   "body",
			Rule:    "json",
			Message: "body must be a valid JSON object",
		}}}
	}

	target := rv.Elem()
	target.Set(reflect.Zero(target.Type()))

	d := &decoder{}
	d.decodeObject(root, target, "")
	out := d.violations

	err := v.Validate(dst)
	var verr *ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		for _, viol := range verr.Violations {
			if !d.shadows(viol.Field) {
				out = append(out, viol)
			}
		}
	default:
		return err
	}

	if len(out) == 0 {
		return nil
	}
	return &ValidationError{Violations: out}
}

func (v *Validator) violations(errs validator.ValidationErrors) []Violation {
	out := make([]Violation, 0, len(errs))
	for _, e := range errs {
		msg := e.Translate(v.trans)
		if e.Tag() == "oneof" {
			msg = fmt.Sprintf("%s must be one of [%s]", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
		}

		out = append(out, Violation{
			Field:   trimRoot(e.Namespace()),
			Rule:    e.Tag(),
			Param:   e.Param(),
			Message: msg,
		})
	}
	return out
}

// trimRoot drops the root struct name from a validator namespace.
func trimRoot(ns string) string {
	if i := strings.Index(ns, "."); i != -1 {
		return ns[i+1:]
	}
	return ns
}

func validateAnthropicMessage(sl validator.StructLevel) {
	msg, ok := current[AnthropicMessage](sl)
	if !ok {
		return
	}

	switch msg.Content.Kind() {
	case ContentMissing:
		sl.ReportError(msg.Content, "content", "Content", "required", "")
	case ContentInvalid:
		sl.ReportError(msg.Content, "content", "Content", "content_union", "")
	case ContentText:
		if text, _ := msg.Content.Text(); text == "" {
			sl.ReportError(text, "content", "Content", "min", "1")
		}
	case ContentBlocks:
		blocks, _ := msg.Content.Blocks()
		if len(blocks) == 0 {
			sl.ReportError(blocks, "content", "Content", "min", "1")
		}
		for i, b := range blocks {
			name := fmt.Sprintf("content[%d].type", i)
			switch b.Type {
			case BlockText, BlockImage:
			case "":
				sl.ReportError(b.Type, name, "Type", "required", "")
			default:
				sl.ReportError(b.Type, name, "Type", "oneof", "text image")
			}
		}
	}
}

func validateOpenAIUsage(sl validator.StructLevel) {
	u, ok := current[OpenAIUsage](sl)
	if !ok {
		return
	}
	if u.TotalTokens != u.PromptTokens+u.CompletionTokens {
		sl.ReportError(u.TotalTokens, "total_tokens", "TotalTokens", "usage_total", "")
	}
}

func current[T any](sl validator.StructLevel) (T, bool) {
	cur := sl.Current()
	if cur.Kind() == reflect.Pointer {
		cur = cur.Elem()
	}
	t, ok := cur.Interface().(T)
	return t, ok
}

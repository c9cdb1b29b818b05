// Package validate checks struct fields against rules in a `validate` tag.
//
// Rules are comma-separated:
//
//	required        field must not be zero/empty
//	nullable        skip the remaining rules when the field is empty
//	email           valid email address
//	slug            lower-case letters, digits and hyphens
//	min=N           string: min length | number: min value | slice: min items
//	max=N           string: max length | number: max value | slice: max items
//	gt=N gte=N      number bounds
//	lt=N lte=N
//	in=a|b|c        value must be one of the listed items
//	dive            validate each struct element of a slice
//
// Example:
//
//	type ReviewInput struct {
//	    ProductID uint   `json:"productId" validate:"required"`
//	    Rating    int    `json:"rating"    validate:"required,gte=1,lte=5"`
//	    Comment   string `json:"comment"   validate:"nullable,max=2000"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Struct validates v and returns field → message for every failing field.
// Nested slice elements are reported as "items.0.quantity".
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return errs
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	walk(rv, "", errs)
	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

func walk(rv reflect.Value, prefix string, errs map[string]string) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := prefix + jsonFieldName(field)
		value := rv.Field(i)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		failed := false
		for _, rule := range rules {
			rule = strings.TrimSpace(rule)
			if rule == "nullable" || rule == "dive" || rule == "" {
				continue
			}
			if msg := applyRule(rule, name, value); msg != "" {
				errs[name] = msg
				failed = true
				break
			}
		}

		if !failed && hasRule(rules, "dive") {
			elems := indirect(value)
			if elems.Kind() != reflect.Slice && elems.Kind() != reflect.Array {
				continue
			}
			for j := 0; j < elems.Len(); j++ {
				el := indirect(elems.Index(j))
				if el.Kind() == reflect.Struct {
					walk(el, fmt.Sprintf("%s.%d.", name, j), errs)
				}
			}
		}
	}
}

func applyRule(rule, field string, v reflect.Value) string {
	key, param, _ := strings.Cut(rule, "=")
	v = indirect(v)

	switch key {
	case "required":
		if !v.IsValid() || isEmpty(v) {
			return fmt.Sprintf("The %s field is required.", field)
		}
	case "email":
		if !emailRE.MatchString(asString(v)) {
			return fmt.Sprintf("The %s must be a valid email address.", field)
		}
	case "slug":
		if !slugRE.MatchString(asString(v)) {
			return fmt.Sprintf("The %s may only contain lower-case letters, digits and hyphens.", field)
		}
	case "min":
		n := mustParseFloat(param)
		switch {
		case isNumericKind(v) && toFloat(v) < n:
			return fmt.Sprintf("The %s must be at least %s.", field, param)
		case v.Kind() == reflect.String && float64(utf8.RuneCountInString(v.String())) < n:
			return fmt.Sprintf("The %s must be at least %s characters.", field, param)
		case (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && float64(v.Len()) < n:
			return fmt.Sprintf("The %s must have at least %s items.", field, param)
		}
	case "max":
		n := mustParseFloat(param)
		switch {
		case isNumericKind(v) && toFloat(v) > n:
			return fmt.Sprintf("The %s may not be greater than %s.", field, param)
		case v.Kind() == reflect.String && float64(utf8.RuneCountInString(v.String())) > n:
			return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
		case (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && float64(v.Len()) > n:
			return fmt.Sprintf("The %s may not have more than %s items.", field, param)
		}
	case "gt":
		if !isNumericKind(v) || toFloat(v) <= mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than %s.", field, param)
		}
	case "gte":
		if !isNumericKind(v) || toFloat(v) < mustParseFloat(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", field, param)
		}
	case "lt":
		if !isNumericKind(v) || toFloat(v) >= mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than %s.", field, param)
		}
	case "lte":
		if !isNumericKind(v) || toFloat(v) > mustParseFloat(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", field, param)
		}
	case "in":
		raw := asString(v)
		for _, opt := range strings.Split(param, "|") {
			if raw == opt {
				return ""
			}
		}
		return fmt.Sprintf("The selected %s is invalid.", field)
	default:
		return fmt.Sprintf("The %s has an unknown validation rule %q.", field, key)
	}

	return ""
}

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	slugRE  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func asString(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Invalid:
		return true
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return 0
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}

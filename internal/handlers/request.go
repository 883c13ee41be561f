package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"

	"vitrine/internal/apperrors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	defaultTake = 10
)

// newValidator returns a validator that reports fields by their JSON names
// and compares decimals as numbers.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// validateStruct validates s and converts failures into a validation AppError.
func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.Validation("Validation failed", map[string]string{"body": err.Error()})
	}
	errorMessages := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		errorMessages[field] = fmt.Sprintf("Field '%s' failed on the '%s' tag", field, e.Tag())
	}
	return apperrors.Validation("Validation failed", errorMessages)
}

// formKind tells how a form value is turned into JSON.
type formKind int

const (
	formString   formKind = iota
	formNumber            // JSON number
	formBool              // true/false
	formJSON              // raw JSON document, blank means absent
	formList              // repeated values or one JSON array, blank means absent
	formOptional          // string where blank or "null" means absent
)

// formSpec lists the non-string fields of a form body.
type formSpec map[string]formKind

// bind decodes the request body into dst and validates it. Form bodies are
// converted into a JSON object first, so JSON and multipart requests share
// the same presence semantics for optional fields.
func bind(c *fiber.Ctx, v *validator.Validate, dst interface{}, spec formSpec) error {
	var raw []byte
	if isForm(c) {
		values, err := formValues(c)
		if err != nil {
			return apperrors.Validation("Invalid request body", map[string]string{"body": err.Error()})
		}
		obj, err := spec.toJSON(values)
		if err != nil {
			return err
		}
		raw, err = json.Marshal(obj)
		if err != nil {
			return apperrors.Validation("Invalid request body", map[string]string{"body": err.Error()})
		}
	} else {
		raw = bytes.TrimSpace(c.Body())
		if len(raw) == 0 {
			raw = []byte("{}")
		}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.Validation("Invalid request body", map[string]string{"body": err.Error()})
	}
	return validateStruct(v, dst)
}

func isForm(c *fiber.Ctx) bool {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	return strings.HasPrefix(ct, fiber.MIMEMultipartForm) || strings.HasPrefix(ct, fiber.MIMEApplicationForm)
}

func formValues(c *fiber.Ctx) (map[string][]string, error) {
	values := make(map[string][]string)
	if strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		for k, v := range form.Value {
			key := strings.TrimSuffix(k, "[]")
			values[key] = append(values[key], v...)
		}
		return values, nil
	}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		key := strings.TrimSuffix(string(k), "[]")
		values[key] = append(values[key], string(v))
	})
	return values, nil
}

func (spec formSpec) toJSON(values map[string][]string) (map[string]interface{}, error) {
	obj := make(map[string]interface{}, len(values))
	invalid := make(map[string]string)

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		first := strings.TrimSpace(vals[0])

		switch spec[key] {
		case formNumber:
			if first == "" {
				continue
			}
			if _, err := strconv.ParseFloat(first, 64); err != nil {
				invalid[key] = fmt.Sprintf("Field '%s' must be a number", key)
				continue
			}
			obj[key] = json.Number(first)
		case formBool:
			if first == "" {
				continue
			}
			b, err := strconv.ParseBool(first)
			if err != nil {
				invalid[key] = fmt.Sprintf("Field '%s' must be a boolean", key)
				continue
			}
			obj[key] = b
		case formJSON:
			if first == "" {
				continue
			}
			if !json.Valid([]byte(first)) {
				invalid[key] = fmt.Sprintf("Field '%s' must be valid JSON", key)
				continue
			}
			obj[key] = json.RawMessage(first)
		case formList:
			if len(vals) == 1 {
				if first == "" {
					continue
				}
				if strings.HasPrefix(first, "[") {
					if !json.Valid([]byte(first)) {
						invalid[key] = fmt.Sprintf("Field '%s' must be a JSON array", key)
						continue
					}
					obj[key] = json.RawMessage(first)
					continue
				}
			}
			obj[key] = vals
		case formOptional:
			if first == "" || first == "null" {
				continue
			}
			obj[key] = first
		default:
			obj[key] = vals[0]
		}
	}

	if len(invalid) > 0 {
		return nil, apperrors.Validation("Validation failed", invalid)
	}
	return obj, nil
}

// formFiles returns the files uploaded under field, if the request is multipart.
func formFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	if !strings.HasPrefix(strings.ToLower(string(c.Request().Header.ContentType())), fiber.MIMEMultipartForm) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File[field]
}

// formFile returns the first file uploaded under field, or nil.
func formFile(c *fiber.Ctx, field string) *multipart.FileHeader {
	files := formFiles(c, field)
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// pagination reads skip (>= 0, default 0) and take (>= 1, default 10).
func pagination(c *fiber.Ctx) (skip, take int, err error) {
	skip, take = 0, defaultTake
	invalid := make(map[string]string)

	if raw := c.Query("skip"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 0 {
			invalid["skip"] = "Field 'skip' must be an integer >= 0"
		} else {
			skip = n
		}
	}
	if raw := c.Query("take"); raw != "" {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil || n < 1 {
			invalid["take"] = "Field 'take' must be an integer >= 1"
		} else {
			take = n
		}
	}
	if len(invalid) > 0 {
		return 0, 0, apperrors.Validation("Validation failed", invalid)
	}
	return skip, take, nil
}

package event_api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"ms-events/internal/models"
	"ms-events/internal/utils"
)

// EventCreate is the accepted create body. Pointers let the validator tell
// a missing field from a zero value.
type EventCreate struct {
	Title       *string           `json:"title" validate:"required"`
	Description *string           `json:"description" validate:"required"`
	Address     *string           `json:"address" validate:"required"`
	Date        *models.Date      `json:"date" validate:"required"`
	Time        *models.TimeOfDay `json:"time" validate:"required"`
	AuthorID    *int64            `json:"authorID" validate:"required"`
}

// EventCreateResponse echoes the validated create body.
type EventCreateResponse struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Address     string           `json:"address"`
	Date        models.Date      `json:"date"`
	Time        models.TimeOfDay `json:"time"`
	AuthorID    int64            `json:"authorID"`
}

func (e EventCreate) toNewEvent() models.NewEvent {
	return models.NewEvent{
		Title:       *e.Title,
		Description: *e.Description,
		Address:     *e.Address,
		Date:        *e.Date,
		Time:        *e.Time,
		AuthorID:    *e.AuthorID,
	}
}

func (e EventCreate) echo() EventCreateResponse {
	return EventCreateResponse{
		Title:       *e.Title,
		Description: *e.Description,
		Address:     *e.Address,
		Date:        *e.Date,
		Time:        *e.Time,
		AuthorID:    *e.AuthorID,
	}
}

type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

// decodeEventCreate reads the body field by field so each type error can be
// reported against its own field, then checks presence.
func (rv *requestValidator) decodeEventCreate(body io.Reader) (EventCreate, []utils.FieldError) {
	var req EventCreate

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil || raw == nil {
		msg := "Body must be a JSON object"
		if err != nil && !errors.Is(err, io.EOF) {
			msg = fmt.Sprintf("Invalid JSON body: %v", err)
		}
		return req, []utils.FieldError{{Loc: []string{"body"}, Msg: msg, Type: "json_invalid"}}
	}

	fields := []struct {
		name   string
		decode func(json.RawMessage) error
	}{
		{"title", jsonInto(&req.Title, "string_type")},
		{"description", jsonInto(&req.Description, "string_type")},
		{"address", jsonInto(&req.Address, "string_type")},
		{"date", jsonInto(&req.Date, "date_parsing")},
		{"time", jsonInto(&req.Time, "time_parsing")},
		{"authorID", func(raw json.RawMessage) error { return decodeInt(raw, &req.AuthorID) }},
	}

	var errs []utils.FieldError
	for _, f := range fields {
		value, ok := raw[f.name]
		if !ok {
			continue
		}
		if err := f.decode(value); err != nil {
			var ie *inputError
			if !errors.As(err, &ie) {
				ie = &inputError{msg: err.Error(), kind: "value_error"}
			}
			errs = append(errs, utils.FieldError{
				Loc:  []string{"body", f.name},
				Msg:  ie.msg,
				Type: ie.kind,
			})
		}
	}

	if err := rv.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return req, append(errs, utils.FieldError{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"})
		}
		for _, fe := range verrs {
			if hasFieldError(errs, fe.Field()) {
				continue
			}
			errs = append(errs, utils.FieldError{
				Loc:  []string{"body", fe.Field()},
				Msg:  "Field required",
				Type: "missing",
			})
		}
	}

	return req, errs
}

type inputError struct {
	msg  string
	kind string
}

func (e *inputError) Error() string { return e.msg }

func jsonInto(target interface{}, kind string) func(json.RawMessage) error {
	return func(raw json.RawMessage) error {
		if err := json.Unmarshal(raw, target); err != nil {
			return &inputError{msg: fieldMessage(err), kind: kind}
		}
		return nil
	}
}

func fieldMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("Input should be a valid %s", typeErr.Type.String())
	}
	return err.Error()
}

// decodeInt accepts JSON integers, integral floats such as 1.0 and numeric
// strings such as "1". null leaves target nil.
func decodeInt(raw json.RawMessage, target **int64) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return &inputError{msg: "Input should be a valid integer", kind: "int_type"}
	}

	var n int64
	switch val := v.(type) {
	case nil:
		return nil
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			f, ferr := val.Float64()
			if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
				return &inputError{msg: "Input should be a valid integer, got a number with a fractional part", kind: "int_from_float"}
			}
			i = int64(f)
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return &inputError{msg: "Input should be a valid integer, unable to parse string as an integer", kind: "int_parsing"}
		}
		n = i
	default:
		return &inputError{msg: "Input should be a valid integer", kind: "int_type"}
	}

	*target = &n
	return nil
}

func hasFieldError(errs []utils.FieldError, field string) bool {
	for _, e := range errs {
		if len(e.Loc) == 2 && e.Loc[1] == field {
			return true
		}
	}
	return false
}

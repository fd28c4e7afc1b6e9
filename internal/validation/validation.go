// Package validation enforces the accepted shape of robot payloads before they
// reach the store. It works on decoded JSON values so that every transport
// shares the same rules.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/devghori1264/aerophoenix/robot-service/internal/models"
)

// Error type codes reported in FieldError.Type.
const (
	TypeMissing        = "missing"
	TypeExtraForbidden = "extra_forbidden"
	TypeStringType     = "string_type"
	TypeStringTooShort = "string_too_short"
	TypeObjectType     = "model_attributes_type"
	TypeJSONInvalid    = "json_invalid"
)

// Human readable messages matching the type codes above.
const (
	MsgMissing        = "Field required"
	MsgExtraForbidden = "Extra inputs are not permitted"
	MsgStringType     = "Input should be a valid string"
	MsgStringTooShort = "String should have at least 1 character"
	MsgObjectType     = "Input should be a valid dictionary or object to extract fields from"
	MsgJSONInvalid    = "JSON decode error"
)

// FieldError describes one rejected input location.
type FieldError struct {
	Type  string         `json:"type"`
	Loc   []any          `json:"loc"`
	Msg   string         `json:"msg"`
	Input any            `json:"input"`
	Ctx   map[string]any `json:"ctx,omitempty"`
}

// Error is returned when a payload does not match its schema.
type Error struct {
	Errors []FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		loc := make([]string, 0, len(fe.Loc))
		for _, l := range fe.Loc {
			loc = append(loc, fmt.Sprint(l))
		}
		parts = append(parts, strings.Join(loc, ".")+": "+fe.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsError extracts the field errors carried by err, if any.
func AsError(err error) ([]FieldError, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Errors, true
	}
	return nil, false
}

// NewError wraps field errors, returning nil when there are none.
func NewError(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &Error{Errors: errs}
}

// Missing reports an absent required value at loc.
func Missing(loc ...any) FieldError {
	return FieldError{Type: TypeMissing, Loc: loc, Msg: MsgMissing}
}

// MissingQuery reports an absent required query parameter.
func MissingQuery(name string) FieldError {
	return Missing("query", name)
}

// DecodeBody parses a JSON request body. An empty body is reported as a
// missing body rather than a syntax error.
func DecodeBody(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, NewError([]FieldError{{Type: TypeMissing, Loc: []any{"body"}, Msg: MsgMissing}})
	}
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		var offset int64
		var se *json.SyntaxError
		if errors.As(err, &se) {
			offset = se.Offset
		}
		return nil, NewError([]FieldError{{
			Type:  TypeJSONInvalid,
			Loc:   []any{"body", offset},
			Msg:   MsgJSONInvalid,
			Input: map[string]any{},
			Ctx:   map[string]any{"error": err.Error()},
		}})
	}
	return v, nil
}

type field struct {
	name     string
	required bool
	nonEmpty bool
}

var (
	createFields = []field{
		{name: "name", required: true, nonEmpty: true},
		{name: "type", required: true, nonEmpty: true},
		{name: "status"},
	}
	patchFields = []field{
		{name: "name", nonEmpty: true},
		{name: "type", nonEmpty: true},
		{name: "status"},
	}
)

// Create validates a create payload. name and type are required; status
// falls back to the default when absent.
func Create(v any) (models.RobotCreate, error) {
	set, err := check(v, createFields, false)
	if err != nil {
		return models.RobotCreate{}, err
	}
	out := models.RobotCreate{
		Name:   *set["name"],
		Type:   *set["type"],
		Status: models.DefaultStatus,
	}
	if s := set["status"]; s != nil {
		out.Status = *s
	}
	return out, nil
}

// Patch validates a partial update. Fields that are absent or null are left
// unset so they never overwrite stored values.
func Patch(v any) (models.RobotPatch, error) {
	set, err := check(v, patchFields, true)
	if err != nil {
		return models.RobotPatch{}, err
	}
	return models.RobotPatch{
		Name:   set["name"],
		Type:   set["type"],
		Status: set["status"],
	}, nil
}

// check walks the allow-list in declaration order, then reports every key
// outside it in sorted order.
func check(v any, fields []field, nullIsUnset bool) (map[string]*string, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, NewError([]FieldError{{Type: TypeObjectType, Loc: []any{"body"}, Msg: MsgObjectType, Input: v}})
	}

	var errs []FieldError
	set := make(map[string]*string, len(fields))
	allowed := make(map[string]struct{}, len(fields))

	for _, f := range fields {
		allowed[f.name] = struct{}{}
		raw, present := obj[f.name]
		if !present || (raw == nil && nullIsUnset) {
			if f.required {
				errs = append(errs, FieldError{Type: TypeMissing, Loc: []any{"body", f.name}, Msg: MsgMissing, Input: obj})
			}
			continue
		}
		s, isString := raw.(string)
		if !isString {
			errs = append(errs, FieldError{Type: TypeStringType, Loc: []any{"body", f.name}, Msg: MsgStringType, Input: raw})
			continue
		}
		if f.nonEmpty && s == "" {
			errs = append(errs, FieldError{
				Type:  TypeStringTooShort,
				Loc:   []any{"body", f.name},
				Msg:   MsgStringTooShort,
				Input: s,
				Ctx:   map[string]any{"min_length": 1},
			})
			continue
		}
		set[f.name] = &s
	}

	var extra []string
	for k := range obj {
		if _, ok := allowed[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		errs = append(errs, FieldError{Type: TypeExtraForbidden, Loc: []any{"body", k}, Msg: MsgExtraForbidden, Input: obj[k]})
	}

	if err := NewError(errs); err != nil {
		return nil, err
	}
	return set, nil
}

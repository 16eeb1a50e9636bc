package forms

import (
	"encoding/json"
	"fmt"
)

// FieldKind discriminates the form field variants.
type FieldKind string

const (
	KindText      FieldKind = "text"
	KindNumber    FieldKind = "number"
	KindTextArea  FieldKind = "textarea"
	KindFile      FieldKind = "file"
	KindMultiFile FieldKind = "multifile"
	KindSelect    FieldKind = "select"
	KindCheckbox  FieldKind = "checkbox"
)

// Field is one described form input. Each variant carries only the
// attributes its kind needs, so rendering never has to inspect value
// types at runtime.
type Field interface {
	Kind() FieldKind
	FieldName() string
	IsRequired() bool
}

// TextField is a single-line text input.
type TextField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

func (f TextField) Kind() FieldKind   { return KindText }
func (f TextField) FieldName() string { return f.Name }
func (f TextField) IsRequired() bool  { return f.Required }

// NumberField is a numeric input.
type NumberField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required,omitempty"`
}

func (f NumberField) Kind() FieldKind   { return KindNumber }
func (f NumberField) FieldName() string { return f.Name }
func (f NumberField) IsRequired() bool  { return f.Required }

// TextAreaField is a multi-line text input.
type TextAreaField struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

func (f TextAreaField) Kind() FieldKind   { return KindTextArea }
func (f TextAreaField) FieldName() string { return f.Name }
func (f TextAreaField) IsRequired() bool  { return f.Required }

// FileField is a single image upload. The chosen file is read into a
// data URL (see ProcessImageDataURL) before it lands in the value bag.
type FileField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Accept   string `json:"accept,omitempty"`
	Required bool   `json:"required,omitempty"`
}

func (f FileField) Kind() FieldKind   { return KindFile }
func (f FileField) FieldName() string { return f.Name }
func (f FileField) IsRequired() bool  { return f.Required }

// MultiFileField is a multiple image upload; its value is a list of
// data-URL strings.
type MultiFileField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Accept   string `json:"accept,omitempty"`
	Required bool   `json:"required,omitempty"`
}

func (f MultiFileField) Kind() FieldKind   { return KindMultiFile }
func (f MultiFileField) FieldName() string { return f.Name }
func (f MultiFileField) IsRequired() bool  { return f.Required }

// SelectField is a single-choice dropdown.
type SelectField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Options  []string `json:"options"`
	Required bool     `json:"required,omitempty"`
}

func (f SelectField) Kind() FieldKind   { return KindSelect }
func (f SelectField) FieldName() string { return f.Name }
func (f SelectField) IsRequired() bool  { return f.Required }

// CheckboxField is a boolean toggle. It is never required; an unchecked
// box is a legitimate value.
type CheckboxField struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func (f CheckboxField) Kind() FieldKind   { return KindCheckbox }
func (f CheckboxField) FieldName() string { return f.Name }
func (f CheckboxField) IsRequired() bool  { return false }

func (f TextField) MarshalJSON() ([]byte, error)      { return marshalField(f) }
func (f NumberField) MarshalJSON() ([]byte, error)    { return marshalField(f) }
func (f TextAreaField) MarshalJSON() ([]byte, error)  { return marshalField(f) }
func (f FileField) MarshalJSON() ([]byte, error)      { return marshalField(f) }
func (f MultiFileField) MarshalJSON() ([]byte, error) { return marshalField(f) }
func (f SelectField) MarshalJSON() ([]byte, error)    { return marshalField(f) }
func (f CheckboxField) MarshalJSON() ([]byte, error)  { return marshalField(f) }

// marshalField tags the variant's own attributes with its kind.
func marshalField(f Field) ([]byte, error) {
	attrs, err := toMap(f)
	if err != nil {
		return nil, err
	}
	attrs["kind"] = string(f.Kind())
	return json.Marshal(attrs)
}

func toMap(f Field) (map[string]interface{}, error) {
	// Marshal through the underlying struct type to avoid recursing
	// into the variant's own MarshalJSON.
	var raw []byte
	var err error
	switch v := f.(type) {
	case TextField:
		type plain TextField
		raw, err = json.Marshal(plain(v))
	case NumberField:
		type plain NumberField
		raw, err = json.Marshal(plain(v))
	case TextAreaField:
		type plain TextAreaField
		raw, err = json.Marshal(plain(v))
	case FileField:
		type plain FileField
		raw, err = json.Marshal(plain(v))
	case MultiFileField:
		type plain MultiFileField
		raw, err = json.Marshal(plain(v))
	case SelectField:
		type plain SelectField
		raw, err = json.Marshal(plain(v))
	case CheckboxField:
		type plain CheckboxField
		raw, err = json.Marshal(plain(v))
	default:
		return nil, fmt.Errorf("unknown field variant %T", f)
	}
	if err != nil {
		return nil, err
	}

	attrs := make(map[string]interface{})
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, err
	}
	return attrs, nil
}

// Schema is an ordered list of field descriptors plus the prompt text
// shown around them. Submission and cancellation stay with the caller;
// the schema only describes and validates.
type Schema struct {
	Title       string  `json:"title"`
	Message     string  `json:"message,omitempty"`
	ActionLabel string  `json:"actionLabel"`
	Fields      []Field `json:"fields"`
}

// MissingFieldsError lists required fields absent from a value bag.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}

// Validate performs the native required-field check against a
// caller-owned value bag; nothing beyond presence is enforced.
func (s Schema) Validate(values map[string]interface{}) error {
	var missing []string
	for _, field := range s.Fields {
		if !field.IsRequired() {
			continue
		}
		if !present(values[field.FieldName()]) {
			missing = append(missing, field.FieldName())
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

func present(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return false
	case string:
		return value != ""
	case []string:
		return len(value) > 0
	case []interface{}:
		return len(value) > 0
	default:
		return true
	}
}

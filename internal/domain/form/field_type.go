package form

type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldPhone    FieldType = "phone"
	FieldURL      FieldType = "url"
	FieldDate     FieldType = "date"
	FieldTime     FieldType = "time"
	FieldSelect   FieldType = "select"
	FieldRadio    FieldType = "radio"
	FieldCheckbox FieldType = "checkbox"
	FieldFile     FieldType = "file"
	FieldRating   FieldType = "rating"
	FieldHidden   FieldType = "hidden"
)

var knownFieldTypes = map[FieldType]bool{
	FieldText: true, FieldTextarea: true, FieldEmail: true, FieldNumber: true,
	FieldPhone: true, FieldURL: true, FieldDate: true, FieldTime: true,
	FieldSelect: true, FieldRadio: true, FieldCheckbox: true, FieldFile: true,
	FieldRating: true, FieldHidden: true,
}

func (t FieldType) Valid() bool { return knownFieldTypes[t] }

// HasChoices reports whether the type needs a non-empty option list.
func (t FieldType) HasChoices() bool {
	return t == FieldSelect || t == FieldRadio || t == FieldCheckbox
}

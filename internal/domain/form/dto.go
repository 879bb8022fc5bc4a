package form

// FieldInput is one field of a nested builder payload. A nil ID creates a new field.
type FieldInput struct {
	ID          *uint            `json:"id,omitempty"`
	Type        FieldType        `json:"type" example:"text"`
	Label       string           `json:"label" example:"Your name"`
	Placeholder string           `json:"placeholder,omitempty"`
	HelpText    string           `json:"help_text,omitempty"`
	Required    bool             `json:"required"`
	Options     []string         `json:"options,omitempty"`
	Validation  *ValidationRules `json:"validation,omitempty"`
}

// PageInput is one page of a nested builder payload. A nil ID creates a new page.
type PageInput struct {
	ID          *uint        `json:"id,omitempty"`
	Title       string       `json:"title" example:"Contact details"`
	Description string       `json:"description,omitempty"`
	Fields      []FieldInput `json:"fields"`
}

// FormInput is the create and full-update payload: attributes plus the page tree.
type FormInput struct {
	Name        string      `json:"name" binding:"required" example:"Customer survey"`
	Slug        string      `json:"slug,omitempty" example:"customer-survey"`
	Description string      `json:"description,omitempty"`
	Settings    *Settings   `json:"settings,omitempty"`
	IsActive    *bool       `json:"is_active,omitempty"`
	Pages       []PageInput `json:"pages"`
}

// FormPatch updates attributes only; nil members are left untouched.
type FormPatch struct {
	Name        *string   `json:"name,omitempty"`
	Slug        *string   `json:"slug,omitempty"`
	Description *string   `json:"description,omitempty"`
	Settings    *Settings `json:"settings,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
}

// PositionUpdate assigns a new position to one page or field.
type PositionUpdate struct {
	ID       uint `json:"id" binding:"required"`
	Position int  `json:"position"`
}

type ReorderInput struct {
	Orders []PositionUpdate `json:"orders" binding:"required"`
}

// ExportResult describes a snapshot written to object storage.
type ExportResult struct {
	FormID uint   `json:"form_id"`
	Key    string `json:"key"`
	Bytes  int    `json:"bytes"`
}

package form

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Settings is the free-form presentation and notification document of a form.
type Settings struct {
	ThemeColor        string `json:"theme_color,omitempty" yaml:"theme_color,omitempty"`
	BackgroundColor   string `json:"background_color,omitempty" yaml:"background_color,omitempty"`
	SubmitLabel       string `json:"submit_label,omitempty" yaml:"submit_label,omitempty"`
	SuccessMessage    string `json:"success_message,omitempty" yaml:"success_message,omitempty"`
	NotifyOnSubmit    bool   `json:"notify_on_submit" yaml:"notify_on_submit"`
	NotifyEmail       string `json:"notify_email,omitempty" yaml:"notify_email,omitempty"`
	WebhookURL        string `json:"webhook_url,omitempty" yaml:"webhook_url,omitempty"`
	FacebookPixelID   string `json:"facebook_pixel_id,omitempty" yaml:"facebook_pixel_id,omitempty"`
	GoogleAnalyticsID string `json:"google_analytics_id,omitempty" yaml:"google_analytics_id,omitempty"`
}

// ValidationRules constrain the answer accepted for a field.
type ValidationRules struct {
	MinLength *int     `json:"min_length,omitempty" yaml:"min_length,omitempty"`
	MaxLength *int     `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

type Form struct {
	ID          uint                         `json:"id" gorm:"primaryKey"`
	UserID      uint                         `json:"user_id" gorm:"index;not null"`
	Name        string                       `json:"name" gorm:"size:255;not null"`
	Slug        string                       `json:"slug" gorm:"size:120;uniqueIndex;not null"`
	Description string                       `json:"description" gorm:"type:text"`
	Settings    datatypes.JSONType[Settings] `json:"settings"`
	IsActive    bool                         `json:"is_active" gorm:"not null;default:false"`
	CreatedAt   time.Time                    `json:"created_at"`
	UpdatedAt   time.Time                    `json:"updated_at"`
	DeletedAt   gorm.DeletedAt               `json:"-" gorm:"index"`
	Pages       []Page                       `json:"pages,omitempty" gorm:"foreignKey:FormID"`
}

func (Form) TableName() string { return "forms" }

// Page is an ordered section of a form. Position is zero-based and gap-free
// within its form.
type Page struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FormID      uint      `json:"form_id" gorm:"not null;uniqueIndex:idx_page_form_position,priority:1"`
	Title       string    `json:"title" gorm:"size:255"`
	Description string    `json:"description" gorm:"type:text"`
	Position    int       `json:"position" gorm:"not null;uniqueIndex:idx_page_form_position,priority:2"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Fields      []Field   `json:"fields,omitempty" gorm:"foreignKey:PageID"`
}

func (Page) TableName() string { return "form_pages" }

// Field is a single input definition. FormID duplicates the owning page's form
// so a form's fields can be read without a join.
type Field struct {
	ID          uint                                `json:"id" gorm:"primaryKey"`
	PageID      uint                                `json:"page_id" gorm:"not null;uniqueIndex:idx_field_page_position,priority:1"`
	FormID      uint                                `json:"form_id" gorm:"not null;index"`
	Type        FieldType                           `json:"type" gorm:"size:32;not null"`
	Label       string                              `json:"label" gorm:"size:255;not null"`
	Placeholder string                              `json:"placeholder" gorm:"size:255"`
	HelpText    string                              `json:"help_text" gorm:"type:text"`
	Required    bool                                `json:"required" gorm:"not null;default:false"`
	Options     datatypes.JSONSlice[string]         `json:"options"`
	Validation  datatypes.JSONType[ValidationRules] `json:"validation"`
	Position    int                                 `json:"position" gorm:"not null;uniqueIndex:idx_field_page_position,priority:2"`
	CreatedAt   time.Time                           `json:"created_at"`
	UpdatedAt   time.Time                           `json:"updated_at"`
}

func (Field) TableName() string { return "form_fields" }

// AllFields flattens the loaded tree in page order, then field order.
func (f *Form) AllFields() []Field {
	var out []Field
	for _, p := range f.Pages {
		out = append(out, p.Fields...)
	}
	return out
}

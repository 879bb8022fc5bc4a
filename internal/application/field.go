package application

import (
	"context"
	"regexp"
	"strings"

	"github.com/linskybing/formbuilder-go/internal/apperr"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"gorm.io/datatypes"
)

type FieldService struct {
	Repos *repository.Repos
	audit *AuditService
}

func NewFieldService(repos *repository.Repos, audit *AuditService) *FieldService {
	return &FieldService{
		Repos: repos,
		audit: audit,
	}
}

func (s *FieldService) GetFieldsByPage(ctx context.Context, pageID uint) ([]form.Field, error) {
	repos := s.Repos.WithContext(ctx)
	if _, err := repos.Page.GetPageByID(pageID); err != nil {
		return nil, storeErr("field.ListByPage", "page", err)
	}
	fields, err := repos.Field.ListFieldsByPage(pageID)
	if err != nil {
		return nil, storeErr("field.ListByPage", "field", err)
	}
	return fields, nil
}

// GetFieldsByForm flattens the form's fields by page position, then field position.
func (s *FieldService) GetFieldsByForm(ctx context.Context, formID uint) ([]form.Field, error) {
	repos := s.Repos.WithContext(ctx)
	if _, err := repos.Form.GetFormByID(formID); err != nil {
		return nil, storeErr("field.ListByForm", "form", err)
	}
	fields, err := repos.Field.ListFieldsByForm(formID)
	if err != nil {
		return nil, storeErr("field.ListByForm", "field", err)
	}
	return fields, nil
}

// ReorderFields assigns new positions to every field of a page at once.
func (s *FieldService) ReorderFields(ctx context.Context, pageID uint, orders []form.PositionUpdate) ([]form.Field, error) {
	const op = "field.Reorder"
	var before, fields []form.Field
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		if _, err := repos.Page.GetPageByID(pageID); err != nil {
			return storeErr(op, "page", err)
		}
		current, err := repos.Field.ListFieldsByPage(pageID)
		if err != nil {
			return storeErr(op, "field", err)
		}
		before = current
		ids, err := planOrder(op, "field", fieldIDs(current), orders)
		if err != nil {
			return err
		}
		if err := applyOrder(
			func() error { return repos.Field.ParkPositions(pageID) },
			repos.Field.SetPosition,
			ids,
		); err != nil {
			return storeErr(op, "field", err)
		}
		fields, err = repos.Field.ListFieldsByPage(pageID)
		return storeErr(op, "field", err)
	})
	if err != nil {
		return nil, storeErr(op, "field", err)
	}
	s.audit.Record(ctx, "reorder", "page", idString(pageID), fieldIDs(before), fieldIDs(fields), "reordered fields")
	return fields, nil
}

// createFields inserts inputs under page with positions 0..n-1.
func (s *FieldService) createFields(repos *repository.Repos, page form.Page, inputs []form.FieldInput) ([]form.Field, error) {
	const op = "field.Create"
	out := make([]form.Field, 0, len(inputs))
	for i, in := range inputs {
		if in.ID != nil {
			return nil, apperr.Validationf(op, "new page cannot reference existing field %d", *in.ID)
		}
		f, err := s.createField(repos, page, i, in)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func (s *FieldService) createField(repos *repository.Repos, page form.Page, position int, in form.FieldInput) (form.Field, error) {
	if err := validateFieldInput("field.Create", position, in); err != nil {
		return form.Field{}, err
	}
	f := form.Field{
		PageID:   page.ID,
		FormID:   page.FormID,
		Position: position,
	}
	applyFieldInput(&f, in)
	if err := repos.Field.CreateField(&f); err != nil {
		return form.Field{}, storeErr("field.Create", "field", err)
	}
	return f, nil
}

// reconcileFields makes the page's fields match inputs: listed ids are
// updated, missing ones deleted, id-less entries created, and positions
// rewritten to the input order. Callers run it inside a transaction.
func (s *FieldService) reconcileFields(repos *repository.Repos, page form.Page, inputs []form.FieldInput) ([]form.Field, error) {
	const op = "field.Reconcile"
	existing, err := repos.Field.ListFieldsByPage(page.ID)
	if err != nil {
		return nil, storeErr(op, "field", err)
	}

	byID := make(map[uint]form.Field, len(existing))
	for _, f := range existing {
		byID[f.ID] = f
	}
	keep := make(map[uint]struct{}, len(inputs))
	for _, in := range inputs {
		if in.ID == nil {
			continue
		}
		if _, ok := byID[*in.ID]; !ok {
			return nil, apperr.Validationf(op, "field %d does not belong to page %d", *in.ID, page.ID)
		}
		if _, dup := keep[*in.ID]; dup {
			return nil, apperr.Validationf(op, "field %d listed more than once", *in.ID)
		}
		keep[*in.ID] = struct{}{}
	}

	if err := repos.Field.ParkPositions(page.ID); err != nil {
		return nil, storeErr(op, "field", err)
	}
	for _, f := range existing {
		if _, ok := keep[f.ID]; ok {
			continue
		}
		if err := repos.Field.DeleteField(f.ID); err != nil {
			return nil, storeErr(op, "field", err)
		}
	}

	out := make([]form.Field, 0, len(inputs))
	for i, in := range inputs {
		if in.ID == nil {
			f, err := s.createField(repos, page, i, in)
			if err != nil {
				return nil, err
			}
			out = append(out, f)
			continue
		}
		if err := validateFieldInput(op, i, in); err != nil {
			return nil, err
		}
		f := byID[*in.ID]
		f.Position = i
		applyFieldInput(&f, in)
		if err := repos.Field.UpdateField(&f); err != nil {
			return nil, storeErr(op, "field", err)
		}
		out = append(out, f)
	}
	return out, nil
}

func validateFieldInput(op string, position int, in form.FieldInput) error {
	if !in.Type.Valid() {
		return apperr.Validationf(op, "field %d: unsupported type %q", position, in.Type)
	}
	if strings.TrimSpace(in.Label) == "" {
		return apperr.Validationf(op, "field %d: label is required", position)
	}
	if in.Type.HasChoices() && len(in.Options) == 0 {
		return apperr.Validationf(op, "field %d: %s fields need at least one option", position, in.Type)
	}
	if v := in.Validation; v != nil {
		if v.MinLength != nil && v.MaxLength != nil && *v.MinLength > *v.MaxLength {
			return apperr.Validationf(op, "field %d: min_length exceeds max_length", position)
		}
		if v.Min != nil && v.Max != nil && *v.Min > *v.Max {
			return apperr.Validationf(op, "field %d: min exceeds max", position)
		}
		if v.Pattern != "" {
			if _, err := regexp.Compile(v.Pattern); err != nil {
				return apperr.Validationf(op, "field %d: invalid pattern", position)
			}
		}
	}
	return nil
}

func applyFieldInput(f *form.Field, in form.FieldInput) {
	f.Type = in.Type
	f.Label = strings.TrimSpace(in.Label)
	f.Placeholder = in.Placeholder
	f.HelpText = in.HelpText
	f.Required = in.Required

	options := in.Options
	if options == nil {
		options = []string{}
	}
	f.Options = datatypes.JSONSlice[string](options)

	var rules form.ValidationRules
	if in.Validation != nil {
		rules = *in.Validation
	}
	f.Validation = datatypes.NewJSONType(rules)
}

func fieldIDs(fields []form.Field) []uint {
	ids := make([]uint, len(fields))
	for i, f := range fields {
		ids[i] = f.ID
	}
	return ids
}

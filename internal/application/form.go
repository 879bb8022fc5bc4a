package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/linskybing/formbuilder-go/internal/apperr"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/internal/notify"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/linskybing/formbuilder-go/internal/storage"
	"github.com/linskybing/formbuilder-go/pkg/types"
	"gorm.io/datatypes"
)

const copySuffix = "-copy"

type FormService struct {
	Repos *repository.Repos
	pages *PageService
	audit *AuditService
	store storage.ObjectStore
}

// NewFormService wires the form store. store may be nil, which disables export.
func NewFormService(repos *repository.Repos, pages *PageService, audit *AuditService, store storage.ObjectStore) *FormService {
	return &FormService{
		Repos: repos,
		pages: pages,
		audit: audit,
		store: store,
	}
}

// FindBySlug serves the public viewer. Missing and inactive forms look the same.
func (s *FormService) FindBySlug(ctx context.Context, slug string) (form.Form, error) {
	const op = "form.FindBySlug"
	f, err := s.Repos.WithContext(ctx).Form.GetFormBySlug(slug)
	if err != nil {
		return form.Form{}, storeErr(op, "form", err)
	}
	if !f.IsActive {
		return form.Form{}, apperr.NotFoundf(op, "form not found")
	}
	return f, nil
}

// Preview returns the form regardless of its active flag to its owner or an admin.
func (s *FormService) Preview(ctx context.Context, id uint) (form.Form, error) {
	const op = "form.Preview"
	viewer, ok := types.ActorFrom(ctx)
	if !ok || viewer.UserID == 0 {
		return form.Form{}, apperr.Unauthorizedf(op, "preview requires a signed-in user")
	}
	f, err := s.GetForm(ctx, id)
	if err != nil {
		return form.Form{}, err
	}
	if !viewer.CanManage(f.UserID) {
		return form.Form{}, apperr.Forbiddenf(op, "not allowed to preview this form")
	}
	return f, nil
}

func (s *FormService) GetForm(ctx context.Context, id uint) (form.Form, error) {
	f, err := s.Repos.WithContext(ctx).Form.GetFormTree(id)
	if err != nil {
		return form.Form{}, storeErr("form.Get", "form", err)
	}
	return f, nil
}

// GetFormsByUser lists the user's forms, newest first.
func (s *FormService) GetFormsByUser(ctx context.Context, userID uint) ([]form.Form, error) {
	forms, err := s.Repos.WithContext(ctx).Form.ListFormsByUser(userID)
	if err != nil {
		return nil, storeErr("form.ListByUser", "form", err)
	}
	return forms, nil
}

func (s *FormService) ListAll(ctx context.Context) ([]form.Form, error) {
	forms, err := s.Repos.WithContext(ctx).Form.ListForms()
	if err != nil {
		return nil, storeErr("form.ListAll", "form", err)
	}
	return forms, nil
}

// CreateWithPages persists the form and its page tree in one transaction.
func (s *FormService) CreateWithPages(ctx context.Context, userID uint, input form.FormInput) (form.Form, error) {
	const op = "form.Create"
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return form.Form{}, apperr.Validationf(op, "name is required")
	}
	if err := validateSettings(op, input.Settings); err != nil {
		return form.Form{}, err
	}

	var created form.Form
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		slug, err := resolveSlug(repos, op, input.Slug, name, 0)
		if err != nil {
			return err
		}
		f := form.Form{
			UserID:      userID,
			Name:        name,
			Slug:        slug,
			Description: input.Description,
		}
		if input.Settings != nil {
			f.Settings = datatypes.NewJSONType(*input.Settings)
		}
		if input.IsActive != nil {
			f.IsActive = *input.IsActive
		}
		if err := repos.Form.CreateForm(&f); err != nil {
			return storeErr(op, "form", err)
		}
		for i, in := range input.Pages {
			if in.ID != nil {
				return apperr.Validationf(op, "new form cannot reference existing page %d", *in.ID)
			}
			page, err := s.pages.createPage(repos, f.ID, i, in)
			if err != nil {
				return err
			}
			f.Pages = append(f.Pages, page)
		}
		created = f
		return nil
	})
	if err != nil {
		return form.Form{}, storeErr(op, "form", err)
	}
	s.audit.Record(ctx, "create", "form", idString(created.ID), nil, created, "created form")
	return created, nil
}

// UpdateWithPages patches attributes and reconciles pages and fields in one
// transaction. Any failure leaves the stored tree as it was.
func (s *FormService) UpdateWithPages(ctx context.Context, id uint, input form.FormInput) (form.Form, error) {
	const op = "form.Update"
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return form.Form{}, apperr.Validationf(op, "name is required")
	}
	if err := validateSettings(op, input.Settings); err != nil {
		return form.Form{}, err
	}

	var before, updated form.Form
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		f, err := repos.Form.GetFormTree(id)
		if err != nil {
			return storeErr(op, "form", err)
		}
		before = f

		f.Name = name
		f.Description = input.Description
		if input.Slug != "" && input.Slug != f.Slug {
			if f.Slug, err = resolveSlug(repos, op, input.Slug, name, f.ID); err != nil {
				return err
			}
		}
		if input.Settings != nil {
			f.Settings = datatypes.NewJSONType(*input.Settings)
		}
		if input.IsActive != nil {
			f.IsActive = *input.IsActive
		}
		f.Pages = nil
		if err := repos.Form.UpdateForm(&f); err != nil {
			return storeErr(op, "form", err)
		}

		pages, err := s.pages.reconcilePages(repos, f.ID, input.Pages)
		if err != nil {
			return err
		}
		f.Pages = pages
		updated = f
		return nil
	})
	if err != nil {
		return form.Form{}, storeErr(op, "form", err)
	}
	s.audit.Record(ctx, "update", "form", idString(id), before, updated, "updated form with pages")
	return updated, nil
}

// Patch changes attributes only; pages are left alone.
func (s *FormService) Patch(ctx context.Context, id uint, patch form.FormPatch) (form.Form, error) {
	const op = "form.Patch"
	if err := validateSettings(op, patch.Settings); err != nil {
		return form.Form{}, err
	}
	var before, updated form.Form
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		f, err := repos.Form.GetFormByID(id)
		if err != nil {
			return storeErr(op, "form", err)
		}
		before = f

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name == "" {
				return apperr.Validationf(op, "name must not be empty")
			}
			f.Name = name
		}
		if patch.Slug != nil && *patch.Slug != f.Slug {
			if *patch.Slug == "" {
				return apperr.Validationf(op, "slug must not be empty")
			}
			if f.Slug, err = resolveSlug(repos, op, *patch.Slug, f.Name, f.ID); err != nil {
				return err
			}
		}
		if patch.Description != nil {
			f.Description = *patch.Description
		}
		if patch.Settings != nil {
			f.Settings = datatypes.NewJSONType(*patch.Settings)
		}
		if patch.IsActive != nil {
			f.IsActive = *patch.IsActive
		}
		if err := repos.Form.UpdateForm(&f); err != nil {
			return storeErr(op, "form", err)
		}
		updated = f
		return nil
	})
	if err != nil {
		return form.Form{}, storeErr(op, "form", err)
	}
	s.audit.Record(ctx, "patch", "form", idString(id), before, updated, "patched form attributes")
	return updated, nil
}

// ToggleActive flips the active flag. Two calls restore the original state.
func (s *FormService) ToggleActive(ctx context.Context, id uint) (form.Form, error) {
	const op = "form.Toggle"
	var f form.Form
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		var err error
		if f, err = repos.Form.GetFormByID(id); err != nil {
			return storeErr(op, "form", err)
		}
		f.IsActive = !f.IsActive
		return storeErr(op, "form", repos.Form.UpdateForm(&f))
	})
	if err != nil {
		return form.Form{}, storeErr(op, "form", err)
	}
	s.audit.Record(ctx, "toggle", "form", idString(id), map[string]bool{"is_active": !f.IsActive}, map[string]bool{"is_active": f.IsActive}, "toggled form")
	return f, nil
}

// Duplicate deep-copies the form tree under a fresh slug. The copy always
// starts inactive.
func (s *FormService) Duplicate(ctx context.Context, id uint) (form.Form, error) {
	const op = "form.Duplicate"
	var clone form.Form
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		src, err := repos.Form.GetFormTree(id)
		if err != nil {
			return storeErr(op, "form", err)
		}
		slug, err := copySlug(repos, src.Slug)
		if err != nil {
			return err
		}

		clone = form.Form{
			UserID:      src.UserID,
			Name:        src.Name + " (Copy)",
			Slug:        slug,
			Description: src.Description,
			Settings:    datatypes.NewJSONType(src.Settings.Data()),
			IsActive:    false,
		}
		if err := repos.Form.CreateForm(&clone); err != nil {
			return storeErr(op, "form", err)
		}

		for i, p := range src.Pages {
			page := form.Page{
				FormID:      clone.ID,
				Title:       p.Title,
				Description: p.Description,
				Position:    i,
			}
			if err := repos.Page.CreatePage(&page); err != nil {
				return storeErr(op, "page", err)
			}
			for j, f := range p.Fields {
				field := form.Field{
					PageID:      page.ID,
					FormID:      clone.ID,
					Type:        f.Type,
					Label:       f.Label,
					Placeholder: f.Placeholder,
					HelpText:    f.HelpText,
					Required:    f.Required,
					Options:     append(datatypes.JSONSlice[string]{}, f.Options...),
					Validation:  datatypes.NewJSONType(f.Validation.Data()),
					Position:    j,
				}
				if err := repos.Field.CreateField(&field); err != nil {
					return storeErr(op, "field", err)
				}
				page.Fields = append(page.Fields, field)
			}
			clone.Pages = append(clone.Pages, page)
		}
		return nil
	})
	if err != nil {
		return form.Form{}, storeErr(op, "form", err)
	}
	s.audit.Record(ctx, "duplicate", "form", idString(clone.ID), map[string]uint{"source_id": id}, clone, "duplicated form")
	return clone, nil
}

// Delete soft-deletes the form. Its slug stays reserved.
func (s *FormService) Delete(ctx context.Context, id uint) error {
	const op = "form.Delete"
	repos := s.Repos.WithContext(ctx)
	f, err := repos.Form.GetFormByID(id)
	if err != nil {
		return storeErr(op, "form", err)
	}
	if err := repos.Form.DeleteForm(id); err != nil {
		return storeErr(op, "form", err)
	}
	s.audit.Record(ctx, "delete", "form", idString(id), f, nil, "deleted form")
	return nil
}

// GetOwnerID backs the ownership middleware.
func (s *FormService) GetOwnerID(ctx context.Context, id uint) (uint, error) {
	owner, err := s.Repos.WithContext(ctx).Form.GetOwnerID(id)
	if err != nil {
		return 0, storeErr("form.Owner", "form", err)
	}
	return owner, nil
}

func validateSettings(op string, settings *form.Settings) error {
	if settings == nil || settings.WebhookURL == "" {
		return nil
	}
	if err := notify.ValidateWebhookURL(settings.WebhookURL); err != nil {
		return apperr.Validationf(op, "%s", err.Error())
	}
	return nil
}

// resolveSlug validates an explicit slug or derives one from name. Explicit
// slugs must be free; derived ones get a numeric suffix until they are.
func resolveSlug(repos *repository.Repos, op, requested, name string, excludeID uint) (string, error) {
	if requested != "" {
		if len(requested) > form.MaxSlugLength {
			return "", apperr.Validationf(op, "slug must be at most %d characters", form.MaxSlugLength)
		}
		if !form.ValidSlug(requested) {
			return "", apperr.Validationf(op, "slug must contain only lowercase letters, digits and single hyphens")
		}
		taken, err := repos.Form.SlugExists(requested, excludeID)
		if err != nil {
			return "", storeErr(op, "form", err)
		}
		if taken {
			return "", apperr.Validationf(op, "slug %q is already taken", requested)
		}
		return requested, nil
	}

	base := form.Slugify(name)
	return firstFreeSlug(repos, op, func(n int) string {
		if n == 1 {
			return base
		}
		return withSuffix(base, "-"+strconv.Itoa(n))
	}, excludeID)
}

// copySlug yields <slug>-copy, then <slug>-copy-2, <slug>-copy-3 and so on.
func copySlug(repos *repository.Repos, slug string) (string, error) {
	return firstFreeSlug(repos, "form.Duplicate", func(n int) string {
		if n == 1 {
			return withSuffix(slug, copySuffix)
		}
		return withSuffix(slug, fmt.Sprintf("%s-%d", copySuffix, n))
	}, 0)
}

func firstFreeSlug(repos *repository.Repos, op string, candidate func(n int) string, excludeID uint) (string, error) {
	for n := 1; ; n++ {
		slug := candidate(n)
		taken, err := repos.Form.SlugExists(slug, excludeID)
		if err != nil {
			return "", storeErr(op, "form", err)
		}
		if !taken {
			return slug, nil
		}
	}
}

// withSuffix appends suffix, trimming base so the result fits the column.
func withSuffix(base, suffix string) string {
	if limit := form.MaxSlugLength - len(suffix); len(base) > limit {
		base = strings.TrimRight(base[:limit], "-")
	}
	return base + suffix
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

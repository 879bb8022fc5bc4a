package application

import (
	"context"
	"strings"

	"github.com/linskybing/formbuilder-go/internal/apperr"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/internal/repository"
)

type PageService struct {
	Repos  *repository.Repos
	fields *FieldService
	audit  *AuditService
}

func NewPageService(repos *repository.Repos, fields *FieldService, audit *AuditService) *PageService {
	return &PageService{
		Repos:  repos,
		fields: fields,
		audit:  audit,
	}
}

// GetPagesByForm returns the form's pages in position order with fields loaded.
func (s *PageService) GetPagesByForm(ctx context.Context, formID uint) ([]form.Page, error) {
	repos := s.Repos.WithContext(ctx)
	if _, err := repos.Form.GetFormByID(formID); err != nil {
		return nil, storeErr("page.ListByForm", "form", err)
	}
	pages, err := repos.Page.ListPagesByForm(formID)
	if err != nil {
		return nil, storeErr("page.ListByForm", "page", err)
	}
	return pages, nil
}

// CreateWithFields appends a page to the end of the form.
func (s *PageService) CreateWithFields(ctx context.Context, formID uint, input form.PageInput) (form.Page, error) {
	const op = "page.Create"
	var page form.Page
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		if _, err := repos.Form.GetFormByID(formID); err != nil {
			return storeErr(op, "form", err)
		}
		count, err := repos.Page.CountPagesByForm(formID)
		if err != nil {
			return storeErr(op, "page", err)
		}
		page, err = s.createPage(repos, formID, int(count), input)
		return err
	})
	if err != nil {
		return form.Page{}, storeErr(op, "page", err)
	}
	s.audit.Record(ctx, "create", "page", idString(page.ID), nil, page, "created page")
	return page, nil
}

// UpdateWithFields patches the page and reconciles its fields in one transaction.
func (s *PageService) UpdateWithFields(ctx context.Context, id uint, input form.PageInput) (form.Page, error) {
	const op = "page.Update"
	var before, page form.Page
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		current, err := repos.Page.GetPageByID(id)
		if err != nil {
			return storeErr(op, "page", err)
		}
		before = current
		page, err = s.updatePage(repos, current, current.Position, input)
		return err
	})
	if err != nil {
		return form.Page{}, storeErr(op, "page", err)
	}
	s.audit.Record(ctx, "update", "page", idString(id), before, page, "updated page")
	return page, nil
}

// DeletePage removes the page and its fields, then closes the gap it leaves.
func (s *PageService) DeletePage(ctx context.Context, id uint) error {
	const op = "page.Delete"
	var page form.Page
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		var err error
		page, err = repos.Page.GetPageByID(id)
		if err != nil {
			return storeErr(op, "page", err)
		}
		if err := repos.Page.DeletePage(id); err != nil {
			return storeErr(op, "page", err)
		}
		rest, err := repos.Page.ListPagesByForm(page.FormID)
		if err != nil {
			return storeErr(op, "page", err)
		}
		return storeErr(op, "page", applyOrder(
			func() error { return repos.Page.ParkPositions(page.FormID) },
			repos.Page.SetPosition,
			pageIDs(rest),
		))
	})
	if err != nil {
		return storeErr(op, "page", err)
	}
	s.audit.Record(ctx, "delete", "page", idString(id), page, nil, "deleted page")
	return nil
}

// ReorderPages assigns new positions to every page of a form at once.
func (s *PageService) ReorderPages(ctx context.Context, formID uint, orders []form.PositionUpdate) ([]form.Page, error) {
	const op = "page.Reorder"
	var before, pages []form.Page
	err := s.Repos.ExecTx(ctx, func(repos *repository.Repos) error {
		if _, err := repos.Form.GetFormByID(formID); err != nil {
			return storeErr(op, "form", err)
		}
		current, err := repos.Page.ListPagesByForm(formID)
		if err != nil {
			return storeErr(op, "page", err)
		}
		before = current
		ids, err := planOrder(op, "page", pageIDs(current), orders)
		if err != nil {
			return err
		}
		if err := applyOrder(
			func() error { return repos.Page.ParkPositions(formID) },
			repos.Page.SetPosition,
			ids,
		); err != nil {
			return storeErr(op, "page", err)
		}
		pages, err = repos.Page.ListPagesByForm(formID)
		return storeErr(op, "page", err)
	})
	if err != nil {
		return nil, storeErr(op, "page", err)
	}
	s.audit.Record(ctx, "reorder", "form", idString(formID), pageIDs(before), pageIDs(pages), "reordered pages")
	return pages, nil
}

func (s *PageService) createPage(repos *repository.Repos, formID uint, position int, in form.PageInput) (form.Page, error) {
	page := form.Page{
		FormID:      formID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Position:    position,
	}
	if err := repos.Page.CreatePage(&page); err != nil {
		return form.Page{}, storeErr("page.Create", "page", err)
	}
	fields, err := s.fields.createFields(repos, page, in.Fields)
	if err != nil {
		return form.Page{}, err
	}
	page.Fields = fields
	return page, nil
}

func (s *PageService) updatePage(repos *repository.Repos, page form.Page, position int, in form.PageInput) (form.Page, error) {
	page.Title = strings.TrimSpace(in.Title)
	page.Description = in.Description
	page.Position = position
	page.Fields = nil
	if err := repos.Page.UpdatePage(&page); err != nil {
		return form.Page{}, storeErr("page.Update", "page", err)
	}
	fields, err := s.fields.reconcileFields(repos, page, in.Fields)
	if err != nil {
		return form.Page{}, err
	}
	page.Fields = fields
	return page, nil
}

// reconcilePages makes the form's pages match inputs, one level above
// reconcileFields and with the same rules.
func (s *PageService) reconcilePages(repos *repository.Repos, formID uint, inputs []form.PageInput) ([]form.Page, error) {
	const op = "page.Reconcile"
	existing, err := repos.Page.ListPagesByForm(formID)
	if err != nil {
		return nil, storeErr(op, "page", err)
	}

	byID := make(map[uint]form.Page, len(existing))
	for _, p := range existing {
		byID[p.ID] = p
	}
	keep := make(map[uint]struct{}, len(inputs))
	for _, in := range inputs {
		if in.ID == nil {
			continue
		}
		if _, ok := byID[*in.ID]; !ok {
			return nil, apperr.Validationf(op, "page %d does not belong to form %d", *in.ID, formID)
		}
		if _, dup := keep[*in.ID]; dup {
			return nil, apperr.Validationf(op, "page %d listed more than once", *in.ID)
		}
		keep[*in.ID] = struct{}{}
	}

	if err := repos.Page.ParkPositions(formID); err != nil {
		return nil, storeErr(op, "page", err)
	}
	for _, p := range existing {
		if _, ok := keep[p.ID]; ok {
			continue
		}
		if err := repos.Page.DeletePage(p.ID); err != nil {
			return nil, storeErr(op, "page", err)
		}
	}

	out := make([]form.Page, 0, len(inputs))
	for i, in := range inputs {
		var (
			page form.Page
			err  error
		)
		if in.ID == nil {
			page, err = s.createPage(repos, formID, i, in)
		} else {
			page, err = s.updatePage(repos, byID[*in.ID], i, in)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, page)
	}
	return out, nil
}

func pageIDs(pages []form.Page) []uint {
	ids := make([]uint, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	return ids
}

package application

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/linskybing/formbuilder-go/internal/apperr"
	"github.com/linskybing/formbuilder-go/internal/domain/audit"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/linskybing/formbuilder-go/internal/storage"
	"github.com/linskybing/formbuilder-go/internal/testutils"
	"github.com/linskybing/formbuilder-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --------------------- Setup ---------------------
type formFixture struct {
	repos  *repository.Repos
	audit  *AuditService
	fields *FieldService
	pages  *PageService
	forms  *FormService
	store  *storage.MemoryStore
}

func setupFormServices(t *testing.T) *formFixture {
	repos := repository.NewRepositories(testutils.NewTestDB(t))
	auditSvc := NewAuditService(repos)
	t.Cleanup(auditSvc.Wait)
	fields := NewFieldService(repos, auditSvc)
	pages := NewPageService(repos, fields, auditSvc)
	store := storage.NewMemoryStore()
	return &formFixture{
		repos:  repos,
		audit:  auditSvc,
		fields: fields,
		pages:  pages,
		forms:  NewFormService(repos, pages, auditSvc, store),
		store:  store,
	}
}

func ownerCtx(userID uint) context.Context {
	return types.WithActor(context.Background(), types.Actor{UserID: userID, Username: "owner"})
}

func boolPtr(b bool) *bool { return &b }
func uintPtr(u uint) *uint { return &u }

func textField(label string, required bool) form.FieldInput {
	return form.FieldInput{Type: form.FieldText, Label: label, Required: required}
}

func surveyInput() form.FormInput {
	return form.FormInput{
		Name:     "Customer Survey",
		IsActive: boolPtr(true),
		Pages: []form.PageInput{
			{Title: "About you", Fields: []form.FieldInput{textField("Name", true), {Type: form.FieldEmail, Label: "Email"}}},
			{Title: "Feedback", Fields: []form.FieldInput{
				{Type: form.FieldRadio, Label: "Rating", Options: []string{"good", "bad"}},
				{Type: form.FieldTextarea, Label: "Comments"},
			}},
		},
	}
}

func createSurvey(t *testing.T, fx *formFixture, userID uint) form.Form {
	f, err := fx.forms.CreateWithPages(ownerCtx(userID), userID, surveyInput())
	require.NoError(t, err)
	return f
}

func positionsOf(pages []form.Page) []int {
	out := make([]int, len(pages))
	for i, p := range pages {
		out[i] = p.Position
	}
	return out
}

func labelsOf(fields []form.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Label
	}
	return out
}

// --------------------- Create ---------------------
func TestCreateWithPages_ContiguousPositions(t *testing.T) {
	fx := setupFormServices(t)
	created := createSurvey(t, fx, 1)

	assert.Equal(t, "customer-survey", created.Slug)
	assert.True(t, created.IsActive)

	stored, err := fx.forms.GetForm(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, stored.Pages, 2)
	assert.Equal(t, []int{0, 1}, positionsOf(stored.Pages))
	for _, p := range stored.Pages {
		for i, f := range p.Fields {
			assert.Equal(t, i, f.Position)
			assert.Equal(t, created.ID, f.FormID)
		}
	}
	assert.Equal(t, []string{"Name", "Email"}, labelsOf(stored.Pages[0].Fields))
}

func TestCreateWithPages_DefaultsToInactive(t *testing.T) {
	fx := setupFormServices(t)
	f, err := fx.forms.CreateWithPages(ownerCtx(1), 1, form.FormInput{Name: "Draft"})
	require.NoError(t, err)
	assert.False(t, f.IsActive)
	assert.Empty(t, f.Pages)
}

func TestCreateWithPages_RejectsBadInput(t *testing.T) {
	fx := setupFormServices(t)
	ctx := ownerCtx(1)

	cases := map[string]form.FormInput{
		"blank name":        {Name: "  "},
		"bad slug":          {Name: "X", Slug: "Not A Slug"},
		"long slug":         {Name: "X", Slug: strings.Repeat("a", form.MaxSlugLength+1)},
		"unknown type":      {Name: "X", Pages: []form.PageInput{{Fields: []form.FieldInput{{Type: "matrix", Label: "M"}}}}},
		"choices missing":   {Name: "X", Pages: []form.PageInput{{Fields: []form.FieldInput{{Type: form.FieldSelect, Label: "Pick"}}}}},
		"bad pattern":       {Name: "X", Pages: []form.PageInput{{Fields: []form.FieldInput{{Type: form.FieldText, Label: "P", Validation: &form.ValidationRules{Pattern: "("}}}}}},
		"existing page ref": {Name: "X", Pages: []form.PageInput{{ID: uintPtr(99)}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fx.forms.CreateWithPages(ctx, 1, in)
			assert.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)
		})
	}

	forms, err := fx.forms.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, forms)
}

// --------------------- Slugs ---------------------
func TestSlugRules(t *testing.T) {
	fx := setupFormServices(t)
	ctx := ownerCtx(1)

	first, err := fx.forms.CreateWithPages(ctx, 1, form.FormInput{Name: "Event Signup"})
	require.NoError(t, err)
	second, err := fx.forms.CreateWithPages(ctx, 1, form.FormInput{Name: "Event Signup"})
	require.NoError(t, err)
	assert.Equal(t, "event-signup", first.Slug)
	assert.Equal(t, "event-signup-2", second.Slug)

	_, err = fx.forms.CreateWithPages(ctx, 1, form.FormInput{Name: "Other", Slug: "event-signup"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, fx.forms.Delete(ctx, first.ID))
	_, err = fx.forms.CreateWithPages(ctx, 1, form.FormInput{Name: "Other", Slug: "event-signup"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "deleted forms keep their slug")

	explicit, err := fx.forms.CreateWithPages(ctx, 1, form.FormInput{Name: "Other", Slug: "my-form-1"})
	require.NoError(t, err)
	assert.Equal(t, "my-form-1", explicit.Slug)
}

// --------------------- Update / reconcile ---------------------
func TestUpdateWithPages_Reconciles(t *testing.T) {
	fx := setupFormServices(t)
	created := createSurvey(t, fx, 1)
	p0, p1 := created.Pages[0], created.Pages[1]

	in := form.FormInput{
		Name: "Customer Survey v2",
		Pages: []form.PageInput{
			{ID: uintPtr(p1.ID), Title: "Feedback first", Fields: []form.FieldInput{
				{ID: uintPtr(p1.Fields[1].ID), Type: form.FieldTextarea, Label: "Anything else?"},
				textField("New question", false),
			}},
			{Title: "Brand new page", Fields: []form.FieldInput{textField("Extra", false)}},
		},
	}
	updated, err := fx.forms.UpdateWithPages(ownerCtx(1), created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Customer Survey v2", updated.Name)
	assert.Equal(t, created.Slug, updated.Slug)
	assert.True(t, updated.IsActive, "omitted is_active keeps the flag")

	stored, err := fx.forms.GetForm(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, stored.Pages, 2)
	assert.Equal(t, p1.ID, stored.Pages[0].ID)
	assert.Equal(t, []int{0, 1}, positionsOf(stored.Pages))
	assert.Equal(t, []string{"Anything else?", "New question"}, labelsOf(stored.Pages[0].Fields))
	assert.Equal(t, p1.Fields[1].ID, stored.Pages[0].Fields[0].ID)
	assert.Equal(t, []string{"Extra"}, labelsOf(stored.Pages[1].Fields))

	_, err = fx.pages.Repos.Page.GetPageByID(p0.ID)
	assert.Error(t, err, "page left out of the payload is deleted")
}

func TestUpdateWithPages_RollsBackOnForeignField(t *testing.T) {
	fx := setupFormServices(t)
	created := createSurvey(t, fx, 1)
	other := createSurvey(t, fx, 1)

	in := form.FormInput{
		Name: "Hijack",
		Pages: []form.PageInput{
			{ID: uintPtr(created.Pages[0].ID), Title: "Changed", Fields: []form.FieldInput{
				{ID: uintPtr(other.Pages[0].Fields[0].ID), Type: form.FieldText, Label: "Stolen"},
			}},
		},
	}
	_, err := fx.forms.UpdateWithPages(ownerCtx(1), created.ID, in)
	require.True(t, apperr.Is(err, apperr.KindValidation), "got %v", err)

	before, err := fx.forms.GetForm(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Customer Survey", before.Name)
	assert.Len(t, before.Pages, 2)
	assert.Equal(t, "About you", before.Pages[0].Title)
	assert.Equal(t, []string{"Name", "Email"}, labelsOf(before.Pages[0].Fields))
}

func TestUpdateWithPages_NotFound(t *testing.T) {
	fx := setupFormServices(t)
	_, err := fx.forms.UpdateWithPages(ownerCtx(1), 404, form.FormInput{Name: "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestPatch_OnlyTouchesAttributes(t *testing.T) {
	fx := setupFormServices(t)
	created := createSurvey(t, fx, 1)

	name := "Renamed"
	slug := "renamed-survey"
	patched, err := fx.forms.Patch(ownerCtx(1), created.ID, form.FormPatch{Name: &name, Slug: &slug, IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "renamed-survey", patched.Slug)
	assert.False(t, patched.IsActive)

	stored, err := fx.forms.GetForm(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Pages, 2)

	empty := ""
	_, err = fx.forms.Patch(ownerCtx(1), created.ID, form.FormPatch{Name: &empty})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

// --------------------- Toggle / Duplicate / Delete ---------------------
func TestSettings_WebhookURLValidated(t *testing.T) {
	fx := setupFormServices(t)
	ctx := ownerCtx(1)

	for _, raw := range []string{"gopher://example.com", "http://127.0.0.1:8080/admin/flush-cache", "http://169.254.169.254/latest/meta-data", "not a url"} {
		in := surveyInput()
		in.Settings = &form.Settings{WebhookURL: raw}
		_, err := fx.forms.CreateWithPages(ctx, 1, in)
		assert.True(t, apperr.Is(err, apperr.KindValidation), raw)
	}

	f := createSurvey(t, fx, 1)

	in := surveyInput()
	in.Settings = &form.Settings{WebhookURL: "http://10.0.0.5/hook"}
	_, err := fx.forms.UpdateWithPages(ctx, f.ID, in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = fx.forms.Patch(ctx, f.ID, form.FormPatch{Settings: &form.Settings{WebhookURL: "file:///etc/passwd"}})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	stored, err := fx.forms.GetForm(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Settings.Data().WebhookURL)

	patched, err := fx.forms.Patch(ctx, f.ID, form.FormPatch{Settings: &form.Settings{WebhookURL: "https://hooks.example.com/new"}})
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/new", patched.Settings.Data().WebhookURL)
}

func TestToggleActive_TwiceRestores(t *testing.T) {
	fx := setupFormServices(t)
	created := createSurvey(t, fx, 1)

	off, err := fx.forms.ToggleActive(ownerCtx(1), created.ID)
	require.NoError(t, err)
	assert.False(t, off.IsActive)

	on, err := fx.forms.ToggleActive(ownerCtx(1), created.ID)
	require.NoError(t, err)
	assert.True(t, on.IsActive)
}

func TestDuplicate_DeepCopy(t *testing.T) {
	fx := setupFormServices(t)
	src := createSurvey(t, fx, 3)

	clone, err := fx.forms.Duplicate(ownerCtx(3), src.ID)
	require.NoError(t, err)
	assert.Equal(t, "Customer Survey (Copy)", clone.Name)
	assert.Equal(t, "customer-survey-copy", clone.Slug)
	assert.False(t, clone.IsActive)
	assert.Equal(t, uint(3), clone.UserID)
	assert.NotEqual(t, src.ID, clone.ID)

	again, err := fx.forms.Duplicate(ownerCtx(3), src.ID)
	require.NoError(t, err)
	assert.Equal(t, "customer-survey-copy-2", again.Slug)

	stored, err := fx.forms.GetForm(context.Background(), clone.ID)
	require.NoError(t, err)
	original, err := fx.forms.GetForm(context.Background(), src.ID)
	require.NoError(t, err)

	shape := func(f form.Form) [][]string {
		var out [][]string
		for _, p := range f.Pages {
			out = append(out, append([]string{p.Title}, labelsOf(p.Fields)...))
		}
		return out
	}
	if diff := cmp.Diff(shape(original), shape(stored)); diff != "" {
		t.Errorf("copied tree differs (-src +copy):\n%s", diff)
	}
	assert.Equal(t, []string{"good", "bad"}, []string(stored.Pages[1].Fields[0].Options))
	for _, p := range stored.Pages {
		assert.Equal(t, clone.ID, p.FormID)
		assert.NotContains(t, []uint{original.Pages[0].ID, original.Pages[1].ID}, p.ID)
	}
}

func TestDelete_HidesForm(t *testing.T) {
	fx := setupFormServices(t)
	created := createSurvey(t, fx, 1)

	require.NoError(t, fx.forms.Delete(ownerCtx(1), created.ID))
	_, err := fx.forms.GetForm(context.Background(), created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = fx.forms.FindBySlug(context.Background(), created.Slug)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = fx.forms.Delete(ownerCtx(1), created.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

// --------------------- Lookup ---------------------
func TestFindBySlugAndPreview(t *testing.T) {
	fx := setupFormServices(t)
	in := surveyInput()
	in.IsActive = boolPtr(false)
	draft, err := fx.forms.CreateWithPages(ownerCtx(1), 1, in)
	require.NoError(t, err)

	_, err = fx.forms.FindBySlug(context.Background(), draft.Slug)
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "inactive forms are hidden from the public")
	_, err = fx.forms.FindBySlug(context.Background(), "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Equal(t, "form not found", apperr.Message(err))

	got, err := fx.forms.Preview(ownerCtx(1), draft.ID)
	require.NoError(t, err)
	assert.Len(t, got.Pages, 2)

	admin := types.WithActor(context.Background(), types.Actor{UserID: 9, IsAdmin: true})
	_, err = fx.forms.Preview(admin, draft.ID)
	assert.NoError(t, err)

	_, err = fx.forms.Preview(ownerCtx(2), draft.ID)
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = fx.forms.Preview(context.Background(), draft.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = fx.forms.ToggleActive(ownerCtx(1), draft.ID)
	require.NoError(t, err)
	live, err := fx.forms.FindBySlug(context.Background(), draft.Slug)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, live.ID)
}

func TestGetFormsByUser_NewestFirst(t *testing.T) {
	fx := setupFormServices(t)
	a, err := fx.forms.CreateWithPages(ownerCtx(1), 1, form.FormInput{Name: "A"})
	require.NoError(t, err)
	b, err := fx.forms.CreateWithPages(ownerCtx(1), 1, form.FormInput{Name: "B"})
	require.NoError(t, err)
	_, err = fx.forms.CreateWithPages(ownerCtx(2), 2, form.FormInput{Name: "C"})
	require.NoError(t, err)

	mine, err := fx.forms.GetFormsByUser(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, b.ID, mine[0].ID)
	assert.Equal(t, a.ID, mine[1].ID)
}

// --------------------- Export ---------------------
func TestExport_WritesYAMLSnapshot(t *testing.T) {
	fx := setupFormServices(t)
	created := createSurvey(t, fx, 1)

	res, err := fx.forms.Export(ownerCtx(1), created.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, "forms/"))
	assert.True(t, strings.HasSuffix(res.Key, ".yaml"))

	data, err := fx.store.GetObject(context.Background(), res.Key)
	require.NoError(t, err)
	assert.Equal(t, res.Bytes, len(data))
	assert.Contains(t, string(data), "slug: customer-survey")
	assert.Contains(t, string(data), "label: Comments")
}

func TestExport_Disabled(t *testing.T) {
	fx := setupFormServices(t)
	created := createSurvey(t, fx, 1)

	noStore := NewFormService(fx.repos, fx.pages, fx.audit, nil)
	_, err := noStore.Export(ownerCtx(1), created.ID)
	assert.True(t, apperr.Is(err, apperr.KindUnavailable))
}

// --------------------- Audit ---------------------
func TestMutationsAreAudited(t *testing.T) {
	fx := setupFormServices(t)
	created := createSurvey(t, fx, 5)
	_, err := fx.forms.ToggleActive(ownerCtx(5), created.ID)
	require.NoError(t, err)
	fx.audit.Wait()

	resource := "form"
	logs, err := fx.audit.QueryAuditLogs(context.Background(), repository.AuditQueryParams{ResourceType: &resource})
	require.NoError(t, err)
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
		assert.Equal(t, uint(5), l.UserID)
	}
	assert.ElementsMatch(t, []string{"create", "toggle"}, actions)

	var entry audit.AuditLog
	require.NoError(t, fx.repos.DB().Where("action = ?", "create").First(&entry).Error)
	assert.Contains(t, string(entry.NewData), "customer-survey")
}

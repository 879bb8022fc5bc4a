package application

import (
	"time"

	"github.com/linskybing/formbuilder-go/internal/feed"
	"github.com/linskybing/formbuilder-go/internal/metrics"
	"github.com/linskybing/formbuilder-go/internal/notify"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/linskybing/formbuilder-go/internal/storage"
)

// Options carries the collaborators that live outside the database. Every
// member may be left zero; the services then skip that side effect.
type Options struct {
	Store          storage.ObjectStore
	Hub            *feed.Hub
	Notifier       *notify.Dispatcher
	Metrics        *metrics.Metrics
	AdminUsername  string
	TokenTTL       time.Duration
	SecureCookies  bool
	AllowedOrigins []string // origin prefixes allowed to open the live feed
}

type Services struct {
	Audit      *AuditService
	Field      *FieldService
	Page       *PageService
	Form       *FormService
	Submission *SubmissionService
	User       *UserService

	Hub            *feed.Hub
	SecureCookies  bool
	AllowedOrigins []string
}

func New(repos *repository.Repos, opts Options) *Services {
	audit := NewAuditService(repos)
	fields := NewFieldService(repos, audit)
	pages := NewPageService(repos, fields, audit)
	return &Services{
		Audit:          audit,
		Field:          fields,
		Page:           pages,
		Form:           NewFormService(repos, pages, audit, opts.Store),
		Submission:     NewSubmissionService(repos, opts.Hub, opts.Notifier, opts.Metrics),
		User:           NewUserService(repos, opts.AdminUsername, opts.TokenTTL),
		Hub:            opts.Hub,
		SecureCookies:  opts.SecureCookies,
		AllowedOrigins: opts.AllowedOrigins,
	}
}

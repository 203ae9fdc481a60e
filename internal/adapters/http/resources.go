package httpadapter

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/core/expiry"
	"github.com/nbkdev/control-center/internal/core/ports"
)

// resource wires list/get/create/update/delete for one record type.
type resource[T any] struct {
	kind     string
	schema   string
	repo     ports.Repository[T]
	idOf     func(*T) *string
	validate func(T) error
	// view decorates a record for responses; nil returns it unchanged.
	view func(T, time.Time) any
}

func (res resource[T]) routes(rt *Router) func(chi.Router) {
	return func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, req *http.Request) { res.list(rt, w, req) })
		r.Post("/", func(w http.ResponseWriter, req *http.Request) { res.create(rt, w, req) })
		r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) { res.get(rt, w, req) })
		r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) { res.update(rt, w, req) })
		r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) { res.remove(rt, w, req) })
	}
}

func (res resource[T]) render(rt *Router, record T) any {
	if res.view == nil {
		return record
	}
	return res.view(record, rt.today())
}

func (res resource[T]) list(rt *Router, w http.ResponseWriter, r *http.Request) {
	records, err := res.repo.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]any, 0, len(records))
	for _, record := range records {
		out = append(out, res.render(rt, record))
	}
	writeJSON(w, http.StatusOK, out)
}

func (res resource[T]) get(rt *Router, w http.ResponseWriter, r *http.Request) {
	record, err := res.repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.render(rt, *record))
}

func (res resource[T]) create(rt *Router, w http.ResponseWriter, r *http.Request) {
	var record T
	if err := rt.contract.decode(r, res.schema, &record); err != nil {
		writeError(w, r, err)
		return
	}
	if err := res.validate(record); err != nil {
		writeError(w, r, err)
		return
	}

	id := res.idOf(&record)
	if strings.TrimSpace(*id) == "" {
		*id = uuid.NewString()
	}
	if err := res.repo.Create(r.Context(), &record); err != nil {
		writeError(w, r, err)
		return
	}

	rt.notify(r, res.kind, *id, domain.ChangeCreated)
	writeJSON(w, http.StatusCreated, res.render(rt, record))
}

func (res resource[T]) update(rt *Router, w http.ResponseWriter, r *http.Request) {
	var record T
	if err := rt.contract.decode(r, res.schema, &record); err != nil {
		writeError(w, r, err)
		return
	}
	if err := res.validate(record); err != nil {
		writeError(w, r, err)
		return
	}

	id := res.idOf(&record)
	*id = chi.URLParam(r, "id")
	if err := res.repo.Update(r.Context(), &record); err != nil {
		writeError(w, r, err)
		return
	}

	rt.notify(r, res.kind, *id, domain.ChangeUpdated)
	writeJSON(w, http.StatusOK, res.render(rt, record))
}

func (res resource[T]) remove(rt *Router, w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := res.repo.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	rt.notify(r, res.kind, id, domain.ChangeDeleted)
	w.WriteHeader(http.StatusNoContent)
}

type projectView struct {
	domain.Project
	expiry.ProjectRenewals
}

func viewProject(p domain.Project, today time.Time) any {
	return projectView{Project: p, ProjectRenewals: expiry.ComputeProjectRenewals(p, today)}
}

type subscriptionView struct {
	domain.AISubscription
	expiry.SubscriptionStatus
}

func viewSubscription(s domain.AISubscription, today time.Time) any {
	return subscriptionView{
		AISubscription:     s,
		SubscriptionStatus: expiry.ComputeSubscriptionStatus(s.ManualStatus, s.CancelByDate, today),
	}
}

func (rt *Router) mountResources(r chi.Router) {
	r.Route("/clients", resource[domain.Client]{
		kind:     "client",
		schema:   "Client",
		repo:     rt.deps.Clients,
		idOf:     func(c *domain.Client) *string { return &c.ID },
		validate: domain.Client.Validate,
	}.routes(rt))
	r.Route("/projects", resource[domain.Project]{
		kind:     "project",
		schema:   "Project",
		repo:     rt.deps.Projects,
		idOf:     func(p *domain.Project) *string { return &p.ID },
		validate: domain.Project.Validate,
		view:     viewProject,
	}.routes(rt))
	r.Route("/invoices", resource[domain.Invoice]{
		kind:     "invoice",
		schema:   "Invoice",
		repo:     rt.deps.Invoices,
		idOf:     func(inv *domain.Invoice) *string { return &inv.ID },
		validate: domain.Invoice.Validate,
	}.routes(rt))
	r.Route("/subscriptions", resource[domain.AISubscription]{
		kind:     "subscription",
		schema:   "Subscription",
		repo:     rt.deps.Subscriptions,
		idOf:     func(s *domain.AISubscription) *string { return &s.ID },
		validate: domain.AISubscription.Validate,
		view:     viewSubscription,
	}.routes(rt))
	r.Route("/action-items", resource[domain.ActionItem]{
		kind:     "action_item",
		schema:   "ActionItem",
		repo:     rt.deps.ActionItems,
		idOf:     func(a *domain.ActionItem) *string { return &a.ID },
		validate: domain.ActionItem.Validate,
	}.routes(rt))
	r.Route("/email-accounts", resource[domain.EmailAccount]{
		kind:     "email_account",
		schema:   "EmailAccount",
		repo:     rt.deps.EmailAccounts,
		idOf:     func(e *domain.EmailAccount) *string { return &e.ID },
		validate: domain.EmailAccount.Validate,
	}.routes(rt))
	r.Route("/effort-logs", resource[domain.EffortLog]{
		kind:     "effort_log",
		schema:   "EffortLog",
		repo:     rt.deps.EffortLogs,
		idOf:     func(e *domain.EffortLog) *string { return &e.ID },
		validate: domain.EffortLog.Validate,
	}.routes(rt))
}

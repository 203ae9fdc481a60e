package httpadapter

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/nbkdev/control-center/internal/core/attention"
	"github.com/nbkdev/control-center/internal/core/domain"
	"github.com/nbkdev/control-center/internal/infrastructure/export/xlsx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// asOf binds the optional as_of query parameter. The zero time means today.
func asOf(r *http.Request) (time.Time, error) {
	var day *openapi_types.Date
	if err := runtime.BindQueryParameter("form", true, false, "as_of", r.URL.Query(), &day); err != nil {
		return time.Time{}, domain.WrapError(domain.ErrInvalidInput, "bind as_of", err)
	}
	if day == nil {
		return time.Time{}, nil
	}
	return day.Time, nil
}

func (rt *Router) snapshot(r *http.Request) (*attention.Snapshot, error) {
	day, err := asOf(r)
	if err != nil {
		return nil, err
	}
	return rt.deps.Attention.Snapshot(r.Context(), day)
}

func (rt *Router) getAttention(w http.ResponseWriter, r *http.Request) {
	snap, err := rt.snapshot(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rt.metrics.ObserveAttentionItems(serviceName, "api", len(snap.Items))
	writeJSON(w, http.StatusOK, snap)
}

func (rt *Router) getVitals(w http.ResponseWriter, r *http.Request) {
	snap, err := rt.snapshot(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Vitals)
}

func (rt *Router) nextReminder(w http.ResponseWriter, r *http.Request) {
	day, err := asOf(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	next, err := rt.deps.Reminders.Next(r.Context(), r.Header.Get(deviceIDHeader), day)
	if err != nil {
		rt.metrics.RecordReminder(serviceName, "error")
		writeError(w, r, err)
		return
	}
	if next == nil {
		rt.metrics.RecordReminder(serviceName, "none")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	rt.metrics.RecordReminder(serviceName, "served")
	writeJSON(w, http.StatusOK, next)
}

func (rt *Router) markReminderShown(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key string `json:"key"`
		Day string `json:"day"`
	}
	if err := rt.contract.decode(r, "ReminderShown", &body); err != nil {
		writeError(w, r, err)
		return
	}
	if err := rt.deps.Reminders.MarkShown(r.Context(), r.Header.Get(deviceIDHeader), body.Key, body.Day); err != nil {
		writeError(w, r, err)
		return
	}
	rt.metrics.RecordReminder(serviceName, "acknowledged")
	w.WriteHeader(http.StatusNoContent)
}

func (rt *Router) getBranding(w http.ResponseWriter, r *http.Request) {
	branding, err := rt.deps.Branding.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, branding)
}

func (rt *Router) putBranding(w http.ResponseWriter, r *http.Request) {
	var branding domain.Branding
	if err := rt.contract.decode(r, "Branding", &branding); err != nil {
		writeError(w, r, err)
		return
	}
	if err := branding.Validate(); err != nil {
		writeError(w, r, err)
		return
	}
	if err := rt.deps.Branding.Save(r.Context(), &branding); err != nil {
		writeError(w, r, err)
		return
	}
	rt.notify(r, "branding", "singleton", domain.ChangeUpdated)
	writeJSON(w, http.StatusOK, branding)
}

// brandingOrNil treats a missing branding row as "no title row".
func (rt *Router) brandingOrNil(r *http.Request) (*domain.Branding, error) {
	if rt.deps.Branding == nil {
		return nil, nil
	}
	branding, err := rt.deps.Branding.Get(r.Context())
	if domain.IsKind(err, domain.ErrNotFound) {
		return nil, nil
	}
	return branding, err
}

func (rt *Router) exportInvoices(w http.ResponseWriter, r *http.Request) {
	rt.export(w, r, "invoices", func(out io.Writer) error {
		invoices, err := rt.deps.Invoices.List(r.Context())
		if err != nil {
			return err
		}
		branding, err := rt.brandingOrNil(r)
		if err != nil {
			return err
		}
		return xlsx.WriteInvoices(out, invoices, branding)
	})
}

func (rt *Router) exportAttention(w http.ResponseWriter, r *http.Request) {
	rt.export(w, r, "attention", func(out io.Writer) error {
		snap, err := rt.snapshot(r)
		if err != nil {
			return err
		}
		return xlsx.WriteAttention(out, *snap)
	})
}

// export renders the workbook into memory first so a failure still yields a
// JSON error instead of a truncated download.
func (rt *Router) export(w http.ResponseWriter, r *http.Request, report string, write func(io.Writer) error) {
	var buf bytes.Buffer
	err := write(&buf)
	rt.metrics.RecordExport(serviceName, report, err)
	if err != nil {
		writeError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s-%s.xlsx", report, strings.ReplaceAll(rt.today().Format(time.DateOnly), "-", ""))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

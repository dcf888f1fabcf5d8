package handler

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"regadmin/internal/platform/toast"
	"regadmin/internal/registrations/page"
	"regadmin/internal/registrations/view"
	dErrors "regadmin/pkg/domain-errors"
	"regadmin/pkg/platform/httputil"
	"regadmin/pkg/platform/middleware/requesttime"
	limits "regadmin/pkg/platform/validation"
	"regadmin/pkg/requestcontext"
	"regadmin/pkg/validation"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service is the page state the handler renders.
type Service interface {
	Open(ctx context.Context) bool
	Trigger(ctx context.Context) bool
	Snapshot(term string) page.Snapshot
}

var _ Service = (*page.Page)(nil)

// Notices yields pending toasts; each is returned by exactly one render.
type Notices interface {
	Drain() []toast.Notice
}

// Handler serves the registrations admin page, its table fragment, the
// refresh action and the JSON view.
type Handler struct {
	logger    *slog.Logger
	pages     Service
	notices   Notices
	formatter view.Formatter
	templates *template.Template
}

func New(pages Service, notices Notices, formatter view.Formatter, logger *slog.Logger) *Handler {
	return &Handler{
		logger:    logger,
		pages:     pages,
		notices:   notices,
		formatter: formatter,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Register registers the admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/admin", h.handlePage)
	r.Get("/admin/registrations/table", h.handleTable)
	r.Post("/admin/registrations/refresh", h.handleRefresh)
	r.Get("/api/registrations", h.handleAPI)
}

type searchParams struct {
	Term string `query:"q" validate:"max=200"`
}

func (h *Handler) searchTerm(w http.ResponseWriter, r *http.Request) (string, bool) {
	params := searchParams{Term: r.URL.Query().Get("q")}
	if err := validation.Validate(params); err != nil {
		h.logger.WarnContext(r.Context(), "invalid search term",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return "", false
	}
	return params.Term, true
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/admin", http.StatusFound)
}

// handlePage renders the full document. The first display starts the initial fetch.
func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	term, ok := h.searchTerm(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if h.pages.Open(ctx) {
		h.logger.InfoContext(ctx, "initial registrations fetch started",
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	h.render(w, r, "page", h.build(ctx, term))
}

// handleTable renders the stats, table and pending toasts for the search term.
func (h *Handler) handleTable(w http.ResponseWriter, r *http.Request) {
	term, ok := h.searchTerm(w, r)
	if !ok {
		return
	}
	h.render(w, r, "registrations", h.build(r.Context(), term))
}

func (h *Handler) handleAPI(w http.ResponseWriter, r *http.Request) {
	term, ok := h.searchTerm(w, r)
	if !ok {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	httputil.WriteJSON(w, http.StatusOK, h.build(r.Context(), term))
}

// handleRefresh starts a background fetch. Browsers posting the form are sent
// back to the page; API callers get 202, or 409 while a fetch is in flight.
func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	form := isFormPost(r)
	var term string
	if form {
		if err := r.ParseForm(); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid form body"))
			return
		}
		term = r.PostForm.Get("q")
		if err := limits.CheckStringLength("q", term, limits.MaxSearchTermLength); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}

	started := h.pages.Trigger(ctx)
	if !started {
		h.logger.InfoContext(ctx, "refresh rejected, fetch in flight",
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	if form {
		http.Redirect(w, r, adminURL(term), http.StatusSeeOther)
		return
	}
	if !started {
		httputil.WriteError(w, dErrors.New(dErrors.CodeConflict, "refresh already in progress"))
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

func (h *Handler) build(ctx context.Context, term string) view.Page {
	snap := h.pages.Snapshot(term)
	return view.Build(view.Input{
		Title:       page.Title,
		Description: page.Description,
		Search:      term,
		Loading:     snap.Loading,
		Total:       snap.Total,
		Filtered:    snap.Filtered,
		Notices:     h.notices.Drain(),
		FetchedAt:   snap.FetchedAt,
		GeneratedAt: requesttime.Now(ctx),
	}, h.formatter)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data view.Page) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render template failed",
			"request_id", requestcontext.RequestID(r.Context()),
			"template", name,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "render failed"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}

func adminURL(term string) string {
	if term == "" {
		return "/admin"
	}
	return "/admin?" + url.Values{"q": {term}}.Encode()
}

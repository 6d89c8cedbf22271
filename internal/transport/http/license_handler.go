package http

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apierrors "pausaler/internal/errors"
	"pausaler/internal/infrastructure"
	"pausaler/internal/license"
	"pausaler/internal/services"
)

// LicenseHandler handles license HTTP requests.
type LicenseHandler struct {
	service  services.LicenseService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLicenseHandler creates a new license handler.
func NewLicenseHandler(service services.LicenseService, logger *slog.Logger) *LicenseHandler {
	return &LicenseHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With(slog.String("handler", "license")),
	}
}

// ActivationCodeRequest carries the plaintext tax identifier for which
// an activation code should be generated. The identifier never leaves
// this machine; only its hash is embedded in the code.
type ActivationCodeRequest struct {
	PIB string `json:"pib" validate:"required"`
}

// ApplyRequest carries a license string received from the vendor
// together with the holder's tax identifier.
type ApplyRequest struct {
	PIB     string `json:"pib" validate:"required"`
	License string `json:"license" validate:"required"`
}

// StatusRequest re-checks the persisted license for the given holder.
type StatusRequest struct {
	PIB string `json:"pib" validate:"required"`
}

// ActivationCodeResponse is the generated activation code, ready for
// out-of-band transfer to the vendor.
type ActivationCodeResponse struct {
	ActivationCode string    `json:"activation_code"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// VerdictResponse wraps a verification verdict for the UI.
type VerdictResponse struct {
	*license.Verdict
	CheckedAt time.Time `json:"checked_at"`
}

// PublicKeyResponse exposes the verifier public key in PEM form.
type PublicKeyResponse struct {
	PublicKeyPEM string `json:"public_key_pem"`
}

func (req *ActivationCodeRequest) Bind(r *http.Request) error { return nil }
func (req *ApplyRequest) Bind(r *http.Request) error          { return nil }
func (req *StatusRequest) Bind(r *http.Request) error         { return nil }

// Routes returns a chi router for the license endpoints.
func (h *LicenseHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/activation-code", h.ActivationCode)
	r.Post("/apply", h.Apply)
	r.Post("/status", h.Status)
	r.Get("/public-key", h.PublicKey)

	return r
}

// ActivationCode handles POST /api/license/activation-code.
func (h *LicenseHandler) ActivationCode(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("license-handler").Start(r.Context(), "license_handler.activation_code",
		trace.WithAttributes(attribute.String("http.route", "/api/license/activation-code")))
	defer span.End()

	var req ActivationCodeRequest
	if !h.bind(w, r.WithContext(ctx), &req) {
		return
	}

	code, err := h.service.ActivationCode(ctx, req.PIB)
	if err != nil {
		span.RecordError(err)
		h.handleError(w, r.WithContext(ctx), err)
		return
	}

	render.JSON(w, r, ActivationCodeResponse{
		ActivationCode: code,
		GeneratedAt:    time.Now().UTC(),
	})
}

// Apply handles POST /api/license/apply.
func (h *LicenseHandler) Apply(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("license-handler").Start(r.Context(), "license_handler.apply",
		trace.WithAttributes(attribute.String("http.route", "/api/license/apply")))
	defer span.End()

	var req ApplyRequest
	if !h.bind(w, r.WithContext(ctx), &req) {
		return
	}

	verdict, err := h.service.Apply(ctx, req.PIB, req.License)
	if err != nil {
		span.RecordError(err)
		h.handleError(w, r.WithContext(ctx), err)
		return
	}

	span.SetAttributes(attribute.Bool("license.is_valid", verdict.IsValid))
	render.JSON(w, r, VerdictResponse{Verdict: verdict, CheckedAt: time.Now().UTC()})
}

// Status handles POST /api/license/status. The identifier hash is
// recomputed from the request on every check rather than trusted from
// storage.
func (h *LicenseHandler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("license-handler").Start(r.Context(), "license_handler.status",
		trace.WithAttributes(attribute.String("http.route", "/api/license/status")))
	defer span.End()

	var req StatusRequest
	if !h.bind(w, r.WithContext(ctx), &req) {
		return
	}

	verdict, err := h.service.Status(ctx, req.PIB)
	if err != nil {
		span.RecordError(err)
		h.handleError(w, r.WithContext(ctx), err)
		return
	}

	span.SetAttributes(attribute.Bool("license.is_valid", verdict.IsValid))
	render.JSON(w, r, VerdictResponse{Verdict: verdict, CheckedAt: time.Now().UTC()})
}

// PublicKey handles GET /api/license/public-key.
func (h *LicenseHandler) PublicKey(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, PublicKeyResponse{PublicKeyPEM: h.service.PublicKeyPEM()})
}

// bind decodes and validates a request body, rendering a 400 on failure.
func (h *LicenseHandler) bind(w http.ResponseWriter, r *http.Request, req render.Binder) bool {
	ctx := r.Context()

	if err := render.Bind(r, req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode request",
			slog.String("request_id", infrastructure.GetRequestID(ctx)),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.InvalidRequestWithError(err))
		return false
	}

	if err := h.validate.Struct(req); err != nil {
		h.logger.WarnContext(ctx, "request validation failed",
			slog.String("request_id", infrastructure.GetRequestID(ctx)),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error()))
		return false
	}

	return true
}

// handleError maps service errors onto the API error vocabulary.
func (h *LicenseHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var apiErr *apierrors.APIError
	switch {
	case stderrors.Is(err, services.ErrNotActivated):
		apiErr = apierrors.ErrNotActivated
	case isLicenseArtifactError(err):
		apiErr = apierrors.InvalidLicenseArtifact(err)
	default:
		h.logger.ErrorContext(ctx, "license request failed",
			slog.String("request_id", infrastructure.GetRequestID(ctx)),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		apiErr = apierrors.ErrInternalServer
	}

	render.Render(w, r, apiErr)
}

// isLicenseArtifactError reports whether err is one of the fatal
// verification errors, as opposed to an infrastructure failure.
func isLicenseArtifactError(err error) bool {
	return stderrors.Is(err, license.ErrMalformedEncoding) ||
		stderrors.Is(err, license.ErrInvalidPayload) ||
		stderrors.Is(err, license.ErrSignatureInvalid) ||
		stderrors.Is(err, license.ErrUnsupportedKeyFormat) ||
		stderrors.Is(err, license.ErrInvalidActivationCode)
}

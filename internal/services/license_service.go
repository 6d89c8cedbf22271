// Package services provides the business layer between the HTTP
// transport and the license core.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"pausaler/internal/infrastructure"
	"pausaler/internal/license"
)

// ErrNotActivated is returned by Status when no license string has been
// applied on this installation yet.
var ErrNotActivated = errors.New("no license applied")

// LicenseService exposes the license subsystem to the local API consumed
// by the desktop UI.
type LicenseService interface {
	// ActivationCode hashes the plaintext PIB and generates a fresh
	// activation code for out-of-band transfer to the vendor.
	ActivationCode(ctx context.Context, pib string) (string, error)
	// Apply verifies a license string against the PIB and, when valid,
	// persists it as this installation's license.
	Apply(ctx context.Context, pib, licenseStr string) (*license.Verdict, error)
	// Status re-verifies the persisted license string. The identifier
	// hash is always recomputed from the plaintext PIB, never read from
	// storage.
	Status(ctx context.Context, pib string) (*license.Verdict, error)
	// PublicKeyPEM returns the embedded verifier public key.
	PublicKeyPEM() string
}

type licenseService struct {
	publicKeyPEM string
	licenseFile  string
	logger       *slog.Logger
	metrics      *infrastructure.LicenseMetrics
	now          func() time.Time

	// mu guards license file writes; verification itself is stateless
	// and safe for concurrent use.
	mu sync.Mutex
}

// NewLicenseService creates the license service. The public key is
// loaded once at startup and passed in here; there is no lazy global.
// A nil metrics falls back to the global (no-op by default) meter.
func NewLicenseService(publicKeyPEM, licenseFile string, logger *slog.Logger, metrics *infrastructure.LicenseMetrics) LicenseService {
	if metrics == nil {
		metrics, _ = infrastructure.NewLicenseMetrics(otel.Meter(infrastructure.MeterName))
	}
	return &licenseService{
		publicKeyPEM: publicKeyPEM,
		licenseFile:  licenseFile,
		logger:       logger.With(slog.String("service", "license")),
		metrics:      metrics,
		now:          time.Now,
	}
}

func (s *licenseService) ActivationCode(ctx context.Context, pib string) (string, error) {
	code, err := license.GenerateActivationCode(license.HashPIB(pib), license.AppID, s.now().Unix())
	if err != nil {
		s.logger.ErrorContext(ctx, "activation code generation failed",
			slog.String("error", err.Error()))
		return "", fmt.Errorf("generate activation code: %w", err)
	}

	s.count(ctx, s.metrics.ActivationCodes, "ok")
	s.logger.InfoContext(ctx, "activation code generated")
	return code, nil
}

func (s *licenseService) Apply(ctx context.Context, pib, licenseStr string) (*license.Verdict, error) {
	verdict, err := license.VerifyPIB(licenseStr, pib, s.publicKeyPEM, s.now().UTC())
	if err != nil {
		s.count(ctx, s.metrics.LicensesApplied, "fatal")
		s.logger.WarnContext(ctx, "license apply rejected",
			slog.String("error", err.Error()))
		return nil, err
	}

	if !verdict.IsValid {
		s.count(ctx, s.metrics.LicensesApplied, string(verdict.Reason))
		s.logger.InfoContext(ctx, "license apply refused",
			slog.String("reason", string(verdict.Reason)))
		return verdict, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.licenseFile, []byte(licenseStr), 0o600); err != nil {
		s.count(ctx, s.metrics.LicensesApplied, "store_error")
		return nil, fmt.Errorf("store license file: %w", err)
	}

	s.count(ctx, s.metrics.LicensesApplied, "valid")
	s.logger.InfoContext(ctx, "license applied",
		slog.String("license_type", verdict.LicenseType),
		slog.String("valid_until", verdict.ValidUntil))
	return verdict, nil
}

func (s *licenseService) Status(ctx context.Context, pib string) (*license.Verdict, error) {
	data, err := os.ReadFile(s.licenseFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotActivated
		}
		return nil, fmt.Errorf("read license file: %w", err)
	}

	verdict, err := license.VerifyPIB(string(data), pib, s.publicKeyPEM, s.now().UTC())
	if err != nil {
		s.count(ctx, s.metrics.Verifications, "fatal")
		s.logger.WarnContext(ctx, "stored license failed verification",
			slog.String("error", err.Error()))
		return nil, err
	}

	outcome := "valid"
	if !verdict.IsValid {
		outcome = string(verdict.Reason)
	}
	s.count(ctx, s.metrics.Verifications, outcome)
	s.logger.InfoContext(ctx, "license status checked",
		slog.Bool("is_valid", verdict.IsValid),
		slog.String("reason", string(verdict.Reason)))
	return verdict, nil
}

func (s *licenseService) PublicKeyPEM() string {
	return s.publicKeyPEM
}

func (s *licenseService) count(ctx context.Context, counter metric.Int64Counter, outcome string) {
	if counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

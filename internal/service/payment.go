package service

import (
	"context"

	"carloc-backend/internal/domain"
	"carloc-backend/internal/logger"

	"github.com/google/uuid"
)

// stubPaymentProvider stands in for the external capture service in dev and
// test environments. It charges exactly what was requested and hands back a
// synthetic reference.
type stubPaymentProvider struct{}

func NewStubPaymentProvider() PaymentProvider {
	return &stubPaymentProvider{}
}

func (p *stubPaymentProvider) Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	if req.AmountCents <= 0 {
		return nil, domain.Validationf("capture amount must be positive")
	}

	ref := "stub-" + uuid.NewString()
	logger.Debug("Stub payment captured", "reference", ref, "amount_cents", req.AmountCents)
	return &CaptureResult{
		Reference:    ref,
		ChargedCents: req.AmountCents,
	}, nil
}

package payment

import (
	"context"
	"errors"
	"strings"
	"time"

	listingRepo "imobil/database/repository/listing"
	"imobil/models"

	"go.uber.org/zap"
)

func (s *DefaultPaymentService) ConfirmByPolling(ctx context.Context, sessionID string) (*Confirmation, error) {
	if s.Gateway == nil {
		return nil, ErrNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.Gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		s.logger().Error("checkout session lookup failed", zap.String("sessionId", sessionID), zap.Error(err))
		return nil, gatewayError(err)
	}
	if session.PaymentStatus != StatusPaid {
		return nil, ErrNotPaid
	}

	// A client-triggered confirmation extends the window from now.
	return s.applySession(ctx, session, s.now())
}

func (s *DefaultPaymentService) ConfirmByWebhook(ctx context.Context, rawBody []byte, signatureHeader string) (*WebhookResult, error) {
	if s.Gateway == nil {
		return nil, ErrNotConfigured
	}

	event, err := s.Gateway.ParseWebhook(rawBody, signatureHeader)
	if err != nil {
		s.logger().Warn("webhook signature verification failed", zap.Error(err))
		return nil, ErrBadSignature.Wrap(err)
	}

	result := &WebhookResult{EventID: event.ID, EventType: event.Type}
	switch event.Type {
	case EventCheckoutCompleted, EventCheckoutAsyncPaymentSucceeded:
	default:
		s.logger().Debug("webhook event ignored", zap.String("eventId", event.ID), zap.String("type", event.Type))
		return result, nil
	}
	if event.Session == nil || event.Session.PaymentStatus != StatusPaid {
		s.logger().Info("checkout completed without payment yet",
			zap.String("eventId", event.ID), zap.String("type", event.Type))
		return result, nil
	}

	// Anchor on the session so a redelivered event writes the same window.
	if _, err := s.applySession(ctx, event.Session, event.Session.CreatedAt); err != nil {
		// Only store failures are worth a provider retry.
		if errors.Is(err, ErrStore) {
			return nil, err
		}
		s.logger().Warn("webhook event not applied",
			zap.String("eventId", event.ID), zap.String("sessionId", event.Session.ID), zap.Error(err))
		return result, nil
	}
	result.Applied = true
	return result, nil
}

// applySession writes the listing state a paid session stands for. Promotion
// sessions carry a plan; listing payments carry a payment type.
func (s *DefaultPaymentService) applySession(ctx context.Context, session *models.GatewaySession, anchor time.Time) (*Confirmation, error) {
	listingID, err := ResolveListingID(session.Metadata[MetaListingID])
	if err != nil {
		return nil, ErrBadMetadata
	}
	log := s.logger().With(zap.String("listingId", listingID.Hex()), zap.String("sessionId", session.ID))

	if planKey := session.Metadata[MetaPlan]; planKey != "" {
		plan, err := SelectPlan(planKey)
		if err != nil {
			return nil, ErrBadMetadata
		}
		until := anchor.Add(plan.Window()).UTC()
		if err := s.Listings.ApplyPromotion(ctx, listingID, models.Promotion{FeaturedUntil: until}); err != nil {
			return nil, s.storeError(log, "promotion", err)
		}
		log.Info("listing promoted", zap.String("plan", plan.Key), zap.Time("featuredUntil", until))
		s.scheduleExpiry(ctx, log, listingID.Hex(), until)
		return &Confirmation{ListingID: listingID.Hex(), Plan: plan.Key, FeaturedUntil: &until}, nil
	}

	paymentType := models.PaymentType(session.Metadata[MetaType])
	if !paymentType.Valid() {
		return nil, ErrBadMetadata
	}
	paymentID := session.PaymentIntentID
	if paymentID == "" {
		paymentID = session.ID
	}
	record := models.PaymentRecord{
		PaymentID:   paymentID,
		PayerEmail:  session.CustomerEmail,
		PaymentType: paymentType,
		Amount:      MajorUnits(session.AmountTotal, session.Currency),
		Currency:    session.Currency,
		PaidAt:      session.CreatedAt.UTC(),
	}
	if err := s.Listings.MarkPaid(ctx, listingID, record); err != nil {
		return nil, s.storeError(log, "payment", err)
	}
	log.Info("listing marked paid", zap.String("type", string(paymentType)), zap.String("paymentId", paymentID))
	return &Confirmation{ListingID: listingID.Hex(), PaymentType: paymentType}, nil
}

func (s *DefaultPaymentService) storeError(log *zap.Logger, op string, err error) error {
	if errors.Is(err, listingRepo.ErrNotFound) {
		return ErrListingNotFound
	}
	log.Error("failed to record "+op, zap.Error(err))
	return ErrStore.Wrap(err)
}

// scheduleExpiry never fails the confirmation; the expiry job is best effort.
func (s *DefaultPaymentService) scheduleExpiry(ctx context.Context, log *zap.Logger, listingID string, until time.Time) {
	if s.Scheduler == nil {
		return
	}
	if err := s.Scheduler.SchedulePromotionExpiry(ctx, listingID, until); err != nil {
		log.Warn("failed to schedule promotion expiry", zap.Time("featuredUntil", until), zap.Error(err))
	}
}

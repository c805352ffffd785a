package payment

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"imobil/models"
	listingSvc "imobil/services/listing"
	"imobil/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ResolveListingID accepts a bare id or a slug whose last "-" segment is the id.
func ResolveListingID(ref string) (primitive.ObjectID, error) {
	id, ok := listingSvc.ResolveID(ref)
	if !ok {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

func (s *DefaultPaymentService) CreateCheckout(ctx context.Context, requesterID, listingRef, planKey string) (*models.CheckoutSession, error) {
	if s.Gateway == nil {
		return nil, ErrNotConfigured
	}
	listing, err := s.loadListing(ctx, listingRef)
	if err != nil {
		return nil, err
	}
	if requesterID != "" && listing.Owner.Hex() != requesterID {
		return nil, ErrForbidden
	}
	plan, err := SelectPlan(planKey)
	if err != nil {
		return nil, err
	}

	id := listing.ID.Hex()
	meta := map[string]string{MetaListingID: id, MetaPlan: plan.Key}
	session, err := s.Gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		Name:        plan.Label,
		Description: listing.Title,
		UnitAmount:  MinorUnits(plan.Price, s.Currency),
		Currency:    s.Currency,
		Metadata:    meta,
		SuccessURL:  s.successURL(),
		CancelURL:   s.listingURL(id),
	})
	if err != nil {
		s.logger().Error("checkout session creation failed",
			zap.String("listingId", id), zap.String("plan", plan.Key), zap.Error(err))
		return nil, gatewayError(err)
	}

	s.logger().Info("promotion checkout created",
		zap.String("listingId", id), zap.String("plan", plan.Key), zap.String("sessionId", session.ID))
	return session, nil
}

func (s *DefaultPaymentService) CreatePaymentCheckout(ctx context.Context, listingRef string, paymentType models.PaymentType) (*models.CheckoutSession, error) {
	if s.Gateway == nil {
		return nil, ErrNotConfigured
	}
	if !paymentType.Valid() {
		return nil, ErrInvalidType
	}
	listing, err := s.loadListing(ctx, listingRef)
	if err != nil {
		return nil, err
	}
	if listing.IsPaid {
		return nil, ErrAlreadyPaid
	}

	amount := listing.Price
	label := "Full payment"
	if paymentType == models.PaymentTypeReservation {
		amount = listing.Price * s.ReservationPercent / 100
		label = fmt.Sprintf("Reservation (%g%%)", s.ReservationPercent)
	}
	minor := MinorUnits(amount, s.Currency)
	if minor <= 0 {
		return nil, utils.NewError(utils.KindValidation, "invalid_amount", "The listing has no payable amount")
	}

	id := listing.ID.Hex()
	meta := map[string]string{MetaListingID: id, MetaType: string(paymentType)}
	session, err := s.Gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		Name:        label + ": " + listing.Title,
		Description: listing.Description,
		UnitAmount:  minor,
		Currency:    s.Currency,
		Metadata:    meta,
		SuccessURL:  s.successURL(),
		CancelURL:   s.listingURL(id),
	})
	if err != nil {
		s.logger().Error("checkout session creation failed",
			zap.String("listingId", id), zap.String("type", string(paymentType)), zap.Error(err))
		return nil, gatewayError(err)
	}
	return session, nil
}

func (s *DefaultPaymentService) loadListing(ctx context.Context, ref string) (*models.Listing, error) {
	id, err := ResolveListingID(ref)
	if err != nil {
		return nil, err
	}
	listing, err := s.Listings.GetByID(ctx, id)
	if err != nil {
		s.logger().Error("listing lookup failed", zap.String("listingId", id.Hex()), zap.Error(err))
		return nil, ErrStore.Wrap(err)
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

func (s *DefaultPaymentService) successURL() string {
	return strings.TrimRight(s.FrontendURL, "/") + "/payment/success?session_id={CHECKOUT_SESSION_ID}"
}

func (s *DefaultPaymentService) listingURL(id string) string {
	return strings.TrimRight(s.FrontendURL, "/") + "/listing/" + id
}

// gatewayError translates a provider failure; timeouts are flagged retryable.
func gatewayError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return ErrGateway.AsRetryable().Wrap(err)
	}
	return ErrGateway.Wrap(err)
}

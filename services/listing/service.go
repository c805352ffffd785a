package listing

import (
	"context"
	"errors"
	"strings"

	listingRepo "imobil/database/repository/listing"
	"imobil/models"
	"imobil/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	ErrInvalidID = utils.NewError(utils.KindValidation, "invalid_listing_id", "Invalid listing id")
	ErrNotFound  = utils.NewError(utils.KindNotFound, "listing_not_found", "Listing not found")
	ErrForbidden = utils.NewError(utils.KindForbidden, "forbidden", "Only the listing owner can do this")
	ErrStore     = utils.NewError(utils.KindUpstream, "store_unavailable", "Service temporarily unavailable. Please retry.")
)

// ResolveID accepts a bare id or a slug whose last "-" segment is the id.
func ResolveID(ref string) (primitive.ObjectID, bool) {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndex(ref, "-"); i >= 0 {
		ref = ref[i+1:]
	}
	id, err := primitive.ObjectIDFromHex(ref)
	return id, err == nil
}

type ListingService interface {
	Create(ctx context.Context, ownerID string, in models.ListingInput) (*models.Listing, error)
	Get(ctx context.Context, ref string) (*models.Listing, error)
	Delete(ctx context.Context, requesterID, ref string) error
}

// DefaultListingService covers listing ownership. Featured and payment fields
// are never taken from client input.
type DefaultListingService struct {
	Repo   listingRepo.ListingRepository
	Logger *zap.Logger
}

func (s *DefaultListingService) Create(ctx context.Context, ownerID string, in models.ListingInput) (*models.Listing, error) {
	owner, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, utils.NewError(utils.KindUnauthorized, "invalid_token", "Invalid session")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Price <= 0 {
		return nil, utils.NewError(utils.KindValidation, "invalid_input", "A title and a positive price are required")
	}

	l := &models.Listing{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price,
		Category:    strings.TrimSpace(in.Category),
		Images:      in.Images,
		Owner:       owner,
		FreeTier:    true,
	}
	if l.Images == nil {
		l.Images = []string{}
	}
	if err := s.Repo.Create(ctx, l); err != nil {
		s.Logger.Error("failed to create listing", zap.String("owner", ownerID), zap.Error(err))
		return nil, ErrStore.Wrap(err)
	}
	return l, nil
}

func (s *DefaultListingService) Get(ctx context.Context, ref string) (*models.Listing, error) {
	id, ok := ResolveID(ref)
	if !ok {
		return nil, ErrInvalidID
	}
	l, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		s.Logger.Error("failed to fetch listing", zap.String("listingId", id.Hex()), zap.Error(err))
		return nil, ErrStore.Wrap(err)
	}
	if l == nil {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *DefaultListingService) Delete(ctx context.Context, requesterID, ref string) error {
	l, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if l.Owner.Hex() != requesterID {
		return ErrForbidden
	}
	if err := s.Repo.Delete(ctx, l.ID); err != nil {
		if errors.Is(err, listingRepo.ErrNotFound) {
			return ErrNotFound
		}
		s.Logger.Error("failed to delete listing", zap.String("listingId", l.ID.Hex()), zap.Error(err))
		return ErrStore.Wrap(err)
	}
	s.Logger.Info("listing deleted", zap.String("listingId", l.ID.Hex()), zap.String("owner", requesterID))
	return nil
}

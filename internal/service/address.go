package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AddressService struct {
	Repo *repo.GormRepo
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	return s.Repo.ListAddresses(ctx, userID)
}

func (s *AddressService) Create(ctx context.Context, userID uuid.UUID, req transport.AddressRequest) (*models.Address, error) {
	postal := models.PostalAddress{
		FullName: strings.TrimSpace(req.FullName),
		Street:   strings.TrimSpace(req.Street),
		City:     strings.TrimSpace(req.City),
		State:    strings.TrimSpace(req.State),
		ZipCode:  strings.TrimSpace(req.ZipCode),
		Country:  strings.TrimSpace(req.Country),
		Phone:    strings.TrimSpace(req.Phone),
	}
	for _, v := range []string{postal.FullName, postal.Street, postal.City, postal.State, postal.ZipCode, postal.Country, postal.Phone} {
		if v == "" {
			return nil, fmt.Errorf("all address fields are required: %w", ErrValidation)
		}
	}

	addr := &models.Address{UserID: userID, PostalAddress: postal, IsDefault: req.IsDefault}
	if err := s.Repo.CreateAddress(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *AddressService) Update(ctx context.Context, userID, id uuid.UUID, req transport.PatchAddressRequest) (*models.Address, error) {
	for _, v := range []*string{req.FullName, req.Street, req.City, req.State, req.ZipCode, req.Country, req.Phone} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, fmt.Errorf("address fields cannot be blank: %w", ErrValidation)
		}
	}
	addr, err := s.Repo.UpdateAddress(ctx, id, userID, req)
	return addr, storeErr(err, "address")
}

func (s *AddressService) SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	addr, err := s.Repo.SetDefault(ctx, id, userID)
	return addr, storeErr(err, "address")
}

func (s *AddressService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return storeErr(s.Repo.DeleteAddress(ctx, id, userID), "address")
}

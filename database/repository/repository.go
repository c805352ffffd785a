package repository

import (
	accountRepo "imobil/database/repository/account"
	listingRepo "imobil/database/repository/listing"
)

// Re-export the AccountRepository interface and constructor.
type AccountRepository = accountRepo.AccountRepository

var NewMongoAccountRepo = accountRepo.NewMongoAccountRepo

// Re-export the ListingRepository interface and constructor.
type ListingRepository = listingRepo.ListingRepository

var NewMongoListingRepo = listingRepo.NewMongoListingRepo

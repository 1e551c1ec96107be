// Package memstore is an in-memory repository.Repository enforcing the same
// unique constraints as the postgres schema. It backs engine tests.
package memstore

import (
	"sync"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

type pairKey struct {
	a, b string
}

type listingKey struct {
	section models.Section
	id      string
}

type listingReportKey struct {
	reporter string
	listing  listingKey
}

// Store holds every table in maps guarded by one mutex.
type Store struct {
	mu sync.RWMutex

	users          map[string]*models.User
	usersByTG      map[int64]string
	moderators     map[string]*models.Moderator
	profiles       map[string]*models.Profile
	profilesByUser map[string]string
	swipes         map[pairKey]*models.Swipe
	matches        map[pairKey]*models.Match
	listings       map[listingKey]interface{}
	userReports    map[string]*models.UserReport
	userReportPair map[pairKey]string
	listingReports map[string]*models.ListingReport
	listingPair    map[listingReportKey]string

	// FailCreateMatch makes CreateMatch return the error, for exercising insert failures.
	FailCreateMatch error
}

var _ repository.Repository = (*Store)(nil)

func New() *Store {
	return &Store{
		users:          map[string]*models.User{},
		usersByTG:      map[int64]string{},
		moderators:     map[string]*models.Moderator{},
		profiles:       map[string]*models.Profile{},
		profilesByUser: map[string]string{},
		swipes:         map[pairKey]*models.Swipe{},
		matches:        map[pairKey]*models.Match{},
		listings:       map[listingKey]interface{}{},
		userReports:    map[string]*models.UserReport{},
		userReportPair: map[pairKey]string{},
		listingReports: map[string]*models.ListingReport{},
		listingPair:    map[listingReportKey]string{},
	}
}

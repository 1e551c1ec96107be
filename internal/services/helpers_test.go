package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"tg-miniapp-backend/internal/events"
	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
	"tg-miniapp-backend/internal/repository/memstore"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) ofType(t events.Type) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func nullLogger() *logrus.Logger {
	log, _ := test.NewNullLogger()
	return log
}

func mustMakeUser(t *testing.T, repo repository.Repository) *models.User {
	t.Helper()
	u, err := repo.UpsertTelegramUser(context.Background(), repository.UpsertTelegramUserArgs{
		TelegramID: rand.Int63(),
		FirstName:  "user",
	})
	require.NoError(t, err)
	return u
}

func mustMakeProfile(t *testing.T, repo repository.Repository, userID string) *models.Profile {
	t.Helper()
	p, err := repo.SaveProfile(context.Background(), repository.SaveProfileArgs{
		UserID:      userID,
		DisplayName: "profile",
		Age:         30,
		Gender:      "male",
		LookingFor:  "female",
	})
	require.NoError(t, err)
	return p
}

func mustMakeListing(t *testing.T, repo repository.Repository, section models.Section, ownerID string) *models.ListingBase {
	t.Helper()
	row, err := repo.CreateListing(context.Background(), repository.CreateListingArgs{
		Section:    section,
		Base:       models.ListingBase{OwnerID: ownerID, Title: "title", Description: "description"},
		Attributes: models.ListingAttributes{Category: "misc", RentalType: "rent", Employment: "full_time"},
	})
	require.NoError(t, err)
	return models.ListingFromRow(row)
}

func newStore() *memstore.Store {
	return memstore.New()
}

package gorm

import (
	"context"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tg-miniapp-backend/internal/migration"
	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

var testRepo *Repository

// TestMain connects to TEST_DATABASE_URL. Without it every test in the package is skipped.
func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	engine, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		panic(err)
	}
	if err := migration.DropAll(engine); err != nil {
		panic(err)
	}
	if err := migration.Migrate(engine); err != nil {
		panic(err)
	}
	testRepo = NewGormRepository(engine)

	code := m.Run()

	db, _ := engine.DB()
	_ = db.Close()
	os.Exit(code)
}

func setup(t *testing.T) (*Repository, *assert.Assertions, *require.Assertions) {
	t.Helper()
	if testRepo == nil {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	return testRepo, assert.New(t), require.New(t)
}

func mustMakeUser(t *testing.T, repo *Repository) *models.User {
	t.Helper()
	u, err := repo.UpsertTelegramUser(context.Background(), repository.UpsertTelegramUserArgs{
		TelegramID: rand.Int63(),
		FirstName:  "test",
	})
	require.NoError(t, err)
	return u
}

func mustMakeProfile(t *testing.T, repo *Repository, userID string) *models.Profile {
	t.Helper()
	p, err := repo.SaveProfile(context.Background(), repository.SaveProfileArgs{
		UserID:      userID,
		DisplayName: "test",
		Age:         25,
		Gender:      "female",
		LookingFor:  "male",
	})
	require.NoError(t, err)
	return p
}

func mustMakeListing(t *testing.T, repo *Repository, ownerID string) *models.ListingBase {
	t.Helper()
	row, err := repo.CreateListing(context.Background(), repository.CreateListingArgs{
		Section:    models.SectionMarket,
		Base:       models.ListingBase{OwnerID: ownerID, Title: "bike", Description: "red bike"},
		Attributes: models.ListingAttributes{Category: "sport"},
	})
	require.NoError(t, err)
	return models.ListingFromRow(row)
}

func TestRepository_UpsertTelegramUser(t *testing.T) {
	t.Parallel()
	repo, assert, require := setup(t)
	ctx := context.Background()

	tgID := rand.Int63()
	first, err := repo.UpsertTelegramUser(ctx, repository.UpsertTelegramUserArgs{TelegramID: tgID, FirstName: "a"})
	require.NoError(err)
	second, err := repo.UpsertTelegramUser(ctx, repository.UpsertTelegramUserArgs{TelegramID: tgID, FirstName: "b"})
	require.NoError(err)

	assert.Equal(first.ID, second.ID)
	assert.Equal("b", second.FirstName)
	assert.Equal(models.UserStatusActive, second.Status)
}

func TestRepository_SetUserStatus(t *testing.T) {
	t.Parallel()
	repo, assert, require := setup(t)
	ctx := context.Background()
	u := mustMakeUser(t, repo)

	changed, err := repo.SetUserStatus(ctx, u.ID, models.UserStatusBanned)
	require.NoError(err)
	assert.True(changed)

	changed, err = repo.SetUserStatus(ctx, u.ID, models.UserStatusBanned)
	require.NoError(err)
	assert.False(changed)

	_, err = repo.SetUserStatus(ctx, "00000000-0000-0000-0000-000000000000", models.UserStatusBanned)
	assert.ErrorIs(err, repository.ErrNotFound)
}

func TestRepository_UpsertSwipe(t *testing.T) {
	t.Parallel()
	repo, assert, require := setup(t)
	ctx := context.Background()
	a := mustMakeUser(t, repo)
	b := mustMakeUser(t, repo)
	pb := mustMakeProfile(t, repo, b.ID)

	first, err := repo.UpsertSwipe(ctx, a.ID, pb.ID, models.DecisionDislike)
	require.NoError(err)
	second, err := repo.UpsertSwipe(ctx, a.ID, pb.ID, models.DecisionLike)
	require.NoError(err)

	assert.Equal(first.ID, second.ID)
	assert.Equal(models.DecisionLike, second.Decision)

	feed, err := repo.GetFeedProfiles(ctx, a.ID, 50)
	require.NoError(err)
	for _, p := range feed {
		assert.NotEqual(pb.ID, p.ID)
	}
}

func TestRepository_CreateMatch(t *testing.T) {
	t.Parallel()
	repo, assert, require := setup(t)
	ctx := context.Background()
	a := mustMakeUser(t, repo)
	b := mustMakeUser(t, repo)

	m, err := repo.CreateMatch(ctx, b.ID, a.ID)
	require.NoError(err)
	u1, u2 := models.CanonicalPair(a.ID, b.ID)
	assert.Equal(u1, m.User1ID)
	assert.Equal(u2, m.User2ID)

	_, err = repo.CreateMatch(ctx, a.ID, b.ID)
	assert.ErrorIs(err, repository.ErrAlreadyExists)

	got, err := repo.GetMatch(ctx, b.ID, a.ID)
	require.NoError(err)
	assert.Equal(m.ID, got.ID)
}

func TestRepository_SetListingStatus(t *testing.T) {
	t.Parallel()
	repo, assert, require := setup(t)
	ctx := context.Background()
	l := mustMakeListing(t, repo, mustMakeUser(t, repo).ID)

	changed, err := repo.SetListingStatus(ctx, models.SectionMarket, l.ID, models.ListingStatusArchived)
	require.NoError(err)
	assert.True(changed)

	changed, err = repo.SetListingStatus(ctx, models.SectionMarket, l.ID, models.ListingStatusArchived)
	require.NoError(err)
	assert.False(changed)

	_, err = repo.SetListingStatus(ctx, models.SectionHousing, l.ID, models.ListingStatusArchived)
	assert.ErrorIs(err, repository.ErrNotFound)

	base, err := repo.GetListingBase(ctx, models.SectionMarket, l.ID)
	require.NoError(err)
	assert.True(base.IsArchived())
}

func TestRepository_Reports(t *testing.T) {
	t.Parallel()
	repo, assert, require := setup(t)
	ctx := context.Background()
	reporter := mustMakeUser(t, repo)
	l := mustMakeListing(t, repo, mustMakeUser(t, repo).ID)
	target := models.ListingTarget(models.SectionMarket, l.ID)

	id, err := repo.CreateReport(ctx, repository.CreateReportArgs{ReporterID: reporter.ID, Target: target, Reason: models.ReasonScam})
	require.NoError(err)

	_, err = repo.CreateReport(ctx, repository.CreateReportArgs{ReporterID: reporter.ID, Target: target, Reason: models.ReasonSpam})
	assert.ErrorIs(err, repository.ErrAlreadyExists)

	ok, err := repo.ReportExists(ctx, reporter.ID, target)
	require.NoError(err)
	assert.True(ok)

	n, err := repo.CountOpenReports(ctx, target)
	require.NoError(err)
	assert.EqualValues(1, n)

	note := "checked"
	changed, err := repo.ResolveReport(ctx, models.TargetListing, id, reporter.ID, &note, l.CreatedAt)
	require.NoError(err)
	assert.True(changed)
	changed, err = repo.ResolveReport(ctx, models.TargetListing, id, reporter.ID, nil, l.CreatedAt)
	require.NoError(err)
	assert.False(changed)

	n, err = repo.CountOpenReports(ctx, target)
	require.NoError(err)
	assert.EqualValues(0, n)

	view, err := repo.GetReport(ctx, models.TargetListing, id)
	require.NoError(err)
	assert.Equal(models.ReportStatusResolved, view.Status)
	if assert.NotNil(view.ModeratorNote) {
		assert.Equal("checked", *view.ModeratorNote)
	}
}

package memstore

import (
	"context"
	"sort"
	"time"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
)

func cloneListing(row interface{}) interface{} {
	switch l := row.(type) {
	case *models.MarketListing:
		c := *l
		return &c
	case *models.HousingListing:
		c := *l
		return &c
	case *models.JobListing:
		c := *l
		return &c
	}
	return nil
}

func (s *Store) CreateListing(_ context.Context, args repository.CreateListingArgs) (interface{}, error) {
	row, err := models.NewListing(args.Section, args.Base, args.Attributes)
	if err != nil {
		return nil, err
	}
	base := models.ListingFromRow(row)
	now := time.Now()
	base.CreatedAt, base.UpdatedAt = now, now

	s.mu.Lock()
	defer s.mu.Unlock()
	key := listingKey{args.Section, base.ID}
	if _, ok := s.listings[key]; ok {
		return nil, repository.ErrAlreadyExists
	}
	s.listings[key] = row
	return cloneListing(row), nil
}

func (s *Store) GetListing(_ context.Context, section models.Section, id string) (interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.listings[listingKey{section, id}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneListing(row), nil
}

func (s *Store) GetListingBase(_ context.Context, section models.Section, id string) (*models.ListingBase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.listings[listingKey{section, id}]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *models.ListingFromRow(row)
	return &c, nil
}

func (s *Store) GetActiveListings(_ context.Context, section models.Section, offset, limit int) ([]interface{}, int64, error) {
	if !section.Valid() {
		return nil, 0, repository.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []interface{}
	for key, row := range s.listings {
		if key.section == section && !models.ListingFromRow(row).IsArchived() {
			rows = append(rows, cloneListing(row))
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return models.ListingFromRow(rows[i]).CreatedAt.After(models.ListingFromRow(rows[j]).CreatedAt)
	})

	total := int64(len(rows))
	if offset >= len(rows) {
		return []interface{}{}, total, nil
	}
	rows = rows[offset:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, total, nil
}

func (s *Store) SetListingStatus(_ context.Context, section models.Section, id string, status models.ListingStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.listings[listingKey{section, id}]
	if !ok {
		return false, repository.ErrNotFound
	}
	base := models.ListingFromRow(row)
	if base.Status == status {
		return false, nil
	}
	base.Status = status
	base.UpdatedAt = time.Now()
	return true, nil
}

func (s *Store) CountListingsByStatus(_ context.Context, status models.ListingStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, row := range s.listings {
		if models.ListingFromRow(row).Status == status {
			n++
		}
	}
	return n, nil
}

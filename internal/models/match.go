package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Decision string

const (
	DecisionLike    Decision = "like"
	DecisionDislike Decision = "dislike"
)

func (d Decision) Valid() bool {
	return d == DecisionLike || d == DecisionDislike
}

// Swipe is a directed decision from a user toward a profile. Unique per (FromUserID, ToProfileID).
type Swipe struct {
	ID          string    `json:"id" gorm:"type:uuid;primaryKey"`
	FromUserID  string    `json:"from_user_id" gorm:"type:uuid;not null;uniqueIndex:idx_swipes_pair"`
	ToProfileID string    `json:"to_profile_id" gorm:"type:uuid;not null;uniqueIndex:idx_swipes_pair;index"`
	Decision    Decision  `json:"decision" gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Swipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Match is an undirected pair stored once with User1ID < User2ID.
type Match struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	User1ID        string    `json:"user1_id" gorm:"type:uuid;not null;uniqueIndex:idx_matches_pair"`
	User2ID        string    `json:"user2_id" gorm:"type:uuid;not null;uniqueIndex:idx_matches_pair;index"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

func (m *Match) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (m *Match) HasUser(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherUserID returns the counterpart of userID in the pair.
func (m *Match) OtherUserID(userID string) (string, bool) {
	switch userID {
	case m.User1ID:
		return m.User2ID, true
	case m.User2ID:
		return m.User1ID, true
	}
	return "", false
}

// CanonicalPair orders two user ids so that an unordered pair has one representation.
func CanonicalPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

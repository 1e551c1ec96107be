package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
	"tg-miniapp-backend/internal/services"
)

// Swiper records swipe decisions.
type Swiper interface {
	RecordSwipe(ctx context.Context, args services.SwipeArgs) (*services.SwipeResult, error)
}

// DatingStore is the storage behind profile, feed and match endpoints.
type DatingStore interface {
	repository.ProfileRepository
	repository.MatchRepository
}

type DatingHandler struct {
	repo   DatingStore
	swipes Swiper
	log    *logrus.Entry
}

type SaveProfileRequest struct {
	DisplayName string  `json:"display_name" binding:"required,max=64"`
	Age         int     `json:"age" binding:"required,min=18,max=99"`
	Gender      string  `json:"gender" binding:"required,oneof=male female other"`
	LookingFor  string  `json:"looking_for" binding:"required,oneof=male female any"`
	City        *string `json:"city,omitempty" binding:"omitempty,max=64"`
	Bio         *string `json:"bio,omitempty" binding:"omitempty,max=500"`
	PhotoURL    *string `json:"photo_url,omitempty" binding:"omitempty,url"`
}

type SwipeRequest struct {
	ProfileID string `json:"profile_id" binding:"required,uuid"`
	Decision  string `json:"decision" binding:"required,decision"`
}

type MatchResponse struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Profile        *models.Profile `json:"profile,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	LastActivityAt time.Time       `json:"last_activity_at"`
}

func NewDatingHandler(repo DatingStore, swipes Swiper, log *logrus.Logger) *DatingHandler {
	return &DatingHandler{
		repo:   repo,
		swipes: swipes,
		log:    log.WithField("handler", "dating"),
	}
}

func (h *DatingHandler) GetProfile(c *gin.Context) {
	profile, err := h.repo.GetProfileByUserID(c.Request.Context(), currentUserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, h.log, services.ErrProfileRequired)
			return
		}
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *DatingHandler) SaveProfile(c *gin.Context) {
	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.repo.SaveProfile(c.Request.Context(), repository.SaveProfileArgs{
		UserID:      currentUserID(c),
		DisplayName: req.DisplayName,
		Age:         req.Age,
		Gender:      req.Gender,
		LookingFor:  req.LookingFor,
		City:        req.City,
		Bio:         req.Bio,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *DatingHandler) ActivateProfile(c *gin.Context) {
	h.setActive(c, true)
}

func (h *DatingHandler) DeactivateProfile(c *gin.Context) {
	h.setActive(c, false)
}

func (h *DatingHandler) setActive(c *gin.Context, active bool) {
	profile, err := h.repo.SetProfileActive(c.Request.Context(), currentUserID(c), active, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, h.log, services.ErrProfileRequired)
			return
		}
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Feed lists profiles the user has not swiped on yet, most recently activated first.
func (h *DatingHandler) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	own, err := h.repo.GetProfileByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, h.log, services.ErrProfileRequired)
			return
		}
		respondError(c, h.log, err)
		return
	}
	if !own.IsActiveStatus() {
		respondError(c, h.log, services.ErrProfileNotActive)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 50 {
		limit = 20
	}

	profiles, err := h.repo.GetFeedProfiles(ctx, userID, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": profiles})
}

func (h *DatingHandler) Swipe(c *gin.Context) {
	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.swipes.RecordSwipe(c.Request.Context(), services.SwipeArgs{
		ActingUserID:    currentUserID(c),
		TargetProfileID: req.ProfileID,
		Decision:        models.Decision(req.Decision),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Matches lists the user's matches with the counterpart's profile when it still exists.
func (h *DatingHandler) Matches(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)

	matches, err := h.repo.GetMatchesByUserID(ctx, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := lo.Map(matches, func(m *models.Match, _ int) MatchResponse {
		other, _ := m.OtherUserID(userID)
		return MatchResponse{ID: m.ID, UserID: other, CreatedAt: m.CreatedAt, LastActivityAt: m.LastActivityAt}
	})
	for i := range resp {
		profile, err := h.repo.GetProfileByUserID(ctx, resp[i].UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			respondError(c, h.log, err)
			return
		}
		resp[i].Profile = profile
	}

	c.JSON(http.StatusOK, gin.H{"matches": resp})
}

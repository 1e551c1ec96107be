package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tg-miniapp-backend/internal/models"
	"tg-miniapp-backend/internal/repository"
	"tg-miniapp-backend/internal/services"
)

type ListingHandler struct {
	repo repository.ListingRepository
	log  *logrus.Entry
}

type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required,max=120"`
	Description string   `json:"description" binding:"required,max=4000"`
	Price       *int64   `json:"price,omitempty" binding:"omitempty,min=0"`
	Currency    *string  `json:"currency,omitempty" binding:"omitempty,len=3"`
	City        *string  `json:"city,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty" binding:"omitempty,latitude"`
	Longitude   *float64 `json:"longitude,omitempty" binding:"omitempty,longitude"`
	PhotoURL    *string  `json:"photo_url,omitempty" binding:"omitempty,url"`

	Category   string   `json:"category,omitempty"`
	Condition  *string  `json:"condition,omitempty" binding:"omitempty,oneof=new used"`
	RentalType string   `json:"rental_type,omitempty" binding:"omitempty,oneof=rent sale daily"`
	Rooms      *int     `json:"rooms,omitempty" binding:"omitempty,min=0"`
	AreaSqm    *float64 `json:"area_sqm,omitempty" binding:"omitempty,gt=0"`
	Company    *string  `json:"company,omitempty"`
	Employment string   `json:"employment,omitempty" binding:"omitempty,oneof=full_time part_time gig"`
	SalaryFrom *int64   `json:"salary_from,omitempty" binding:"omitempty,min=0"`
	SalaryTo   *int64   `json:"salary_to,omitempty" binding:"omitempty,min=0"`
}

type ListingListResponse struct {
	Listings []interface{} `json:"listings"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
}

func NewListingHandler(repo repository.ListingRepository, log *logrus.Logger) *ListingHandler {
	return &ListingHandler{repo: repo, log: log.WithField("handler", "listing")}
}

func (h *ListingHandler) Create(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	row, err := models.NewListing(section, models.ListingBase{
		OwnerID:     currentUserID(c),
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Currency:    req.Currency,
		City:        req.City,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		PhotoURL:    req.PhotoURL,
	}, req.attributes())
	if err != nil {
		respondError(c, h.log, services.InvalidRequest("%s", err.Error()))
		return
	}

	created, err := h.repo.CreateListing(c.Request.Context(), repository.CreateListingArgs{
		Section:    section,
		Base:       *models.ListingFromRow(row),
		Attributes: req.attributes(),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ListingHandler) List(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}
	page, limit := pagination(c, 20, 100)

	listings, total, err := h.repo.GetActiveListings(c.Request.Context(), section, (page-1)*limit, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ListingListResponse{Listings: listings, Total: total, Page: page, Limit: limit})
}

// Get returns an active listing. Archived listings are visible to their owner only.
func (h *ListingHandler) Get(c *gin.Context) {
	section, ok := sectionParam(c)
	if !ok {
		return
	}

	id, ok := idParam(c, h.log, "id", services.ErrListingNotFound)
	if !ok {
		return
	}

	row, err := h.repo.GetListing(c.Request.Context(), section, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondError(c, h.log, services.ErrListingNotFound)
			return
		}
		respondError(c, h.log, err)
		return
	}
	if base := models.ListingFromRow(row); base.IsArchived() && base.OwnerID != currentUserID(c) {
		respondError(c, h.log, services.ErrListingNotFound)
		return
	}
	c.JSON(http.StatusOK, row)
}

func (r *CreateListingRequest) attributes() models.ListingAttributes {
	return models.ListingAttributes{
		Category:   r.Category,
		Condition:  r.Condition,
		RentalType: r.RentalType,
		Rooms:      r.Rooms,
		AreaSqm:    r.AreaSqm,
		Company:    r.Company,
		Employment: r.Employment,
		SalaryFrom: r.SalaryFrom,
		SalaryTo:   r.SalaryTo,
	}
}

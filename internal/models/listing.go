package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Section string

const (
	SectionMarket  Section = "market"
	SectionHousing Section = "housing"
	SectionJobs    Section = "jobs"
)

var Sections = []Section{SectionMarket, SectionHousing, SectionJobs}

func (s Section) Valid() bool {
	switch s {
	case SectionMarket, SectionHousing, SectionJobs:
		return true
	}
	return false
}

// Table is the listings table backing the section.
func (s Section) Table() string {
	switch s {
	case SectionMarket:
		return "market_listings"
	case SectionHousing:
		return "housing_listings"
	case SectionJobs:
		return "job_listings"
	}
	return ""
}

type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusArchived ListingStatus = "archived"
)

// ListingBase holds the columns every section table shares.
type ListingBase struct {
	ID          string        `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID     string        `json:"owner_id" gorm:"type:uuid;not null;index"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description" gorm:"type:text;not null"`
	Price       *int64        `json:"price,omitempty"`
	Currency    *string       `json:"currency,omitempty" gorm:"type:varchar(3)"`
	City        *string       `json:"city,omitempty"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
	PhotoURL    *string       `json:"photo_url,omitempty"`
	Status      ListingStatus `json:"status" gorm:"type:varchar(16);not null;default:active;index"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (l *ListingBase) IsArchived() bool {
	return l.Status == ListingStatusArchived
}

type MarketListing struct {
	ListingBase `gorm:"embedded"`
	Category    string  `json:"category" gorm:"type:varchar(32);not null"`
	Condition   *string `json:"condition,omitempty" gorm:"type:varchar(16)"`
}

func (*MarketListing) TableName() string { return SectionMarket.Table() }

type HousingListing struct {
	ListingBase `gorm:"embedded"`
	RentalType  string   `json:"rental_type" gorm:"type:varchar(16);not null"` // rent, sale, daily
	Rooms       *int     `json:"rooms,omitempty"`
	AreaSqm     *float64 `json:"area_sqm,omitempty"`
}

func (*HousingListing) TableName() string { return SectionHousing.Table() }

type JobListing struct {
	ListingBase `gorm:"embedded"`
	Company     *string `json:"company,omitempty"`
	Employment  string  `json:"employment" gorm:"type:varchar(16);not null"` // full_time, part_time, gig
	SalaryFrom  *int64  `json:"salary_from,omitempty"`
	SalaryTo    *int64  `json:"salary_to,omitempty"`
}

func (*JobListing) TableName() string { return SectionJobs.Table() }

// ListingAttributes carries the section-specific fields of a new listing.
type ListingAttributes struct {
	Category   string
	Condition  *string
	RentalType string
	Rooms      *int
	AreaSqm    *float64
	Company    *string
	Employment string
	SalaryFrom *int64
	SalaryTo   *int64
}

// NewListing builds the section's concrete row from the shared columns and attributes.
func NewListing(section Section, base ListingBase, attrs ListingAttributes) (interface{}, error) {
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	base.Status = ListingStatusActive

	switch section {
	case SectionMarket:
		if attrs.Category == "" {
			return nil, fmt.Errorf("category is required for %s listings", section)
		}
		return &MarketListing{ListingBase: base, Category: attrs.Category, Condition: attrs.Condition}, nil
	case SectionHousing:
		if attrs.RentalType == "" {
			return nil, fmt.Errorf("rental_type is required for %s listings", section)
		}
		return &HousingListing{ListingBase: base, RentalType: attrs.RentalType, Rooms: attrs.Rooms, AreaSqm: attrs.AreaSqm}, nil
	case SectionJobs:
		if attrs.Employment == "" {
			return nil, fmt.Errorf("employment is required for %s listings", section)
		}
		return &JobListing{ListingBase: base, Company: attrs.Company, Employment: attrs.Employment, SalaryFrom: attrs.SalaryFrom, SalaryTo: attrs.SalaryTo}, nil
	}
	return nil, fmt.Errorf("unknown section %q", section)
}

// ListingFromRow extracts the shared columns from a concrete listing row.
func ListingFromRow(row interface{}) *ListingBase {
	switch l := row.(type) {
	case *MarketListing:
		return &l.ListingBase
	case *HousingListing:
		return &l.ListingBase
	case *JobListing:
		return &l.ListingBase
	}
	return nil
}

package models

import "fmt"

type TargetKind string

const (
	TargetUser    TargetKind = "user"
	TargetListing TargetKind = "listing"
)

func (k TargetKind) Valid() bool {
	return k == TargetUser || k == TargetListing
}

// Target identifies what a report or a moderator action is about: a user, or a listing in a section.
type Target struct {
	Kind    TargetKind
	ID      string
	Section Section
}

func UserTarget(id string) Target {
	return Target{Kind: TargetUser, ID: id}
}

func ListingTarget(section Section, id string) Target {
	return Target{Kind: TargetListing, ID: id, Section: section}
}

func (t Target) String() string {
	if t.Kind == TargetListing {
		return fmt.Sprintf("listing:%s:%s", t.Section, t.ID)
	}
	return fmt.Sprintf("user:%s", t.ID)
}

package models

import (
	"time"
)

type Chamber string

const (
	ChamberAssemblee Chamber = "assemblee"
	ChamberSenat     Chamber = "senat"
)

func (c Chamber) Valid() bool {
	return c == ChamberAssemblee || c == ChamberSenat
}

type PoliticalGroup struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Chamber       Chamber   `gorm:"size:16;not null;uniqueIndex:idx_group_slug_chamber" json:"chamber"`
	Slug          string    `gorm:"size:64;not null;uniqueIndex:idx_group_slug_chamber" json:"slug"`
	Name          string    `gorm:"not null" json:"name"`
	Color         string    `gorm:"size:16" json:"color"`
	PositionLabel string    `gorm:"size:32" json:"position_label"` // gauche, centre, droite...
	Rank          int       `gorm:"default:0" json:"rank"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Legislator is a deputy or a senator. Rows are never hard deleted, only deactivated.
type Legislator struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ExternalID   string          `gorm:"size:32;uniqueIndex;not null" json:"external_id"` // PA/senat matricule
	Chamber      Chamber         `gorm:"size:16;not null;index" json:"chamber"`
	FirstName    string          `gorm:"not null" json:"first_name"`
	LastName     string          `gorm:"not null;index" json:"last_name"`
	Active       bool            `gorm:"default:true;index" json:"active"`
	GroupID      *uint           `gorm:"index" json:"group_id"`
	Group        *PoliticalGroup `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"group,omitempty"`
	Constituency *string         `json:"constituency"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func (l Legislator) FullName() string {
	return l.FirstName + " " + l.LastName
}

type Intervention struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LegislatorID uint      `gorm:"not null;index" json:"legislator_id"`
	Date         time.Time `gorm:"index" json:"date"`
	Subject      string    `json:"subject"`
	CreatedAt    time.Time `json:"created_at"`
}

type Amendment struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LegislatorID uint      `gorm:"not null;index" json:"legislator_id"`
	Number       string    `gorm:"size:32" json:"number"`
	Adopted      bool      `gorm:"default:false" json:"adopted"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

// WrittenQuestion is a question au gouvernement filed by a legislator.
type WrittenQuestion struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	LegislatorID uint      `gorm:"not null;index" json:"legislator_id"`
	Ministry     string    `json:"ministry"`
	Subject      string    `json:"subject"`
	Date         time.Time `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
}

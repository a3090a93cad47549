// Package leads records who asked for an audit. Records are append-only.
package leads

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Lead is one audit request.
type Lead struct {
	ID              string    `db:"id" json:"id"`
	Timestamp       time.Time `db:"created_at" json:"timestamp"`
	Name            string    `db:"name" json:"name"`
	Email           string    `db:"email" json:"email"`
	Company         string    `db:"company" json:"company"`
	URL             string    `db:"url" json:"url"`
	SearchSite      string    `db:"search_site" json:"search_site"`
	TrafficProperty string    `db:"traffic_property" json:"traffic_property"`
}

// Contact is the requester-supplied part of a lead.
type Contact struct {
	Name    string
	Email   string
	Company string
}

// NewLead stamps a lead with a fresh id and the given time.
func NewLead(now time.Time, contact Contact, url, searchSite, trafficProperty string) Lead {
	return Lead{
		ID:              uuid.NewString(),
		Timestamp:       now.UTC(),
		Name:            strings.TrimSpace(contact.Name),
		Email:           strings.TrimSpace(contact.Email),
		Company:         strings.TrimSpace(contact.Company),
		URL:             url,
		SearchSite:      strings.TrimSpace(searchSite),
		TrafficProperty: strings.TrimSpace(trafficProperty),
	}
}

// Recorder appends leads to a store.
type Recorder interface {
	Record(ctx context.Context, lead Lead) error
}

// Nop discards leads.
type Nop struct{}

func (Nop) Record(context.Context, Lead) error { return nil }

// Package models holds the persistent records of the storefront.
package models

import "time"

// Store is the single tenant record: branding, payment processor
// credentials and the catalog. An empty ProcessorSecretKey means payment is
// not configured.
type Store struct {
	ID                      string
	Name                    string
	BackgroundColor         string
	Description             *string
	ProcessorSecretKey      string
	ProcessorPublishableKey string
	CreatedAt               time.Time
	UpdatedAt               time.Time
	Products                []Product
}

// PaymentConfigured reports whether checkout can reach the processor.
func (s *Store) PaymentConfigured() bool {
	return s.ProcessorSecretKey != ""
}

// Product is a catalog item. Price is in major currency units and is never
// negative; Position fixes the display order within the store.
type Product struct {
	ID          string
	StoreID     string
	Title       string
	Price       float64
	Description string
	Position    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StorePatch carries an admin settings update. Nil pointer fields leave the
// stored values untouched; a non-nil empty ProcessorSecretKey turns payment
// off. Products only lists existing products to modify.
type StorePatch struct {
	Name                    string
	BackgroundColor         string
	Description             *string
	ProcessorSecretKey      *string
	ProcessorPublishableKey *string
	Products                []ProductPatch
}

// ProductPatch replaces title and price of one existing product. A nil
// Description keeps the stored one.
type ProductPatch struct {
	ID          string
	Title       string
	Price       float64
	Description *string
}

package session

import (
	"time"

	"github.com/fjod/decohome/internal/catalog"
	"github.com/fjod/decohome/internal/checkout"
	"github.com/fjod/decohome/internal/domain"
)

// FormState is the transient state of the add-product form.
type FormState struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Generating  bool   `json:"generating"`
	Error       string `json:"error,omitempty"`
}

type FeedbackKind string

const (
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
)

// Feedback is a short-lived message shown after a share attempt.
type Feedback struct {
	Kind      FeedbackKind `json:"kind"`
	Message   string       `json:"message"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Snapshot is everything the rendering layer needs to draw the page.
type Snapshot struct {
	View          domain.View       `json:"view"`
	CartOpen      bool              `json:"cartOpen"`
	CatalogSource catalog.Source    `json:"catalogSource"`
	Products      []domain.Product  `json:"products"`
	Cart          []domain.CartLine `json:"cart"`
	CartCount     int               `json:"cartCount"`
	Totals        checkout.Totals   `json:"totals"`
	Form          FormState         `json:"form"`
	Feedback      *Feedback         `json:"feedback,omitempty"`
	LastOrder     *domain.Order     `json:"lastOrder,omitempty"`
}

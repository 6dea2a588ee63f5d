package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a dish offered by the restaurant.
type MenuItem struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    *string         `json:"category"`
	ImageURL    *string         `json:"image_url"`
	IsAvailable bool            `json:"is_available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MenuItemCreate is the request body for POST /menu.
type MenuItemCreate struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
	IsAvailable *bool            `json:"is_available"`
}

// Validate checks the create request and returns the item to insert.
func (req *MenuItemCreate) Validate() (*MenuItem, error) {
	if err := validateRequired("name", req.Name, 255); err != nil {
		return nil, err
	}
	if req.Price == nil {
		return nil, ValidationError{Field: "price", Message: "is required"}
	}
	if err := validatePrice(*req.Price); err != nil {
		return nil, err
	}
	if req.Category != nil {
		if err := validateMaxLen("category", *req.Category, 100); err != nil {
			return nil, err
		}
	}

	item := &MenuItem{
		Name:        req.Name,
		Description: optionalText(req.Description),
		Price:       Cents(*req.Price),
		Category:    optionalText(req.Category),
		ImageURL:    optionalText(req.ImageURL),
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	return item, nil
}

// MenuItemPatch lists the fields PUT /menu/{id} may change. Nil means "not supplied";
// an empty string clears an optional text column.
type MenuItemPatch struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
	IsAvailable *bool            `json:"is_available"`
}

func (p *MenuItemPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Price == nil &&
		p.Category == nil && p.ImageURL == nil && p.IsAvailable == nil
}

func (p *MenuItemPatch) Validate() error {
	if p.Empty() {
		return ValidationError{Field: "body", Message: "no fields to update"}
	}
	if p.Name != nil {
		if err := validateRequired("name", *p.Name, 255); err != nil {
			return err
		}
	}
	if p.Price != nil {
		if err := validatePrice(*p.Price); err != nil {
			return err
		}
	}
	if p.Category != nil {
		if err := validateMaxLen("category", *p.Category, 100); err != nil {
			return err
		}
	}
	return nil
}

// Apply merges the supplied fields onto item.
func (p *MenuItemPatch) Apply(item *MenuItem) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = optionalText(p.Description)
	}
	if p.Price != nil {
		item.Price = Cents(*p.Price)
	}
	if p.Category != nil {
		item.Category = optionalText(p.Category)
	}
	if p.ImageURL != nil {
		item.ImageURL = optionalText(p.ImageURL)
	}
	if p.IsAvailable != nil {
		item.IsAvailable = *p.IsAvailable
	}
}

// validatePrice checks the price as it will be stored, after rounding to cents.
func validatePrice(price decimal.Decimal) error {
	price = Cents(price)
	if price.IsNegative() {
		return ValidationError{Field: "price", Message: "must be greater than or equal to 0"}
	}
	if price.GreaterThanOrEqual(MaxMenuPrice) {
		return ValidationError{Field: "price", Message: "must be less than 100000000"}
	}
	return nil
}

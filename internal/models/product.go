package models

import "time"

// Product товар каталога.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Images      []string  `json:"image"`
	Brand       string    `json:"brand"`
	Categories  []string  `json:"category"`
	Popular     bool      `json:"popular"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProductPatch содержит только переданные поля частичного обновления товара.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Description *string
	Images      []string
	Brand       *string
	Categories  []string
}

// Empty сообщает, что в патче нет ни одного поля.
func (p ProductPatch) Empty() bool {
	return p.Name == nil && p.Price == nil && p.Description == nil &&
		p.Images == nil && p.Brand == nil && p.Categories == nil
}

package model

import "cinema_storefront/utils"

// Product is a supermarket item sold next to the cinema tickets.
type Product struct {
	ItemId      int          `json:"item_id"`
	ItemName    string       `json:"item_name" validate:"required"`
	Barcode     string       `json:"barcode" validate:"required"`
	Category    string       `json:"category" validate:"required"`
	Description *string      `json:"description"`
	PfandId     *int         `json:"pfand_id"`
	PfandName   *string      `json:"pfand_name"`
	Price       utils.Amount `json:"price" validate:"required,gt=0"`
	Amount      utils.Amount `json:"amount"`
	CreatedAt   string       `json:"created_at,omitempty"`
	UpdatedAt   string       `json:"updated_at,omitempty"`
}

type ProductsEnvelope struct {
	Items []Product `json:"items"`
}

// PfandOption is a deposit class (bottle, crate, cup).
type PfandOption struct {
	PfandId     int          `json:"pfand_id"`
	Name        string       `json:"name"`
	Amount      utils.Amount `json:"amount"`
	Description *string      `json:"description"`
}

type PfandOptionsEnvelope struct {
	PfandOptions []PfandOption `json:"pfand_options"`
}

// PfandItem is a scanned deposit item on a return receipt.
type PfandItem struct {
	PfandId   int     `json:"pfand_id"`
	PfandName string  `json:"pfand_name"`
	Amount    float64 `json:"amount"`
	Quantity  int     `json:"quantity"`
}

// ScannedItem is a product line at the supermarket checkout.
type ScannedItem struct {
	Price      float64 `json:"price"`
	PfandPrice float64 `json:"pfandPrice"`
	Quantity   int     `json:"quantity"`
}

type PfandScanInput struct {
	Barcode string      `json:"barcode" validate:"required"`
	Items   []PfandItem `json:"items" validate:"dive"`
}

type PfandScanResult struct {
	Items []PfandItem `json:"items"`
	Total float64     `json:"total"`
	Bon   string      `json:"bon"`
}

type CheckoutInput struct {
	Items    []ScannedItem `json:"items" validate:"dive"`
	Discount float64       `json:"discount" validate:"gte=0"`
}

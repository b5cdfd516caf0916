package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"cinema_storefront/model"
)

type productInput struct {
	Barcode  string  `json:"barcode"`
	ItemName string  `json:"item_name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	PfandId  *int    `json:"pfand_id"`
}

type productEnvelope struct {
	Item model.Product `json:"item"`
}

func toProductInput(p model.Product) productInput {
	return productInput{
		Barcode:  p.Barcode,
		ItemName: p.ItemName,
		Price:    p.Price.Float(),
		Category: p.Category,
		PfandId:  p.PfandId,
	}
}

func (c *Client) FetchProducts(ctx context.Context, token string) ([]model.Product, error) {
	var out model.ProductsEnvelope
	err := c.do(ctx, request{method: http.MethodGet, path: "/supermarkt/items", token: token, fallback: "Fehler beim Laden der Produkte."}, &out)
	return out.Items, err
}

func (c *Client) FetchProductByBarcode(ctx context.Context, token, barcode string) (*model.Product, error) {
	var out model.Product
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     "/supermarkt/items/barcode/" + url.PathEscape(barcode),
		token:    token,
		fallback: "Artikel nicht gefunden",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddProduct(ctx context.Context, token string, p model.Product) (*model.Product, error) {
	var out productEnvelope
	err := c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/supermarkt/items",
		token:    token,
		body:     toProductInput(p),
		fallback: "Fehler beim Hinzufügen des Produkts.",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Item, nil
}

func (c *Client) UpdateProduct(ctx context.Context, token string, p model.Product) (*model.Product, error) {
	var out productEnvelope
	err := c.do(ctx, request{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/supermarkt/items/%d", p.ItemId),
		token:    token,
		body:     toProductInput(p),
		fallback: "Fehler beim Aktualisieren des Produkts.",
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Item, nil
}

func (c *Client) FetchPfandOptions(ctx context.Context, token string) ([]model.PfandOption, error) {
	var out model.PfandOptionsEnvelope
	err := c.do(ctx, request{method: http.MethodGet, path: "/supermarkt/pfand", token: token, fallback: "Fehler beim Laden der Pfand-Optionen."}, &out)
	return out.PfandOptions, err
}

package helper

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"cinema_storefront/constants"
	"cinema_storefront/model"
	"cinema_storefront/utils"
)

var (
	ErrItemNotFound       = errors.New(constants.ITEM_NOT_FOUND)
	ErrItemWithoutPfand   = errors.New(constants.ITEM_WITHOUT_PFAND)
	ErrInvalidPfandAmount = errors.New(constants.INVALID_PFAND_AMOUNT)
)

// PfandItemOf turns a scanned product into the deposit it refunds.
func PfandItemOf(product *model.Product) (model.PfandItem, error) {
	if product == nil {
		return model.PfandItem{}, ErrItemNotFound
	}
	if product.PfandId == nil || product.Amount == 0 {
		return model.PfandItem{}, ErrItemWithoutPfand
	}
	amount := product.Amount.Float()
	if math.IsNaN(amount) || amount < 0 {
		return model.PfandItem{}, ErrInvalidPfandAmount
	}
	name := ""
	if product.PfandName != nil {
		name = *product.PfandName
	}
	return model.PfandItem{PfandId: *product.PfandId, PfandName: name, Amount: amount}, nil
}

// AddOrUpdatePfandItem returns a new list with item added or its quantity
// raised by one. items is not modified.
func AddOrUpdatePfandItem(items []model.PfandItem, item model.PfandItem) []model.PfandItem {
	out := make([]model.PfandItem, len(items), len(items)+1)
	copy(out, items)
	for i := range out {
		if out[i].PfandId == item.PfandId {
			out[i].Quantity++
			return out
		}
	}
	item.Quantity = 1
	return append(out, item)
}

func CalculateTotalPfand(items []model.PfandItem) float64 {
	var sum float64
	for _, item := range items {
		sum += float64(item.Quantity) * item.Amount
	}
	return sum
}

// FormatBon renders the deposit return receipt.
func FormatBon(items []model.PfandItem, at time.Time) string {
	var b strings.Builder
	b.WriteString("Pfandautomat Bon\n")
	b.WriteString("--------------------------\n")
	b.WriteString("Artikel:\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s x%d\n", item.PfandName, item.Quantity)
	}
	b.WriteString("--------------------------\n")
	fmt.Fprintf(&b, "Summe: %s\n", utils.FormatPrice(CalculateTotalPfand(items)))
	b.WriteString("Danke fuer deinen Einkauf!\n")
	fmt.Fprintf(&b, "%s\n", utils.FormatDate(at))
	return b.String()
}

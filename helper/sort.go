package helper

import (
	"sort"
	"strconv"
	"strings"

	"cinema_storefront/model"
	"cinema_storefront/utils"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// SortStrategy compares two column values in the given direction.
type SortStrategy interface {
	Compare(a, b string, dir Direction) int
}

type DateSort struct{}

func (DateSort) Compare(a, b string, dir Direction) int {
	at, _ := utils.ParseTimestamp(a)
	bt, _ := utils.ParseTimestamp(b)
	return orient(at.Compare(bt.Time), dir)
}

type NumericSort struct{}

func (NumericSort) Compare(a, b string, dir Direction) int {
	af, _ := strconv.ParseFloat(a, 64)
	bf, _ := strconv.ParseFloat(b, 64)
	switch {
	case af < bf:
		return orient(-1, dir)
	case af > bf:
		return orient(1, dir)
	}
	return 0
}

type TextSort struct{}

func (TextSort) Compare(a, b string, dir Direction) int {
	return orient(strings.Compare(strings.ToLower(a), strings.ToLower(b)), dir)
}

// PfandSort orders Pfand ids by the name of their option. Unknown ids sort
// as an empty name.
type PfandSort struct {
	Options []model.PfandOption
}

func (p PfandSort) name(id string) string {
	for _, o := range p.Options {
		if strconv.Itoa(o.PfandId) == id {
			return o.Name
		}
	}
	return ""
}

func (p PfandSort) Compare(a, b string, dir Direction) int {
	return TextSort{}.Compare(p.name(a), p.name(b), dir)
}

func orient(c int, dir Direction) int {
	if dir == Desc {
		return -c
	}
	return c
}

// SortState is the column and direction of a product table.
type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Toggle flips the direction when column is already sorted, else sorts it ascending.
func (s SortState) Toggle(column string) SortState {
	if s.Column == column {
		if s.Direction == Asc {
			return SortState{Column: column, Direction: Desc}
		}
		return SortState{Column: column, Direction: Asc}
	}
	return SortState{Column: column, Direction: Asc}
}

func productColumn(p model.Product, column string) string {
	switch column {
	case "item_id":
		return strconv.Itoa(p.ItemId)
	case "price":
		return strconv.FormatFloat(p.Price.Float(), 'f', -1, 64)
	case "amount":
		return strconv.FormatFloat(p.Amount.Float(), 'f', -1, 64)
	case "pfand_id":
		if p.PfandId == nil {
			return ""
		}
		return strconv.Itoa(*p.PfandId)
	case "barcode":
		return p.Barcode
	case "category":
		return p.Category
	case "created_at":
		return p.CreatedAt
	case "updated_at":
		return p.UpdatedAt
	default:
		return p.ItemName
	}
}

func strategyFor(column string, options []model.PfandOption) SortStrategy {
	switch column {
	case "created_at", "updated_at":
		return DateSort{}
	case "item_id", "price", "amount":
		return NumericSort{}
	case "pfand_id":
		return PfandSort{Options: options}
	default:
		return TextSort{}
	}
}

// SortProducts sorts in place by column; ties keep their order.
func SortProducts(items []model.Product, state SortState, options []model.PfandOption) {
	if state.Column == "" {
		return
	}
	strategy := strategyFor(state.Column, options)
	sort.SliceStable(items, func(i, j int) bool {
		return strategy.Compare(productColumn(items[i], state.Column), productColumn(items[j], state.Column), state.Direction) < 0
	})
}

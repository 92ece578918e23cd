package inventory

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyItemName      = errors.New("item name cannot be empty")
	ErrItemNameTooLong    = errors.New("item name is too long (max 255 characters)")
	ErrNegativeStock      = errors.New("stock cannot be negative")
	ErrOutOfServiceExcess = errors.New("out of service count cannot exceed total stock")
)

const MaxItemNameLength = 255

type Stock struct {
	Total        int
	OutOfService int
}

// Usable is the stock that can be lent out before any allocation.
func (s Stock) Usable() int {
	return s.Total - s.OutOfService
}

// Item is a finite, reusable resource such as chairs or tables.
type Item struct {
	id    uuid.UUID
	name  string
	stock Stock
}

func NewItem(id uuid.UUID, name string, stock Stock) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyItemName
	}
	if len(name) > MaxItemNameLength {
		return nil, ErrItemNameTooLong
	}
	if stock.Total < 0 || stock.OutOfService < 0 {
		return nil, ErrNegativeStock
	}
	if stock.OutOfService > stock.Total {
		return nil, ErrOutOfServiceExcess
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Item{id: id, name: name, stock: stock}, nil
}

func (i *Item) ID() uuid.UUID { return i.id }
func (i *Item) Name() string  { return i.name }
func (i *Item) Stock() Stock  { return i.stock }

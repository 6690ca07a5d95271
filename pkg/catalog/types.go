package catalog

import "fmt"

type ItemId int

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

type Item struct {
	Id          ItemId  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// Validate rejects payload entries that do not form a usable item. The remote
// service is loosely typed, the strict shape is enforced here and nowhere else.
func (i *Item) Validate() error {
	if i.Id <= 0 {
		return fmt.Errorf("item has invalid id %d", i.Id)
	}
	if i.Title == "" {
		return fmt.Errorf("item %d has empty title", i.Id)
	}
	if i.Price < 0 {
		return fmt.Errorf("item %d has negative price %f", i.Id, i.Price)
	}
	return nil
}

// Package pricing totals the packages, items, addons and preferences of a booking.
package pricing

import "portal/internal/domain/entity"

// Line kinds.
const (
	KindPackage    = "package"
	KindItem       = "item"
	KindAddon      = "addon"
	KindPreference = "preference"
)

// Line is one priced row of a booking summary.
type Line struct {
	Kind      string        `json:"kind"`
	Label     string        `json:"label"`
	UnitPrice entity.Amount `json:"unitPrice"`
	Quantity  int           `json:"quantity"`
	Subtotal  entity.Amount `json:"subtotal"`
}

// Summary is the price breakdown of a booking.
type Summary struct {
	Lines       []Line        `json:"lines"`
	Packages    entity.Amount `json:"packages"`
	Items       entity.Amount `json:"items"`
	Addons      entity.Amount `json:"addons"`
	Preferences entity.Amount `json:"preferences"`
	Total       entity.Amount `json:"total"`
}

// Summarize prices a booking. Items are charged per unit; a missing quantity counts as one.
func Summarize(b entity.Booking) Summary {
	var s Summary

	for _, pkg := range b.Packages {
		s.add(KindPackage, pkg.PackageName, pkg.Price, 1)

		for _, item := range pkg.Items {
			s.add(KindItem, item.ItemName, item.Price, item.Quantity)
		}
		for _, addon := range pkg.Addons {
			s.add(KindAddon, addon.AddonName, addon.Price, 1)
		}
	}

	for _, pref := range b.Preferences {
		s.add(KindPreference, pref.PreferenceValue, pref.Price, 1)
	}

	return s
}

func (s *Summary) add(kind, label string, unit entity.Amount, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	subtotal := unit * entity.Amount(quantity)

	s.Lines = append(s.Lines, Line{
		Kind:      kind,
		Label:     label,
		UnitPrice: unit,
		Quantity:  quantity,
		Subtotal:  subtotal,
	})

	switch kind {
	case KindPackage:
		s.Packages += subtotal
	case KindItem:
		s.Items += subtotal
	case KindAddon:
		s.Addons += subtotal
	case KindPreference:
		s.Preferences += subtotal
	}
	s.Total += subtotal
}

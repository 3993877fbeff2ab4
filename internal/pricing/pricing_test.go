package pricing

import (
	"encoding/json"
	"testing"

	"portal/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_NestedPrices(t *testing.T) {
	raw := `{
		"booking_id": 7,
		"packages": [
			{
				"package_name": "Bathroom",
				"package_price": "100.00",
				"items": [
					{"item_name": "Sink", "price": 20, "quantity": 2},
					{"item_name": "Mirror", "price": "15.5", "quantity": 0}
				],
				"addons": [{"addon_name": "Eco soap", "price": "4.25"}]
			},
			{"package_name": "Kitchen", "package_price": 50}
		],
		"preferences": [
			{"preference_value": "Evening", "preference_price": "10"},
			{"preference_value": "No pets", "preference_price": null}
		]
	}`

	var booking entity.Booking
	require.NoError(t, json.Unmarshal([]byte(raw), &booking))

	s := Summarize(booking)

	assert.Equal(t, entity.Amount(15000), s.Packages)
	assert.Equal(t, entity.Amount(5550), s.Items)
	assert.Equal(t, entity.Amount(425), s.Addons)
	assert.Equal(t, entity.Amount(1000), s.Preferences)
	assert.Equal(t, entity.Amount(21975), s.Total)
	assert.Len(t, s.Lines, 7)
	assert.Equal(t, Line{Kind: KindItem, Label: "Sink", UnitPrice: 2000, Quantity: 2, Subtotal: 4000}, s.Lines[1])
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(entity.Booking{})

	assert.Equal(t, entity.Amount(0), s.Total)
	assert.Empty(t, s.Lines)
}

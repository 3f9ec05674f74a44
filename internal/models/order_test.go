package models_test

import (
	"encoding/json"
	"testing"

	"foodorder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderJSON(t *testing.T) {
	order := models.Order{
		ID:      3,
		OwnerID: 7,
		Status:  models.StatusPending,
		Items: []models.OrderLine{
			{ID: 1, OrderID: 3, MenuItemID: 5, Quantity: 2, UnitPrice: 90},
			{ID: 2, OrderID: 3, MenuItemID: 1, Quantity: 1, UnitPrice: 120},
		},
	}

	b, err := json.Marshal(order)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &body))
	assert.Equal(t, float64(7), body["user_id"])
	assert.NotContains(t, body, "owner_id")
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, 300.0, body["total"])

	items, ok := body["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 2)
	line := items[0].(map[string]interface{})
	assert.Equal(t, float64(5), line["menu_id"])
	assert.Equal(t, float64(2), line["quantity"])
	assert.Equal(t, 90.0, line["unit_price"])
	assert.NotContains(t, line, "order_id")

	var decoded models.Order
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, uint(7), decoded.OwnerID)
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"pending", "preparing", "done", "cancelled"} {
		status, ok := models.ParseOrderStatus(s)
		assert.True(t, ok, s)
		assert.Equal(t, models.OrderStatus(s), status)
	}
	_, ok := models.ParseOrderStatus("shipped")
	assert.False(t, ok)
}

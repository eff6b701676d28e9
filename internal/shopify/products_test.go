// Copyright (c) 2026 Mistwell Games. All rights reserved.

package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestClient_ListCardProducts_Pagination checks the cursor walk: two pages are
stitched into one product list, the second request carries the first page's
end cursor, and every page requests the configured window size.
*/
func TestClient_ListCardProducts_Pagination(t *testing.T) {
	pageOne := `{"data": {"products": {
		"pageInfo": {"hasNextPage": true, "endCursor": "cursor-1"},
		"nodes": [{
			"id": "gid://shopify/Product/1",
			"title": "Sol Ring [CMD-222]",
			"handle": "sol-ring-cmd-222",
			"onlineStoreUrl": "https://example.myshopify.com/products/sol-ring-cmd-222",
			"metafields": {"nodes": [
				{"key": "scryfall_id", "value": "aaaa-1111"},
				{"key": "set_code", "value": "cmd"}
			]},
			"variants": {"nodes": [{
				"id": "gid://shopify/ProductVariant/11",
				"price": "2.50",
				"inventoryQuantity": 5,
				"inventoryItem": {"id": "gid://shopify/InventoryItem/21"},
				"selectedOptions": [
					{"name": "Condition", "value": "Near Mint"},
					{"name": "Finish", "value": "Nonfoil"}
				]
			}]}
		}]
	}}}`
	pageTwo := `{"data": {"products": {
		"pageInfo": {"hasNextPage": false, "endCursor": ""},
		"nodes": [{
			"id": "gid://shopify/Product/2",
			"title": "Brainstorm [ICE-64]",
			"handle": "brainstorm-ice-64",
			"metafields": {"nodes": []},
			"variants": {"nodes": []}
		}]
	}}}`

	var requests []graphQLRequest
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body graphQLRequest
		require.NoError(t, json.NewDecoder(request.Body).Decode(&body))
		requests = append(requests, body)

		if len(requests) == 1 {
			_, _ = writer.Write([]byte(pageOne))
			return
		}
		_, _ = writer.Write([]byte(pageTwo))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	products, err := client.ListCardProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Len(t, requests, 2)

	// Each page requests the pagination window declared on the client.
	for _, request := range requests {
		assert.Contains(t, request.Query, fmt.Sprintf("first: %d", pageSize))
	}

	// The second request resumes from the first page's cursor.
	assert.NotContains(t, requests[0].Variables, "cursor")
	assert.Equal(t, "cursor-1", requests[1].Variables["cursor"])

	first := products[0]
	assert.Equal(t, "gid://shopify/Product/1", first.ID)
	assert.Equal(t, "cmd", first.Metafields["set_code"])
	require.Len(t, first.Variants, 1)
	assert.Equal(t, "gid://shopify/InventoryItem/21", first.Variants[0].InventoryItemID)
	assert.Equal(t, "Near Mint", first.Variants[0].Condition)
	assert.Equal(t, "Nonfoil", first.Variants[0].Finish)

	assert.Equal(t, "gid://shopify/Product/2", products[1].ID)
	assert.Empty(t, products[1].Variants)
}

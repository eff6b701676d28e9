// Copyright (c) 2026 Mistwell Games. All rights reserved.

package shopify

import (
	"context"
	"fmt"
	"log/slog"
)

// Product is one catalog product with the card metafields and purchasable
// variants needed by the snapshot rebuild.
type Product struct {
	ID     string
	Title  string
	Handle string
	URL    string

	// Metafields holds the "cards" namespace attributes, keyed by metafield key.
	Metafields map[string]string

	Variants []Variant
}

// Variant is one purchasable condition/finish combination of a product.
type Variant struct {
	ID              string
	InventoryItemID string
	Price           string
	Quantity        int
	Condition       string
	Finish          string
}

// pageSize is the catalog pagination window. 100 is the Admin API ceiling
// for nested variant connections at this query depth.
const pageSize = 100

// listProductsQuery pages through card products. Only products tagged as
// singles enter the snapshot; sealed product and accessories are skipped.
var listProductsQuery = fmt.Sprintf(`query CardProducts($cursor: String) {
	products(first: %d, after: $cursor, query: "tag:mtg-single") {
		pageInfo { hasNextPage endCursor }
		nodes {
			id
			title
			handle
			onlineStoreUrl
			metafields(namespace: "cards", first: 20) {
				nodes { key value }
			}
			variants(first: 20) {
				nodes {
					id
					price
					inventoryQuantity
					inventoryItem { id }
					selectedOptions { name value }
				}
			}
		}
	}
}`, pageSize)

// listProductsPage mirrors the GraphQL response shape for one page.
type listProductsPage struct {
	Products struct {
		PageInfo struct {
			HasNextPage bool   `json:"hasNextPage"`
			EndCursor   string `json:"endCursor"`
		} `json:"pageInfo"`
		Nodes []struct {
			ID             string `json:"id"`
			Title          string `json:"title"`
			Handle         string `json:"handle"`
			OnlineStoreURL string `json:"onlineStoreUrl"`
			Metafields     struct {
				Nodes []struct {
					Key   string `json:"key"`
					Value string `json:"value"`
				} `json:"nodes"`
			} `json:"metafields"`
			Variants struct {
				Nodes []struct {
					ID                string `json:"id"`
					Price             string `json:"price"`
					InventoryQuantity int    `json:"inventoryQuantity"`
					InventoryItem     struct {
						ID string `json:"id"`
					} `json:"inventoryItem"`
					SelectedOptions []struct {
						Name  string `json:"name"`
						Value string `json:"value"`
					} `json:"selectedOptions"`
				} `json:"nodes"`
			} `json:"variants"`
		} `json:"nodes"`
	} `json:"products"`
}

/*
ListCardProducts pages through every card product in the catalog.

Description: Used by the snapshot rebuild. Pagination runs sequentially under
the client's shared token bucket; a full catalog walk of ~30k listings is a
few hundred paced calls.

Parameters:
  - context: context.Context

Returns:
  - []Product: Every card product with metafields and variants
  - error: Transport or query failures (the partial walk is discarded)
*/
func (client *Client) ListCardProducts(context context.Context) ([]Product, error) {

	var (
		products []Product
		cursor   *string
	)

	for {
		variables := map[string]any{}
		if cursor != nil {
			variables["cursor"] = *cursor
		}

		var page listProductsPage
		if err := client.Do(context, listProductsQuery, variables, &page); err != nil {
			return nil, err
		}

		for _, node := range page.Products.Nodes {
			product := Product{
				ID:         node.ID,
				Title:      node.Title,
				Handle:     node.Handle,
				URL:        node.OnlineStoreURL,
				Metafields: make(map[string]string, len(node.Metafields.Nodes)),
			}

			for _, field := range node.Metafields.Nodes {
				product.Metafields[field.Key] = field.Value
			}

			for _, variantNode := range node.Variants.Nodes {
				variant := Variant{
					ID:              variantNode.ID,
					InventoryItemID: variantNode.InventoryItem.ID,
					Price:           variantNode.Price,
					Quantity:        variantNode.InventoryQuantity,
				}

				// Condition and finish are product options on singles.
				for _, option := range variantNode.SelectedOptions {
					switch option.Name {
					case "Condition":
						variant.Condition = option.Value
					case "Finish":
						variant.Finish = option.Value
					}
				}

				product.Variants = append(product.Variants, variant)
			}

			products = append(products, product)
		}

		if !page.Products.PageInfo.HasNextPage {
			break
		}
		next := page.Products.PageInfo.EndCursor
		cursor = &next

		client.logger.Debug("catalog_page_fetched", slog.Int("total_so_far", len(products)))
	}

	return products, nil
}

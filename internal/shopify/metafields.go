// Copyright (c) 2026 Mistwell Games. All rights reserved.

package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// MetafieldInput is one typed catalog attribute to write onto a product.
type MetafieldInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// ProductWrite pairs a product with the full metafield set to apply to it.
type ProductWrite struct {
	ProductID  string
	Metafields []MetafieldInput
}

// WriteResult reports the outcome for one product inside a batch write.
//
// A batch that returns without a batch-level error may still contain per-item
// failures: the catalog validates each aliased sub-mutation independently.
type WriteResult struct {
	ProductID string
	// Err holds the first user error reported for this product, empty on success.
	Err string
}

// Failed reports whether this item was rejected by the catalog.
func (r WriteResult) Failed() bool { return r.Err != "" }

// userError is the catalog's per-field validation failure.
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// aliasResult is the decoded payload of one aliased metafieldsSet sub-mutation.
type aliasResult struct {
	UserErrors []userError `json:"userErrors"`
}

/*
SetMetafields writes one combined mutation covering the whole batch.

Description: Each product becomes an aliased metafieldsSet sub-mutation
(item0:, item1:, ...) so the response attributes user errors to individual
products. Per-item errors do not abort siblings; they are reported in the
returned slice. HTTP/structured throttling is retried by the transport layer.

Parameters:
  - context: context.Context
  - batch: []ProductWrite (at most [constants.MetafieldBatchSize] items)

Returns:
  - []WriteResult: One result per input item, in input order
  - error: Batch-level failure (nothing was attributed per item)
*/
func (client *Client) SetMetafields(context context.Context, batch []ProductWrite) ([]WriteResult, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	// 1. Build the aliased document and its variables.
	var (
		mutations []string
		params    []string
		variables = make(map[string]any, len(batch))
	)

	for index, item := range batch {
		varName := fmt.Sprintf("m%d", index)
		params = append(params, fmt.Sprintf("$%s: [MetafieldsSetInput!]!", varName))
		mutations = append(mutations, fmt.Sprintf(
			"item%d: metafieldsSet(metafields: $%s) { userErrors { field message } }",
			index, varName,
		))

		inputs := make([]map[string]any, 0, len(item.Metafields))
		for _, field := range item.Metafields {
			inputs = append(inputs, map[string]any{
				"ownerId":   item.ProductID,
				"namespace": field.Namespace,
				"key":       field.Key,
				"value":     field.Value,
				"type":      field.Type,
			})
		}
		variables[varName] = inputs
	}

	document := fmt.Sprintf("mutation SetCardMetafields(%s) { %s }",
		strings.Join(params, ", "),
		strings.Join(mutations, " "),
	)

	// 2. Execute with the transport's throttle/backoff policy.
	var decoded map[string]json.RawMessage
	if err := client.Do(context, document, variables, &decoded); err != nil {
		return nil, err
	}

	// 3. Map aliased results back to input order.
	results := make([]WriteResult, len(batch))
	for index, item := range batch {
		results[index] = WriteResult{ProductID: item.ProductID}

		raw, ok := decoded[fmt.Sprintf("item%d", index)]
		if !ok {
			results[index].Err = "missing response alias"
			continue
		}

		var sub aliasResult
		if err := json.Unmarshal(raw, &sub); err != nil {
			results[index].Err = "unreadable response alias"
			continue
		}

		if len(sub.UserErrors) > 0 {
			results[index].Err = sub.UserErrors[0].Message
		}
	}

	return results, nil
}

/*
HasCanonicalID checks the idempotency gate's sentinel attribute.

Description: A lightweight read of the canonical-id metafield. Products that
already carry it have been enriched by a previous run and are skipped — this
is what makes the at-least-once queue safe.

Parameters:
  - context: context.Context
  - productID: string (catalog product GID)

Returns:
  - bool: true when the sentinel metafield is present and non-empty
  - error: Transport or query failures
*/
func (client *Client) HasCanonicalID(context context.Context, productID string) (bool, error) {
	const document = `query CardSentinel($id: ID!) {
		product(id: $id) {
			metafield(namespace: "cards", key: "scryfall_id") { value }
		}
	}`

	var decoded struct {
		Product *struct {
			Metafield *struct {
				Value string `json:"value"`
			} `json:"metafield"`
		} `json:"product"`
	}

	if err := client.Do(context, document, map[string]any{"id": productID}, &decoded); err != nil {
		return false, err
	}

	if decoded.Product == nil || decoded.Product.Metafield == nil {
		return false, nil
	}

	return decoded.Product.Metafield.Value != "", nil
}

/*
Package queue implements the durable dedup queue that feeds the enrichment worker.

Product-update webhooks write one [Entry] per affected product, keyed by product
id. Repeated events for the same product overwrite the same slot — this
last-write-wins keying IS the deduplication mechanism. A scheduled worker
invocation drains every slot in one pass and hands the batch downstream.

# Delivery Semantics

The queue is at-least-once from the pipeline's point of view (the storefront
webhook re-fires for a product on any later change) but a single drain is
at-most-once: DrainAll deletes every slot before returning the batch, so a
worker crash after the drain loses that batch until the products change again.
The delete-before-dispatch ordering is deliberate — it frees slots so that
events arriving while the worker runs are captured by the next cycle instead of
colliding with a claimed slot. Consumers must be idempotent (the worker's
catalog-side gate provides this).
*/
package queue

import (
	"context"
	"time"
)

// Entry is one pending enrichment unit, owned by the queue until drained.
type Entry struct {
	// ProductID is the storefront product identifier (also the slot key).
	ProductID string `json:"product_id"`
	// Title is the free-text product title captured from the webhook payload.
	Title string `json:"title"`
	// EnqueuedAt records when the slot was last written.
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Store defines the data access contract for the dedup queue.
type Store interface {

	/*
		Put writes or overwrites the slot for entry.ProductID.

		Parameters:
		  - context: context.Context
		  - entry: Entry (slot value; last write wins)

		Returns:
		  - error: Storage failures
	*/
	Put(context context.Context, entry Entry) error

	/*
		DrainAll reads every pending slot, deletes them all, then returns the batch.

		Description: Slots are cleared BEFORE the batch is returned, so entries
		written during downstream processing land in fresh slots for the next
		drain cycle. A crash between delete and processing loses the batch.

		Returns:
		  - []Entry: All entries that were pending at drain time
		  - error: Storage failures (no partial drain: on error nothing is returned)
	*/
	DrainAll(context context.Context) ([]Entry, error)

	/*
		Len reports the number of pending slots.

		Returns:
		  - int: Pending slot count
		  - error: Storage failures
	*/
	Len(context context.Context) (int, error)
}

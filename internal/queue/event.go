// Package queue defines the check lifecycle events exchanged over the message
// broker and the consumer that records them.
package queue

// CheckClosedQueue is the durable queue carrying CheckClosedEvent messages.
const CheckClosedQueue = "check.closed"

// CheckClosedEvent is published when an open check is closed.  It carries
// enough of the check, its table and its items for downstream consumers to
// log or bill without querying the store again.
type CheckClosedEvent struct {
    CheckID     string   `json:"check_id"`
    TableID     string   `json:"table_id"`
    TableNumber int      `json:"table_number,omitempty"`
    ItemCount   int      `json:"item_count"`
    Total       float64  `json:"total"`
    ItemNames   []string `json:"items"`
    ClosedAt    string   `json:"closed_at"`
}

package fxclient

import (
	"context"
	"sort"
	"time"
)

// HistoryEntry is one completed job in the authenticated user's record.
type HistoryEntry struct {
	OriginalFilename  string    `json:"original_filename,omitempty"`
	ProcessedFilename string    `json:"processed_filename"`
	EffectType        string    `json:"effect_type,omitempty"`
	ProcessedAt       time.Time `json:"processed_at"`
}

type historyResponse struct {
	History []HistoryEntry `json:"history"`
}

// LoadHistory fetches the processing history and caches it on the
// client. History is auxiliary: every failure, including a missing
// credential, degrades to an empty list rather than propagating, so the
// primary processing flow is never blocked by it.
func (c *Client) LoadHistory(ctx context.Context) []HistoryEntry {
	if !c.Authenticated() {
		c.storeHistory(nil)
		return nil
	}

	var resp historyResponse
	if err := c.getJSON(ctx, "/api/history", &resp); err != nil {
		c.storeHistory(nil)
		return nil
	}

	c.storeHistory(resp.History)
	return append([]HistoryEntry(nil), resp.History...)
}

// SortedHistory returns the cached history ordered newest-first by
// ProcessedAt. The view is recomputed on every call from the latest
// load, never cached itself.
func (c *Client) SortedHistory() []HistoryEntry {
	c.mu.Lock()
	entries := append([]HistoryEntry(nil), c.history...)
	c.mu.Unlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ProcessedAt.After(entries[j].ProcessedAt)
	})
	return entries
}

func (c *Client) storeHistory(entries []HistoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append([]HistoryEntry(nil), entries...)
}

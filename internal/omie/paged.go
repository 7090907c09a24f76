package omie

import (
	"context"
	"encoding/json"
	"fmt"
)

// DefaultMaxPages caps runaway pagination when the server misreports its
// total-page count.
const DefaultMaxPages = 200

// PagedRequest describes one paginated listing. BaseParams carries the
// entity-specific parameters (page size, optional since-date filter); the
// page counter is added on top of it each iteration.
type PagedRequest struct {
	Endpoint   string
	Call       string
	BaseParams map[string]any
	// PageParam is the name of the page-counter parameter; most endpoints
	// take "pagina", the movements endpoint takes "nPagina".
	PageParam string
	MaxPages  int
}

type PagedResult struct {
	Items []Record
	Pages int
}

// FetchAllPages walks the listing until the server-reported page total or the
// safety cap. The first page failing to parse fails the whole fetch; a first
// page with no item array but a parseable body counts as zero pages.
func (c *Client) FetchAllPages(ctx context.Context, req PagedRequest) (PagedResult, error) {
	const component = "OmiePager"

	pageParam := req.PageParam
	if pageParam == "" {
		pageParam = "pagina"
	}
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	var result PagedResult
	totalPages := 1

	for page := 1; page <= totalPages && page <= maxPages; page++ {
		params := make(map[string]any, len(req.BaseParams)+1)
		for k, v := range req.BaseParams {
			params[k] = v
		}
		params[pageParam] = page

		raw, err := c.Call(ctx, req.Endpoint, req.Call, params)
		if err != nil {
			return PagedResult{}, err
		}

		var parsed map[string]any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return PagedResult{}, fmt.Errorf("failed to parse page %d of %s: %w", page, req.Call, err)
		}

		items, found := extractItems(req.Call, parsed, c.log)
		if !found {
			if page == 1 {
				c.log.Warn(component, "No item array in first page, treating as empty: call=%s", req.Call)
				return PagedResult{}, nil
			}
			break
		}

		if len(items) == 0 {
			if page == 1 {
				return PagedResult{}, nil
			}
			break
		}

		result.Items = append(result.Items, items...)
		result.Pages = page

		if reported := reportedTotalPages(parsed); reported > 0 {
			totalPages = reported
		}
	}

	if totalPages > maxPages {
		c.log.Warn(component, "Page cap reached: call=%s reported=%d cap=%d", req.Call, totalPages, maxPages)
	}

	return result, nil
}

func reportedTotalPages(page map[string]any) int {
	for _, field := range []string{"total_de_paginas", "nTotPaginas", "total_paginas"} {
		if v, ok := page[field]; ok {
			if f, ok := v.(float64); ok {
				return int(f)
			}
		}
	}
	return 0
}

package tool

import (
	"fmt"
	"strings"
)

// searchProducts answers three query shapes: a category listing request, a
// total product count request, and plain keyword search. The two special
// intents are recognised by substring match before any keyword matching,
// mirroring how users phrase them to the assistant.
func (g *Gateway) searchProducts(query string) Result {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if len(strings.Fields(queryLower)) == 0 {
		return NotFound("Please provide keywords.")
	}
	if g.catalog == nil || g.catalog.Len() == 0 {
		return Error("Product catalog is empty.")
	}

	if strings.Contains(queryLower, "what") && strings.Contains(queryLower, "categories") {
		categories := g.catalog.Categories()
		if len(categories) == 0 {
			return NotFound("No product categories found.")
		}
		return Report(fmt.Sprintf("Available product categories are: %s.", strings.Join(categories, ", ")))
	}

	if strings.Contains(queryLower, "total") &&
		strings.Contains(queryLower, "product") &&
		strings.Contains(queryLower, "count") {
		return Report(fmt.Sprintf("There are currently %d products in our catalog.", g.catalog.Len()))
	}

	found := g.catalog.Search(query)
	if len(found) == 0 {
		return NotFound(fmt.Sprintf("Sorry, no products found matching '%s'.", query))
	}

	entries := make([]string, 0, len(found))
	for _, p := range found {
		entries = append(entries, fmt.Sprintf("%s (ID: %s, Price: $%.2f)", p.Name, p.ID, p.Price))
	}
	return Report(fmt.Sprintf("I found %d product(s) matching '%s': %s.",
		len(found), query, strings.Join(entries, "; ")))
}

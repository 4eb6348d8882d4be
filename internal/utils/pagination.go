package utils

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Page holds skip/take pagination parameters.
type Page struct {
	Skip int
	Take int
}

// GetPage extracts skip and take from the query parameters, falling
// back to the given defaults when missing or malformed.
func GetPage(c *fiber.Ctx, defaultSkip, defaultTake int) Page {
	skip, err := strconv.Atoi(c.Query("skip", strconv.Itoa(defaultSkip)))
	if err != nil || skip < 0 {
		skip = defaultSkip
	}

	take, err := strconv.Atoi(c.Query("take", strconv.Itoa(defaultTake)))
	if err != nil || take < 1 {
		take = defaultTake
	}

	return Page{Skip: skip, Take: take}
}

// GetIDs extracts the ids query parameter. Both repeated parameters
// and comma-separated values are accepted.
func GetIDs(c *fiber.Ctx) []string {
	var ids []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("ids") {
		for _, p := range strings.Split(string(raw), ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				ids = append(ids, trimmed)
			}
		}
	}
	return ids
}

package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"learnhub/repository"

	"github.com/gofiber/fiber/v2"
)

// ParamUint reads a positive integer route parameter.
func ParamUint(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// QueryUint reads an optional integer query value. Missing or malformed values give 0.
func QueryUint(c *fiber.Ctx, name string) uint {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Query(name)), 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// PageFromQuery reads ?page= and ?limit=, applying defaults and capping limit at 100.
func PageFromQuery(c *fiber.Ctx, defaultLimit int) repository.Page {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return repository.Page{Page: page, Limit: limit}
}

// QueryDate parses an optional YYYY-MM-DD or RFC 3339 query value in local time.
// endOfDay moves a bare date to its last second.
func QueryDate(c *fiber.Ctx, name string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}

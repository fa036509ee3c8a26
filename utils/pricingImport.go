package utils

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"learnhub/logger"
	"learnhub/services/catalog"
)

// PricingRow is one parsed line of a price sheet CSV. Line is 1-based and counts the header.
type PricingRow struct {
	Line  int
	Input catalog.PricingInput
}

// ImportResult summarises a price sheet import.
type ImportResult struct {
	Saved   int
	Skipped int
	Failed  int
}

// ParsePricingCSV reads a price sheet with a header row. Columns are matched by name:
// course_id, base_price, sale_price, discount_percent, discount_tag, is_discount_active,
// sale_start, sale_end. Rows without a course id are skipped.
func ParsePricingCSV(r io.Reader) ([]PricingRow, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, 0, fmt.Errorf("csv file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := headerIndex["course_id"]; !ok {
		return nil, 0, fmt.Errorf("csv header has no course_id column")
	}

	var (
		rows    []PricingRow
		skipped int
	)
	for i, record := range records[1:] {
		line := i + 2
		courseID, err := strconv.ParseUint(getField(record, headerIndex, "course_id"), 10, 64)
		if err != nil || courseID == 0 {
			skipped++
			continue
		}
		in := catalog.PricingInput{
			CourseID:         uint(courseID),
			BasePrice:        parseFloat(getField(record, headerIndex, "base_price")),
			SalePrice:        parseFloat(getField(record, headerIndex, "sale_price")),
			DiscountPercent:  parseFloat(getField(record, headerIndex, "discount_percent")),
			DiscountTag:      getField(record, headerIndex, "discount_tag"),
			IsDiscountActive: parseBool(getField(record, headerIndex, "is_discount_active")),
		}
		if in.SaleStart, err = parseTime(getField(record, headerIndex, "sale_start")); err != nil {
			return nil, 0, fmt.Errorf("line %d: sale_start: %w", line, err)
		}
		if in.SaleEnd, err = parseTime(getField(record, headerIndex, "sale_end")); err != nil {
			return nil, 0, fmt.Errorf("line %d: sale_end: %w", line, err)
		}
		rows = append(rows, PricingRow{Line: line, Input: in})
	}
	return rows, skipped, nil
}

// ImportPricing upserts every row through the pricing service. A failing row is logged and counted,
// it does not stop the import.
func ImportPricing(ctx context.Context, pricing *catalog.PricingService, r io.Reader, log *logger.Logger) (ImportResult, error) {
	rows, skipped, err := ParsePricingCSV(r)
	if err != nil {
		return ImportResult{}, err
	}
	log.Info("importing price sheets", "rows", len(rows), "skipped", skipped)

	res := ImportResult{Skipped: skipped}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if _, err := pricing.Upsert(ctx, row.Input); err != nil {
			log.Warn("price sheet row rejected", "line", row.Line, "course_id", row.Input.CourseID, "error", err)
			res.Failed++
			continue
		}
		res.Saved++
	}
	log.Info("price sheet import complete", "saved", res.Saved, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseFloat(s string) float64 {
	if s == "" {
		return 0
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return val
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognised time %q", s)
}

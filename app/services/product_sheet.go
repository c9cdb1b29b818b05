package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/shashiranjanraj/mockshop/pkg/apperr"
	"github.com/shashiranjanraj/mockshop/pkg/logger"
	"github.com/shashiranjanraj/mockshop/pkg/orm"
)

// XLSXContentType is the MIME type of product sheets.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var sheetHeaders = []string{"ID", "Name", "Description", "Price", "Stock", "Active", "Category", "Images"}

// ImportResult counts what an import did.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// Export writes the catalog as a single-sheet workbook.
func (s *ProductAdminService) Export(ctx context.Context, w io.Writer) error {
	products, err := s.List(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range sheetHeaders {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(p.ID))
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetInt(p.StockQuantity)
		row.AddCell().SetBool(p.IsActive)
		slug := ""
		if p.Category != nil {
			slug = p.Category.Slug
		}
		row.AddCell().SetString(slug)
		row.AddCell().SetString(strings.Join(p.Images, ","))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Import creates or updates products from a workbook in the Export layout.
// Rows with an ID that exists are updated; other rows are created. Invalid
// rows are skipped and reported.
func (s *ProductAdminService) Import(ctx context.Context, data []byte) (ImportResult, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return ImportResult{}, apperr.BadRequest("Failed to parse Excel file")
	}
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return ImportResult{}, apperr.BadRequest("Excel file is empty or missing header row")
	}

	var res ImportResult
	slugs := map[string]*uint{}
	for i, row := range file.Sheets[0].Rows[1:] {
		line := i + 2
		get := func(idx int) string {
			if idx < len(row.Cells) {
				return strings.TrimSpace(row.Cells[idx].String())
			}
			return ""
		}
		if get(1) == "" && get(3) == "" {
			continue
		}

		in, err := s.rowInput(ctx, get, slugs)
		if err != nil {
			res.skip(line, err)
			continue
		}

		id, _ := strconv.ParseUint(get(0), 10, 64)
		if id > 0 {
			_, err = s.Replace(ctx, uint(id), in)
			if err == nil {
				res.Updated++
				continue
			}
			if !errors.Is(err, apperr.ErrNotFound) {
				res.skip(line, err)
				continue
			}
		}
		if _, err := s.Create(ctx, in); err != nil {
			res.skip(line, err)
			continue
		}
		res.Created++
	}

	logger.WithCtx(ctx).Info("products imported", "created", res.Created, "updated", res.Updated, "skipped", res.Skipped)
	return res, nil
}

func (r *ImportResult) skip(line int, err error) {
	r.Skipped++
	msg := err.Error()
	if e, ok := apperr.As(err); ok {
		msg = e.Message
	}
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %s", line, msg))
}

func (s *ProductAdminService) rowInput(ctx context.Context, get func(int) string, slugs map[string]*uint) (ProductInput, error) {
	name, desc := get(1), get(2)
	price, err := strconv.ParseFloat(get(3), 64)
	if err != nil {
		return ProductInput{}, fmt.Errorf("invalid price %q", get(3))
	}
	stock, err := strconv.ParseFloat(get(4), 64)
	if err != nil {
		return ProductInput{}, fmt.Errorf("invalid stock %q", get(4))
	}
	qty := int(stock)

	in := ProductInput{Name: &name, Description: &desc, Price: &price, StockQuantity: &qty}
	if v := get(5); v != "" {
		active := parseSheetBool(v)
		in.IsActive = &active
	}
	if v := get(7); v != "" {
		for _, img := range strings.Split(v, ",") {
			if img = strings.TrimSpace(img); img != "" {
				in.Images = append(in.Images, img)
			}
		}
	}

	if slug := get(6); slug != "" {
		id, ok := slugs[slug]
		if !ok {
			c, err := s.products.CategoryBySlug(ctx, slug)
			switch {
			case errors.Is(err, orm.ErrNotFound):
			case err != nil:
				return ProductInput{}, err
			default:
				id = &c.ID
			}
			slugs[slug] = id
		}
		if id == nil {
			return ProductInput{}, fmt.Errorf("unknown category %q", slug)
		}
		in.CategoryID = id
	}
	return in, nil
}

func parseSheetBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

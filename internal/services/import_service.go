package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

// RowError records one failed import row; row indexes are 1-based over data
// rows (the CSV header does not count).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport is the partial-success result of a bulk import.
type ImportReport struct {
	Imported int        `json:"importedCount"`
	Errors   []RowError `json:"errors"`
}

// ImportService loads products in bulk from an untrusted CSV or JSON
// payload, isolating failures per row.
type ImportService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
}

func NewImportService(cats *repos.CategoryRepo, prods *repos.ProductRepo) *ImportService {
	return &ImportService{Cats: cats, Prods: prods}
}

// record is a normalized import row; all values arrive as strings so CSV and
// JSON rows share one validation path.
type record struct {
	name        string
	description string
	price       string
	weight      string
	stock       string
	category    string
	slug        string
	image       string
	active      string
	parseErr    string // set when the raw line itself was unreadable
}

// ImportCatalog parses the payload and upserts catalog rows. An unsupported
// format or an unreadable payload fails the whole call before any row is
// touched; a bad row is recorded and skipped, never aborting the batch.
func (s *ImportService) ImportCatalog(data []byte, format string) (ImportReport, error) {
	var (
		rows []record
		err  error
	)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		rows, err = parseCSV(data)
	case "json":
		rows, err = parseJSON(data)
	default:
		return ImportReport{}, domain.ErrUnsupportedFormat
	}
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{Errors: []RowError{}}
	for i, row := range rows {
		if err := s.importRow(row); err != nil {
			report.Errors = append(report.Errors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		report.Imported++
	}
	return report, nil
}

func (s *ImportService) importRow(row record) error {
	if row.parseErr != "" {
		return fmt.Errorf("%s", row.parseErr)
	}
	name := strings.TrimSpace(row.name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.TrimSpace(row.price) == "" {
		return fmt.Errorf("price is required")
	}
	price, err := decimal.NewFromString(strings.TrimSpace(row.price))
	if err != nil {
		return fmt.Errorf("invalid price %q", row.price)
	}
	if price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}

	weight := decimal.Zero
	if v := strings.TrimSpace(row.weight); v != "" {
		if weight, err = decimal.NewFromString(v); err != nil {
			return fmt.Errorf("invalid weight %q", row.weight)
		}
	}
	stock := 0
	if v := strings.TrimSpace(row.stock); v != "" {
		if stock, err = strconv.Atoi(v); err != nil || stock < 0 {
			return fmt.Errorf("invalid stock %q", row.stock)
		}
	}
	active := true
	if v := strings.TrimSpace(row.active); v != "" {
		if active, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("invalid is_active %q", row.active)
		}
	}

	catName := strings.TrimSpace(row.category)
	if catName == "" {
		return fmt.Errorf("category is required")
	}
	cat, err := s.Cats.GetOrCreate(catName, slug.Make(catName))
	if err != nil {
		return fmt.Errorf("resolve category %q: %v", catName, err)
	}

	productSlug := strings.TrimSpace(row.slug)
	if productSlug == "" {
		productSlug = slug.Make(name)
	}
	if n, err := s.Prods.CountBySlug(productSlug); err != nil {
		return err
	} else if n > 0 {
		return fmt.Errorf("slug %q already exists", productSlug)
	}

	return s.Prods.Create(domain.Product{
		ID:          uuid.NewString(),
		CategoryID:  cat.ID,
		Name:        name,
		Slug:        productSlug,
		Description: strings.TrimSpace(row.description),
		Price:       price,
		Weight:      weight,
		Stock:       stock,
		Image:       strings.TrimSpace(row.image),
		Active:      active,
	})
}

func parseCSV(data []byte) ([]record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("unreadable csv: %v", err)}
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "price"} {
		if _, ok := cols[required]; !ok {
			return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("missing required column %q", required)}
		}
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var rows []record
	for {
		raw, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A malformed line is a row failure, not a batch failure; keep a
			// placeholder so indexes and the error report stay aligned.
			rows = append(rows, record{parseErr: err.Error()})
			continue
		}
		rows = append(rows, record{
			name:        field(raw, "name"),
			description: field(raw, "description"),
			price:       field(raw, "price"),
			weight:      field(raw, "weight"),
			stock:       field(raw, "stock"),
			category:    field(raw, "category"),
			slug:        field(raw, "slug"),
			image:       field(raw, "image"),
			active:      field(raw, "is_active"),
		})
	}
	return rows, nil
}

func parseJSON(data []byte) ([]record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, &domain.ValidationError{Field: "file", Message: fmt.Sprintf("unreadable json: %v", err)}
	}

	str := func(m map[string]any, key string) string {
		v, ok := m[key]
		if !ok || v == nil {
			return ""
		}
		switch t := v.(type) {
		case string:
			return t
		case json.Number:
			return t.String()
		case bool:
			return strconv.FormatBool(t)
		default:
			return fmt.Sprintf("%v", t)
		}
	}

	rows := make([]record, 0, len(raw))
	for _, m := range raw {
		rows = append(rows, record{
			name:        str(m, "name"),
			description: str(m, "description"),
			price:       str(m, "price"),
			weight:      str(m, "weight"),
			stock:       str(m, "stock"),
			category:    str(m, "category"),
			slug:        str(m, "slug"),
			image:       str(m, "image"),
			active:      str(m, "is_active"),
		})
	}
	return rows, nil
}

package parser

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

// defaultAliases maps the column names of the retailer's export to fields.
var defaultAliases = map[string]sales.Field{
	"fecha_venta":   sales.FieldSaleDate,
	"tipo_calzado":  sales.FieldShoeType,
	"pais":          sales.FieldCountry,
	"país":          sales.FieldCountry,
	"local_id":      sales.FieldStoreID,
	"medida_item":   sales.FieldSize,
	"venta_item":    sales.FieldSaleAmount,
	"utilidad":      sales.FieldProfit,
	"utilidad_item": sales.FieldProfit,
	"cantidad":      sales.FieldQuantity,
	"cantidad_item": sales.FieldQuantity,
}

// columnMap holds the source column index of every schema field.
type columnMap map[sales.Field]int

// mapHeader resolves header cells to fields: canonical names first, then
// user aliases, then the built-in aliases. Unknown columns are ignored; a
// field without a column is an error.
func mapHeader(header []string, aliases map[string]string) (columnMap, error) {
	user := make(map[string]string, len(aliases))
	for k, v := range aliases {
		user[normalizeName(k)] = v
	}
	cols := columnMap{}
	for i, h := range header {
		name := normalizeName(h)
		if name == "" {
			continue
		}
		var f sales.Field
		if pf, err := sales.ParseField(name); err == nil {
			f = pf
		} else if target, ok := user[name]; ok {
			pf, err := sales.ParseField(target)
			if err != nil {
				return nil, fmt.Errorf("alias %q: %w", h, err)
			}
			f = pf
		} else if af, ok := defaultAliases[name]; ok {
			f = af
		} else {
			continue
		}
		if _, dup := cols[f]; !dup {
			cols[f] = i
		}
	}
	var missing []string
	for _, f := range sales.Fields {
		if _, ok := cols[f]; !ok {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func normalizeName(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "_")
}

// record builds a raw record from one data row; short rows read as empty cells.
func (m columnMap) record(row []string) sales.RawRecord {
	get := func(f sales.Field) string {
		i := m[f]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	return sales.RawRecord{
		SaleDate:   get(sales.FieldSaleDate),
		ShoeType:   get(sales.FieldShoeType),
		Country:    get(sales.FieldCountry),
		StoreID:    get(sales.FieldStoreID),
		Size:       get(sales.FieldSize),
		SaleAmount: get(sales.FieldSaleAmount),
		Profit:     get(sales.FieldProfit),
		Quantity:   get(sales.FieldQuantity),
	}
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

package catalog

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/money"
)

// legacy category keys, most specific first
var categoryKeys = []string{"climate", "categorys", "category"}

// Normalize maps a raw product record, as exported by older versions of the
// store, onto domain.Product. Older records carry the category under
// "climate" or "categorys" and use "category" for the unit label.
func Normalize(id string, raw map[string]any, t *Taxonomy) domain.Product {
	p := domain.Product{
		ID:       id,
		Code:     str(raw["code"]),
		Name:     str(raw["productName"]),
		MRP:      money.Coerce(raw["mrp"]),
		Discount: money.Coerce(raw["discount"]),
		Price:    money.Coerce(raw["ourPrice"]),
	}
	if p.Name == "" {
		p.Name = str(raw["name"])
	}

	source := ""
	for _, k := range categoryKeys {
		if v := str(raw[k]); v != "" {
			p.Category, source = v, k
			break
		}
	}
	p.Category = t.CategoryOf(p.Category)

	p.Unit = str(raw["unit"])
	if p.Unit == "" && source != "category" {
		p.Unit = str(raw["category"])
	}

	p.ImageURL = ImageURL(str(raw["imageUrl"]), t)
	return p
}

// ImageURL keeps absolute http(s) URLs and site-relative paths and falls back
// to the default image for anything else.
func ImageURL(raw string, t *Taxonomy) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return t.DefaultImage
	}
	u, err := url.Parse(raw)
	if err != nil {
		return t.DefaultImage
	}
	switch {
	case (u.Scheme == "http" || u.Scheme == "https") && u.Host != "":
		return raw
	case u.Scheme == "" && u.Host == "" && (strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "./") || strings.HasPrefix(raw, "../")):
		return raw
	}
	return t.DefaultImage
}

// GenerateCode builds a product code from the category prefix and the last
// four digits of the millisecond clock.
func GenerateCode(category string, now time.Time, t *Taxonomy) string {
	return fmt.Sprintf("%s%04d", t.CodePrefix(category), now.UnixMilli()%10000)
}

func str(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}

package utils

import (
	"strings"

	"romix-storefront/models"
)

// UniqueColorFallback is shown when a product only has the placeholder color
const UniqueColorFallback = "Negro"

// uniqueColorKeys are placeholder names meaning "single color"
var uniqueColorKeys = map[string]bool{
	"unico":   true,
	"unique":  true,
	"u":       true,
	"one":     true,
	"default": true,
}

// colorAliases maps every known alias to its canonical color key
var colorAliases = buildColorAliases(map[string][]string{
	"multicolor": {"multicolor", "estampado", "estampada", "print", "floreado"},
	"negro":      {"negro", "black"},
	"blanco":     {"blanco", "white"},
	"azul":       {"azul", "azul jaspeado", "azul oscuro", "azul marino"},
	"rosa":       {"rosa", "fucsia"},
	"verde":      {"verde", "verde jaspeado"},
	"rojo":       {"rojo", "rojo jaspeado", "bordo"},
	"morado":     {"violeta", "morado", "lila", "purpura", "púrpura"},
	"naranja":    {"naranja", "coral"},
	"amarillo":   {"amarillo", "mostaza"},
	"marron":     {"marron", "marrón", "chocolate", "caqui", "camel", "beige"},
	"gris":       {"gris", "gris jaspeado", "gris oscuro", "plomo"},
})

func buildColorAliases(defs map[string][]string) map[string]string {
	aliases := make(map[string]string)
	for key, names := range defs {
		aliases[key] = key
		for _, name := range names {
			aliases[strings.ToLower(name)] = key
		}
	}
	return aliases
}

// CanonicalColorKey maps a color name to its canonical key.
// Input is trimmed and lower-cased; unknown colors map to themselves.
func CanonicalColorKey(name string) string {
	raw := strings.ToLower(strings.TrimSpace(name))
	if raw == "" {
		return ""
	}
	if key, exists := colorAliases[raw]; exists {
		return key
	}
	return raw
}

// NormalizeColorName returns the trimmed color name, or "" for placeholder names like "Único"
func NormalizeColorName(value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return ""
	}
	if uniqueColorKeys[Normalize(raw)] {
		return ""
	}
	return raw
}

// FindColorOption looks a color up by id or name. An empty lookup returns the first color.
func FindColorOption(colors []models.Color, lookup string) (models.Color, bool) {
	if lookup == "" {
		if len(colors) == 0 {
			return models.Color{}, false
		}
		return colors[0], true
	}

	target := Normalize(lookup)
	for _, c := range colors {
		if c.ID != "" && Normalize(c.ID) == target {
			return c, true
		}
		if Normalize(c.Name) == target {
			return c, true
		}
	}
	return models.Color{}, false
}

// DisplayColorName picks the color label shown to the customer: the selected
// color, else the only color, else the first real color, else UniqueColorFallback.
func DisplayColorName(colors []models.Color, selected string) string {
	name := selected
	if opt, ok := FindColorOption(colors, selected); ok {
		name = opt.Name
	}
	if n := NormalizeColorName(name); n != "" {
		return n
	}

	if len(colors) == 1 {
		if n := NormalizeColorName(colors[0].Name); n != "" {
			return n
		}
	}

	for _, c := range colors {
		if n := NormalizeColorName(c.Name); n != "" {
			return n
		}
	}

	return UniqueColorFallback
}

package ranking

import (
	"sort"
	"strings"

	"romix-storefront/models"
	"romix-storefront/utils"
)

// Season keys
const (
	SeasonMediaEstacion = "media-estacion"
	SeasonInvierno      = "invierno"
	SeasonVerano        = "verano"
)

// verano type groups as named in the config
const (
	typePantalon = "pantalon"
	typeCapri    = "capri"
	typeBermuda  = "bermuda"
	typeShort    = "short"
	typeCiclista = "ciclista"
)

// SeasonRank classifies a product for the summer listing:
//
//	0 fibrana pantalon/capri/bermuda/short
//	1 morley pantalon/capri/bermuda/short
//	2 capri with lycra
//	3 ciclista with lycra
//	4 short with lycra
//	5 capri without lycra
//	6 bermuda
//	7 short without lycra
//	8 everything else
func (e *Engine) SeasonRank(p models.Product) int {
	v := e.config.Verano
	name := utils.Normalize(p.Name)
	kind := utils.Normalize(p.Type)

	hasLycra := v.LycraKeyword != "" &&
		(strings.Contains(name, v.LycraKeyword) || strings.Contains(kind, v.LycraKeyword))
	isPantalon := contains(v.Types[typePantalon], kind)
	isCapri := contains(v.Types[typeCapri], kind)
	isBermuda := contains(v.Types[typeBermuda], kind)
	isShort := contains(v.Types[typeShort], kind)
	isCiclista := contains(v.Types[typeCiclista], kind)
	fiberType := isPantalon || isCapri || isBermuda || isShort

	switch {
	case fiberType && (hasKeyword(name, v.FibranKeywords) || hasKeyword(kind, v.FibranKeywords)):
		return 0
	case fiberType && (hasKeyword(name, v.MorleyKeywords) || hasKeyword(kind, v.MorleyKeywords)):
		return 1
	case isCapri && hasLycra:
		return 2
	case isCiclista && hasLycra:
		return 3
	case isShort && hasLycra:
		return 4
	case isCapri:
		return 5
	case isBermuda:
		return 6
	case isShort:
		return 7
	}
	return 8
}

// OrderSeason returns the products in summer order, stable within a rank
func (e *Engine) OrderSeason(list []models.Product) []models.Product {
	type entry struct {
		item  models.Product
		rank  int
		index int
	}

	entries := make([]entry, len(list))
	for i, p := range list {
		entries[i] = entry{item: p, rank: e.SeasonRank(p), index: i}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].rank != entries[j].rank {
			return entries[i].rank < entries[j].rank
		}
		return entries[i].index < entries[j].index
	})

	out := make([]models.Product, len(entries))
	for i, en := range entries {
		out[i] = en.item
	}
	return out
}

// IsMediaEstacion reports whether the product name is in the mid-season list
func (e *Engine) IsMediaEstacion(p models.Product) bool {
	n := utils.NormalizeName(p.Name)
	return n != "" && e.mediaNames[n]
}

// NormalizeSeason maps a season label to its key: "Media Estación" -> "media-estacion"
func NormalizeSeason(value string) string {
	n := utils.NormalizeName(value)
	if n == "" {
		return ""
	}
	if strings.ReplaceAll(n, " ", "") == "mediaestacion" {
		return SeasonMediaEstacion
	}
	return strings.ReplaceAll(n, " ", "-")
}

// SeasonKey returns the normalized season of a product, or ""
func SeasonKey(p models.Product) string {
	return NormalizeSeason(p.Season)
}

// SeasonLabel returns the display label of a season key
func SeasonLabel(key string) string {
	switch key {
	case SeasonMediaEstacion:
		return "Media estacion"
	case SeasonInvierno:
		return "Invierno"
	}
	return key
}

func hasKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

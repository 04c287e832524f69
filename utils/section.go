package utils

// Section keys used across the catalog
const (
	SectionWoman = "mujer"
	SectionMen   = "hombre"
	SectionKids  = "ninos"
)

// NormalizeSection normalizes a section label and folds the known aliases:
// nino/nina/ninas -> ninos, mujeres -> mujer, hombres -> hombre.
func NormalizeSection(section string) string {
	key := Normalize(section)
	switch key {
	case "ninos", "nino", "nina", "ninas":
		return SectionKids
	case "mujeres":
		return SectionWoman
	case "hombres":
		return SectionMen
	}
	return key
}

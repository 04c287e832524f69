package ranking

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"romix-storefront/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine("")
	require.NoError(t, err)
	return e
}

func names(list []models.Product) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Name
	}
	return out
}

func TestDefaultRulesLoad(t *testing.T) {
	e := newTestEngine(t)
	assert.Len(t, e.config.Sections["mujer"], 39)
	assert.Len(t, e.config.Sections["hombre"], 11)
	assert.Len(t, e.config.Sections["ninos"], 7)
	assert.Len(t, e.mediaNames, 47)
}

func TestRank(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		section string
		want    int
	}{
		{"Calza Algodón Lycra Chupín", "mujer", 0},
		{"Calza Lycra Chupin", "mujer", 2},
		{"Calza Térmica Lycra Chupin", "mujer", Unranked},
		{"Top Liso", "mujer", 34},
		{"Pantalon Rustico Recto", "hombre", 0},
		{"Remera Estampada", "ninos", 5},
		{"Remera Estampada", "accesorios", Unranked},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.section, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Rank(models.Product{Name: tt.name}, tt.section))
		})
	}
}

func TestOrderGroupsBySection(t *testing.T) {
	e := newTestEngine(t)
	list := []models.Product{
		{Name: "Gorro Lana", Section: "Accesorios"},
		{Name: "Remera Lisa", Section: "Niñas"},
		{Name: "Pantalon Rustico", Section: "hombre"},
		{Name: "Top Liso", Section: "Mujer"},
		{Name: "Calza Lycra Chupin", Section: "mujeres"},
	}

	got := e.Order(list, "")
	assert.Equal(t, []string{
		"Calza Lycra Chupin",
		"Top Liso",
		"Pantalon Rustico",
		"Remera Lisa",
		"Gorro Lana",
	}, names(got))

	// input untouched
	assert.Equal(t, "Gorro Lana", list[0].Name)
}

func TestOrderWithExplicitSection(t *testing.T) {
	e := newTestEngine(t)
	list := []models.Product{
		{Name: "Top Liso", Section: "mujer"},
		{Name: "Buzo Rustico", Section: "hombre"},
		{Name: "Pantalon Rustico Dama", Section: "mujer"},
	}

	got := e.Order(list, "Hombre")
	assert.Equal(t, []string{"Pantalon Rustico Dama", "Buzo Rustico", "Top Liso"}, names(got))
}

func TestOrderIsStableForTies(t *testing.T) {
	e := newTestEngine(t)
	list := []models.Product{
		{Name: "Gorro A", Section: "mujer"},
		{Name: "Gorro B", Section: "mujer"},
		{Name: "Gorro C", Section: "mujer"},
	}
	assert.Equal(t, []string{"Gorro A", "Gorro B", "Gorro C"}, names(e.Order(list, "mujer")))
	assert.Empty(t, e.Order(nil, ""))
}

func TestOrderIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	list := []models.Product{
		{Name: "Gorro Lana", Section: "Accesorios"},
		{Name: "Top Liso", Section: "Mujer"},
		{Name: "Remera Estampada", Section: "ninos"},
		{Name: "Pantalon Rustico Recto", Section: "hombre"},
		{Name: "Calza Lycra Chupin", Section: "mujeres"},
		{Name: "Calza Algodón Lycra Chupín", Section: "mujer"},
		{Name: "Buzo Rustico", Section: "hombre"},
	}

	for _, section := range []string{"", "mujer", "Hombre", "niños", "outlet"} {
		t.Run("section="+section, func(t *testing.T) {
			once := e.Order(list, section)
			assert.Equal(t, names(once), names(e.Order(once, section)))
		})
	}

	t.Run("season", func(t *testing.T) {
		once := e.OrderSeason(list)
		assert.Equal(t, names(once), names(e.OrderSeason(once)))
	})
}

func TestNewEngineFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.json")
	config := `{
		"sectionPriority": {"outlet": 0},
		"sections": {"Outlet": [{"includes": ["Remera"]}, {"includes": ["buzo"], "excludes": ["Frisado"]}]}
	}`
	require.NoError(t, os.WriteFile(path, []byte(config), 0o644))

	e, err := NewEngine(path)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Rank(models.Product{Name: "REMERA"}, "outlet"))
	assert.Equal(t, 1, e.Rank(models.Product{Name: "Buzo Rústico"}, "outlet"))
	assert.Equal(t, Unranked, e.Rank(models.Product{Name: "Buzo Frisado"}, "outlet"))
}

func TestInvalidConfig(t *testing.T) {
	_, err := NewEngineFromJSON([]byte(`{"sections": {}}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewEngineFromJSON([]byte(`{"sectionPriority": {"a": 0}, "sections": {"a": [{"includes": []}]}}`))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewEngineFromJSON([]byte(`not json`))
	assert.Error(t, err)

	_, err = NewEngine(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

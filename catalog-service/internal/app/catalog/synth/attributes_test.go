package synth

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const iterations = 2000

func newTestGenerator() *Generator {
	return NewGenerator(rand.NewPCG(42, 1024))
}

func TestPrice_SofaWithinBounds(t *testing.T) {
	g := newTestGenerator()

	for i := 0; i < iterations; i++ {
		price := g.Price("sofa")
		require.GreaterOrEqual(t, price, 1200)
		require.LessOrEqual(t, price, 3500)
	}
}

func TestPrice_UnknownCategoryUsesDefaultRange(t *testing.T) {
	g := newTestGenerator()

	for i := 0; i < iterations; i++ {
		price := g.Price("bean bags")
		require.GreaterOrEqual(t, price, 200)
		require.LessOrEqual(t, price, 1000)
	}
}

func TestPrice_HitsBothBounds(t *testing.T) {
	// Узкий диапазон, чтобы проверить включительность границ
	categoryPrices["test narrow"] = PriceRange{Min: 5, Max: 6}
	defer delete(categoryPrices, "test narrow")

	g := newTestGenerator()
	seen := map[int]bool{}
	for i := 0; i < 200; i++ {
		seen[g.Price("test narrow")] = true
	}

	assert.Equal(t, map[int]bool{5: true, 6: true}, seen)
}

func TestPriceRangeFor_NormalizesName(t *testing.T) {
	assert.Equal(t, PriceRange{Min: 800, Max: 2500}, PriceRangeFor("  Executive Desk "))
	assert.Equal(t, DefaultPriceRange, PriceRangeFor(""))
}

func TestStockQuantity_WithinBounds(t *testing.T) {
	g := newTestGenerator()

	for i := 0; i < iterations; i++ {
		qty := g.StockQuantity()
		require.GreaterOrEqual(t, qty, 10)
		require.Less(t, qty, 60)
	}
}

func TestSKU_Shape(t *testing.T) {
	pattern := regexp.MustCompile(`^EXE-PRE-\d{4}$`)
	g := newTestGenerator()

	for i := 0; i < 100; i++ {
		sku := g.SKU("executive desk", "Premium Executive Office Desk")
		assert.Regexp(t, pattern, sku)
	}
}

func TestSKU_StripsNonLetters(t *testing.T) {
	sku := newTestGenerator().SKU("filing cabinet", "4-Drawer Fireproof Metal Cabinet")

	assert.Regexp(t, `^FIL-DRA-\d{4}$`, sku)
}

func TestSKU_ShortNames(t *testing.T) {
	sku := newTestGenerator().SKU("tv", "")

	assert.Regexp(t, `^TV--\d{4}$`, sku)
}

func TestMaterialsAndColors_SingletonsFromVocabulary(t *testing.T) {
	g := newTestGenerator()

	for i := 0; i < 100; i++ {
		materials, colors := g.MaterialsAndColors()
		require.Len(t, materials, 1)
		require.Len(t, colors, 1)
		assert.Contains(t, materialVocabulary, materials[0])
		assert.Contains(t, colorVocabulary, colors[0])
	}
}

func TestGenerator_DeterministicWithSameSeed(t *testing.T) {
	a := NewGenerator(rand.NewPCG(7, 7))
	b := NewGenerator(rand.NewPCG(7, 7))

	assert.Equal(t, a.SKU("sofa", "Lounge"), b.SKU("sofa", "Lounge"))
	assert.Equal(t, a.Price("sofa"), b.Price("sofa"))
}

func TestPackageLevelGenerators(t *testing.T) {
	price := Price("sofa")
	assert.GreaterOrEqual(t, price, 1200)
	assert.LessOrEqual(t, price, 3500)

	qty := StockQuantity()
	assert.GreaterOrEqual(t, qty, 10)
	assert.Less(t, qty, 60)

	assert.Regexp(t, `^EXE-PRE-\d{4}$`, SKU("executive desk", "Premium Executive Office Desk"))

	materials, colors := MaterialsAndColors()
	assert.Len(t, materials, 1)
	assert.Len(t, colors, 1)
}

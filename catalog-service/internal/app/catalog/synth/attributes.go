package synth

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
)

// PriceRange - допустимый диапазон цены категории, границы включительно
type PriceRange struct {
	Min int
	Max int
}

// DefaultPriceRange применяется для категорий, которых нет в таблице
var DefaultPriceRange = PriceRange{Min: 200, Max: 1000}

var categoryPrices = map[string]PriceRange{
	"office chair":     {Min: 150, Max: 900},
	"executive desk":   {Min: 800, Max: 2500},
	"sofa":             {Min: 1200, Max: 3500},
	"filing cabinet":   {Min: 200, Max: 800},
	"conference table": {Min: 1000, Max: 4000},
	"workstation":      {Min: 600, Max: 2200},
}

var (
	materialVocabulary = []string{"Wood", "Metal", "Leather", "Fabric", "Glass"}
	colorVocabulary    = []string{"Black", "White", "Brown", "Gray", "Beige"}
)

const (
	stockMin = 10
	stockMax = 60 // не включительно
)

// Generator генерирует атрибуты товара из ограниченных случайных распределений.
// Нулевое значение использует глобальный генератор math/rand/v2 и безопасно
// для конкурентного использования; генератор с собственным источником - нет.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator создает генератор поверх заданного источника (для детерминированных тестов)
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		return &Generator{}
	}
	return &Generator{rng: rand.New(src)}
}

func (g *Generator) intN(n int) int {
	if g == nil || g.rng == nil {
		return rand.IntN(n)
	}
	return g.rng.IntN(n)
}

// PriceRangeFor возвращает диапазон цены для категории
func PriceRangeFor(categoryName string) PriceRange {
	if r, ok := categoryPrices[strings.ToLower(strings.TrimSpace(categoryName))]; ok {
		return r
	}
	return DefaultPriceRange
}

// Price возвращает целую цену, равномерно распределенную в [min, max]
func (g *Generator) Price(categoryName string) int {
	r := PriceRangeFor(categoryName)
	return r.Min + g.intN(r.Max-r.Min+1)
}

// StockQuantity возвращает остаток в [10, 60)
func (g *Generator) StockQuantity() int {
	return stockMin + g.intN(stockMax-stockMin)
}

// SKU формирует артикул вида EXE-PRE-0042.
// Уникальность не гарантируется: суффикс случайный.
func (g *Generator) SKU(categoryName, productName string) string {
	return fmt.Sprintf("%s-%s-%04d",
		letterPrefix(categoryName), letterPrefix(productName), g.intN(10000))
}

// MaterialsAndColors выбирает по одному материалу и цвету из фиксированных словарей
func (g *Generator) MaterialsAndColors() (materials, colors []string) {
	materials = []string{materialVocabulary[g.intN(len(materialVocabulary))]}
	colors = []string{colorVocabulary[g.intN(len(colorVocabulary))]}
	return materials, colors
}

// letterPrefix - первые три буквы строки в верхнем регистре, небуквенные символы отбрасываются
func letterPrefix(s string) string {
	prefix := make([]rune, 0, 3)
	for _, r := range s {
		if len(prefix) == 3 {
			break
		}
		if unicode.IsLetter(r) {
			prefix = append(prefix, unicode.ToUpper(r))
		}
	}
	return string(prefix)
}

var defaultGenerator = &Generator{}

// Price - см. Generator.Price
func Price(categoryName string) int { return defaultGenerator.Price(categoryName) }

// StockQuantity - см. Generator.StockQuantity
func StockQuantity() int { return defaultGenerator.StockQuantity() }

// SKU - см. Generator.SKU
func SKU(categoryName, productName string) string {
	return defaultGenerator.SKU(categoryName, productName)
}

// MaterialsAndColors - см. Generator.MaterialsAndColors
func MaterialsAndColors() ([]string, []string) { return defaultGenerator.MaterialsAndColors() }

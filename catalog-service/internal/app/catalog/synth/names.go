// Package synth синтезирует метаданные товара для записей манифеста:
// название и описание по имени файла, а также цену, остаток, SKU и теги.
package synth

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// imageExtensions - расширения, которые отрезаются от имени файла
var imageExtensions = []string{".jpeg", ".jpg", ".png", ".webp", ".gif", ".avif"}

var separatorReplacer = strings.NewReplacer(
	"_", " ",
	"-", " ",
	"(", " ",
	")", " ",
)

const descriptionTail = "High-quality office furniture designed for modern workplace environments, built for everyday comfort and long-term durability."

// ResolveName возвращает название товара для файла изображения.
// Курированная запись имеет приоритет, иначе название выводится из имени файла.
// Пустое имя файла дает пустое название.
func ResolveName(filename, categoryName string) string {
	if o, ok := lookupOverride(filename); ok {
		return o.Name
	}
	return NameFromFilename(filename)
}

// ResolveDescription возвращает описание товара.
// subcategoryName может быть пустым для товаров верхнего уровня категории.
func ResolveDescription(filename, categoryName, subcategoryName string) string {
	if o, ok := lookupOverride(filename); ok {
		return o.Description
	}

	scope := subcategoryName
	if scope == "" {
		scope = categoryName
	}

	return fmt.Sprintf("Professional %s - %s. %s",
		strings.ToLower(scope), NameFromFilename(filename), descriptionTail)
}

// NameFromFilename: "my_custom_chair-v2.png" -> "My Custom Chair V2"
// Подряд идущие разделители и пробелы схлопываются в один пробел: "a__b.jpg" -> "A B"
func NameFromFilename(filename string) string {
	base := stripImageExtension(filename)
	base = separatorReplacer.Replace(base)

	words := strings.Fields(base)
	for i, w := range words {
		words[i] = capitalize(w)
	}

	return strings.Join(words, " ")
}

func stripImageExtension(filename string) string {
	for _, ext := range imageExtensions {
		cut := len(filename) - len(ext)
		if cut >= 0 && strings.EqualFold(filename[cut:], ext) {
			return filename[:cut]
		}
	}
	return filename
}

// capitalize переводит в верхний регистр только первую букву слова
func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + word[size:]
}

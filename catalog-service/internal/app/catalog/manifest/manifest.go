// Package manifest описывает статический манифест ассетов каталога:
// категории -> подкатегории -> файлы изображений товаров.
//
// Порядок категорий в манифесте значим: reconciliation обходит их
// ровно в том порядке, в котором они записаны в файле.
package manifest

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyManifest     = errors.New("manifest is empty")
	ErrInvalidManifest   = errors.New("invalid manifest")
	ErrDuplicateCategory = errors.New("duplicate category in manifest")
)

//go:embed default.yaml
var defaultManifestYAML []byte

var loadDefault = sync.OnceValues(func() (*Manifest, error) {
	return Parse(defaultManifestYAML)
})

// Manifest - упорядоченный список категорий
type Manifest struct {
	Categories []Category `validate:"dive"`
}

// Category - категория манифеста с подкатегориями и товарами верхнего уровня
type Category struct {
	Name          string        `yaml:"-" validate:"required"`
	Subcategories []Subcategory `yaml:"subcategories" validate:"dive"`
	Products      []string      `yaml:"products"`
}

// Subcategory - подкатегория со списком файлов изображений
type Subcategory struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Products []string `yaml:"products" json:"products"`
}

// Default возвращает встроенный манифест ассетов
// Разбирается один раз при первом обращении
func Default() (*Manifest, error) {
	return loadDefault()
}

// LoadFile читает манифест из YAML или JSON файла
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	return Parse(data)
}

// Parse разбирает манифест формата { categoryName: { subcategories: [...], products: [...] } }
// JSON является подмножеством YAML, поэтому принимаются оба формата
func Parse(data []byte) (*Manifest, error) {
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrEmptyManifest
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// UnmarshalYAML сохраняет порядок ключей верхнего уровня
func (m *Manifest) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest root must be a mapping, got line %d", node.Line)
	}

	seen := make(map[string]struct{}, len(node.Content)/2)
	categories := make([]Category, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		name := keyNode.Value
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
		}
		seen[name] = struct{}{}

		category := Category{Name: name}
		// Пустое значение (sofa: ) - категория без товаров
		if valueNode.Tag != "!!null" {
			if err := valueNode.Decode(&category); err != nil {
				return fmt.Errorf("category %q: %w", name, err)
			}
		}
		category.Name = name

		categories = append(categories, category)
	}

	m.Categories = categories
	return nil
}

// Validate проверяет структуру манифеста
// Имена файлов не проверяются: вырожденные имена допустимы
func (m *Manifest) Validate() error {
	if len(m.Categories) == 0 {
		return ErrEmptyManifest
	}

	if err := validator.New().Struct(m); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidManifest, formatValidationError(err))
	}

	return nil
}

// EntityCount возвращает общее количество сущностей манифеста
// (категории + подкатегории + записи товаров)
func (m *Manifest) EntityCount() int {
	total := 0
	for _, c := range m.Categories {
		total++
		total += len(c.Products)
		for _, s := range c.Subcategories {
			total++
			total += len(s.Products)
		}
	}
	return total
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Namespace() + " validation failed"
	}
	return err.Error()
}

package synth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==================== ResolveName Tests ====================

func TestResolveName_OverrideTakesPrecedence(t *testing.T) {
	name := ResolveName("4d Fireproof.jpg", "filing cabinet")

	assert.Equal(t, "4-Drawer Fireproof Metal Cabinet", name)
}

func TestResolveName_OverrideIsCaseSensitive(t *testing.T) {
	// Ключ таблицы сравнивается точно - другое написание идет через эвристику
	name := ResolveName("4D FIREPROOF.JPG", "filing cabinet")

	assert.Equal(t, "4D FIREPROOF", name)
}

func TestResolveName_HeuristicFallback(t *testing.T) {
	name := ResolveName("my_custom_chair-v2.png", "office chair")

	assert.Equal(t, "My Custom Chair V2", name)
}

func TestResolveName_EmptyFilename(t *testing.T) {
	assert.Equal(t, "", ResolveName("", "sofa"))
}

func TestNameFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"jpeg extension", "lounge_modular_3seat.jpeg", "Lounge Modular 3seat"},
		{"upper case extension", "steel_locker.PNG", "Steel Locker"},
		{"parentheses", "Swivel Chair (Black).webp", "Swivel Chair Black"},
		{"keeps inner case", "ErgoFlex-500.jpg", "ErgoFlex 500"},
		{"unknown extension kept", "desk.tiff", "Desk.tiff"},
		{"only extension", ".jpg", ""},
		{"separators only", "__--()", ""},
		{"extra spaces", "  wide   desk .jpg", "Wide Desk"},
		{"repeated separators collapse", "a__b.jpg", "A B"},
		{"separator next to parenthesis", "chair_(black).png", "Chair Black"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NameFromFilename(tt.filename))
		})
	}
}

// ==================== ResolveDescription Tests ====================

func TestResolveDescription_Override(t *testing.T) {
	desc := ResolveDescription("OS-0231.jpg", "sofa", "Lounge")

	assert.Equal(t, overrides["OS-0231.jpg"].Description, desc)
}

func TestResolveDescription_UsesSubcategory(t *testing.T) {
	desc := ResolveDescription("lateral_2drawer.jpg", "filing cabinet", "Lateral")

	assert.True(t, strings.HasPrefix(desc, "Professional lateral - Lateral 2drawer. High-quality office furniture designed for modern workplace environments"))
}

func TestResolveDescription_FallsBackToCategory(t *testing.T) {
	desc := ResolveDescription("mobile-pedestal.jpg", "Filing Cabinet", "")

	assert.True(t, strings.HasPrefix(desc, "Professional filing cabinet - Mobile Pedestal. "))
}

func TestOverrides_NamesAreNotEmpty(t *testing.T) {
	for filename, o := range overrides {
		assert.NotEmpty(t, o.Name, filename)
		assert.NotEmpty(t, o.Description, filename)
	}
}

// internal/domain/lens/catalog.go
package lens

import "fmt"

// Type identifies a lens option in the fixed catalog.
type Type string

const (
	TypeSingleVision Type = "single-vision"
	TypeBifocal      Type = "bifocal"
	TypeProgressive  Type = "progressive"
	TypeBluCut       Type = "blu-cut"
	TypeCRLens       Type = "cr-lens"
	TypePhotochromic Type = "photochromic"
	TypeAntiGlare    Type = "anti-glare"
)

// Option describes a purchasable lens type.
type Option struct {
	Type        Type   `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"` // Price in paise
}

// catalog holds the fixed lens offering. Prices in paise.
var catalog = map[Type]Option{
	TypeSingleVision: {
		Type:        TypeSingleVision,
		Name:        "Single Vision",
		Description: "Corrects one field of vision, near or far",
		Price:       50000,
	},
	TypeBifocal: {
		Type:        TypeBifocal,
		Name:        "Bifocal",
		Description: "Two powers in one lens with a visible segment line",
		Price:       120000,
	},
	TypeProgressive: {
		Type:        TypeProgressive,
		Name:        "Progressive",
		Description: "Seamless near-to-far correction with no line",
		Price:       200000,
	},
	TypeBluCut: {
		Type:        TypeBluCut,
		Name:        "Blu-Cut",
		Description: "Blocks blue light from digital screens",
		Price:       80000,
	},
	TypeCRLens: {
		Type:        TypeCRLens,
		Name:        "CR Lens",
		Description: "Lightweight CR-39 polymer lens",
		Price:       150000,
	},
	TypePhotochromic: {
		Type:        TypePhotochromic,
		Name:        "Photochromic",
		Description: "Darkens outdoors, clears indoors",
		Price:       180000,
	},
	TypeAntiGlare: {
		Type:        TypeAntiGlare,
		Name:        "Anti-Glare",
		Description: "Anti-reflective coating for night driving",
		Price:       60000,
	},
}

// catalogOrder fixes the display ordering of lens options.
var catalogOrder = []Type{
	TypeSingleVision,
	TypeBifocal,
	TypeProgressive,
	TypeBluCut,
	TypeCRLens,
	TypePhotochromic,
	TypeAntiGlare,
}

// Catalog returns all lens options in display order.
func Catalog() []Option {
	options := make([]Option, 0, len(catalogOrder))
	for _, t := range catalogOrder {
		options = append(options, catalog[t])
	}
	return options
}

// Lookup returns the catalog option for a lens type.
func Lookup(t Type) (Option, error) {
	opt, ok := catalog[t]
	if !ok {
		return Option{}, fmt.Errorf("unknown lens type: %s", t)
	}
	return opt, nil
}

// IsValidType reports whether t names a catalog lens type.
func IsValidType(t Type) bool {
	_, ok := catalog[t]
	return ok
}

// SupportsAddPower reports whether the lens type carries a reading ADD
// power. Only multifocal lenses do.
func SupportsAddPower(t Type) bool {
	return t == TypeBifocal || t == TypeProgressive
}

// internal/domain/lens/prescription_test.go
package lens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSphere(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		vision VisionType
		want   string
	}{
		{"near gets plus", "1.25", VisionNear, "+1.25"},
		{"far gets minus", "1.25", VisionFar, "-1.25"},
		{"existing plus replaced for far", "+2.00", VisionFar, "-2.00"},
		{"existing minus replaced for near", "-2.00", VisionNear, "+2.00"},
		{"idempotent on correctly signed input", "+0.75", VisionNear, "+0.75"},
		{"whitespace trimmed", " 1.50 ", VisionFar, "-1.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSphere(tt.value, tt.vision)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty value stays empty", func(t *testing.T) {
		got, err := NormalizeSphere("", VisionNear)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("sign-only value rejected", func(t *testing.T) {
		_, err := NormalizeSphere("+", VisionNear)
		assert.Error(t, err)
	})

	t.Run("unknown vision type rejected", func(t *testing.T) {
		_, err := NormalizeSphere("1.00", VisionType("sideways"))
		assert.Error(t, err)
	})
}

func TestPrescriptionNormalize(t *testing.T) {
	t.Run("manual signs both eyes", func(t *testing.T) {
		p := Prescription{
			VisionType:  VisionFar,
			EntryMethod: EntryManual,
			RightEye:    EyePower{Sphere: "1.25"},
			LeftEye:     EyePower{Sphere: "+0.75"},
		}
		require.NoError(t, p.Normalize())
		assert.Equal(t, "-1.25", p.RightEye.Sphere)
		assert.Equal(t, "-0.75", p.LeftEye.Sphere)
	})

	t.Run("same for both eyes copies right to left", func(t *testing.T) {
		p := Prescription{
			VisionType:      VisionNear,
			EntryMethod:     EntryManual,
			SameForBothEyes: true,
			RightEye:        EyePower{Sphere: "2.00", Cylinder: "-0.50"},
		}
		require.NoError(t, p.Normalize())
		assert.Equal(t, "+2.00", p.RightEye.Sphere)
		assert.Equal(t, p.RightEye, p.LeftEye)
	})

	t.Run("upload forces same for both eyes", func(t *testing.T) {
		p := Prescription{
			EntryMethod:     EntryUpload,
			SameForBothEyes: false,
			FileURL:         "https://cdn.example.com/rx.pdf",
		}
		require.NoError(t, p.Normalize())
		assert.True(t, p.SameForBothEyes)
	})
}

func TestPrescriptionValidate(t *testing.T) {
	t.Run("upload requires file", func(t *testing.T) {
		p := Prescription{EntryMethod: EntryUpload}
		assert.Error(t, p.Validate(TypeSingleVision))

		p.FileURL = "https://cdn.example.com/rx.pdf"
		assert.NoError(t, p.Validate(TypeSingleVision))
	})

	t.Run("manual requires right sphere", func(t *testing.T) {
		p := Prescription{
			EntryMethod: EntryManual,
			VisionType:  VisionNear,
		}
		assert.Error(t, p.Validate(TypeSingleVision))
	})

	t.Run("manual requires left sphere unless same for both", func(t *testing.T) {
		p := Prescription{
			EntryMethod: EntryManual,
			VisionType:  VisionNear,
			RightEye:    EyePower{Sphere: "1.00"},
		}
		assert.Error(t, p.Validate(TypeSingleVision))

		p.SameForBothEyes = true
		assert.NoError(t, p.Validate(TypeSingleVision))
	})

	t.Run("add power rejected for single vision", func(t *testing.T) {
		p := Prescription{
			EntryMethod:     EntryManual,
			VisionType:      VisionNear,
			SameForBothEyes: true,
			RightEye:        EyePower{Sphere: "1.00", Add: "+1.50"},
		}
		assert.Error(t, p.Validate(TypeSingleVision))
		assert.NoError(t, p.Validate(TypeProgressive))
		assert.NoError(t, p.Validate(TypeBifocal))
	})
}

func TestCatalog(t *testing.T) {
	options := Catalog()
	require.Len(t, options, 7)

	prices := map[Type]int64{
		TypeSingleVision: 50000,
		TypeBifocal:      120000,
		TypeProgressive:  200000,
		TypeBluCut:       80000,
		TypeCRLens:       150000,
		TypePhotochromic: 180000,
		TypeAntiGlare:    60000,
	}
	for _, opt := range options {
		assert.Equal(t, prices[opt.Type], opt.Price, "price for %s", opt.Type)
	}

	_, err := Lookup(Type("trifocal"))
	assert.Error(t, err)

	assert.True(t, SupportsAddPower(TypeBifocal))
	assert.True(t, SupportsAddPower(TypeProgressive))
	assert.False(t, SupportsAddPower(TypeAntiGlare))
}

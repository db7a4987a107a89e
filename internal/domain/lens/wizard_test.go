// internal/domain/lens/wizard_test.go
package lens

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardManualPath(t *testing.T) {
	s := NewSession(1, "frame-1")
	assert.Equal(t, StepEntryMethod, s.Step)

	// Cannot leave the first step without choosing an entry method.
	assert.Error(t, s.Next())

	require.NoError(t, s.SetEntryMethod(EntryManual))
	require.NoError(t, s.Next())
	assert.Equal(t, StepLensType, s.Step)

	// Lens type guard.
	assert.Error(t, s.Next())
	require.NoError(t, s.SetLensType(TypeSingleVision))
	require.NoError(t, s.Next())
	assert.Equal(t, StepPowerEntry, s.Step)

	// Power guard requires a right sphere.
	assert.Error(t, s.Next())
	s.SetPrescription(Prescription{
		VisionType:      VisionFar,
		SameForBothEyes: true,
		RightEye:        EyePower{Sphere: "1.25"},
	})
	require.NoError(t, s.Next())
	assert.Equal(t, StepReview, s.Step)

	// Last step.
	assert.Error(t, s.Next())
}

func TestWizardUploadSkipsPowerEntry(t *testing.T) {
	s := NewSession(1, "frame-1")
	require.NoError(t, s.SetEntryMethod(EntryUpload))
	require.NoError(t, s.Next())
	assert.Equal(t, StepLensType, s.Step)

	require.NoError(t, s.SetLensType(TypeBluCut))

	// Upload flow cannot leave lens-type without a file.
	assert.Error(t, s.Next())
	s.SetPrescriptionFile("https://cdn.example.com/rx.pdf")
	require.NoError(t, s.Next())

	// Power entry was skipped entirely.
	assert.Equal(t, StepReview, s.Step)
}

func TestWizardBackWalksSamePath(t *testing.T) {
	t.Run("manual", func(t *testing.T) {
		s := NewSession(1, "frame-1")
		require.NoError(t, s.SetEntryMethod(EntryManual))
		require.NoError(t, s.Next())
		require.NoError(t, s.SetLensType(TypeCRLens))
		require.NoError(t, s.Next())
		assert.Equal(t, StepPowerEntry, s.Step)

		require.NoError(t, s.Back())
		assert.Equal(t, StepLensType, s.Step)
		require.NoError(t, s.Back())
		assert.Equal(t, StepEntryMethod, s.Step)
		assert.Error(t, s.Back())
	})

	t.Run("upload back from review lands on lens-type", func(t *testing.T) {
		s := NewSession(1, "frame-1")
		require.NoError(t, s.SetEntryMethod(EntryUpload))
		require.NoError(t, s.Next())
		require.NoError(t, s.SetLensType(TypeCRLens))
		s.SetPrescriptionFile("https://cdn.example.com/rx.pdf")
		require.NoError(t, s.Next())
		assert.Equal(t, StepReview, s.Step)

		require.NoError(t, s.Back())
		assert.Equal(t, StepLensType, s.Step)
	})
}

func TestWizardCommit(t *testing.T) {
	now := time.UnixMilli(1700000000000).UTC()

	t.Run("manual commit normalizes and prices", func(t *testing.T) {
		s := NewSession(1, "frame-1")
		require.NoError(t, s.SetEntryMethod(EntryManual))
		require.NoError(t, s.Next())
		require.NoError(t, s.SetLensType(TypeProgressive))
		require.NoError(t, s.Next())
		s.SetPrescription(Prescription{
			VisionType:      VisionNear,
			SameForBothEyes: true,
			RightEye:        EyePower{Sphere: "1.75", Add: "+2.00"},
		})
		require.NoError(t, s.Next())
		require.Equal(t, StepReview, s.Step)

		sel, err := s.Commit(now)
		require.NoError(t, err)

		assert.Equal(t, "lens-progressive-1700000000000", sel.LensID)
		assert.Equal(t, TypeProgressive, sel.LensType)
		assert.Equal(t, int64(200000), sel.Price)
		assert.Equal(t, "+1.75", sel.Prescription.RightEye.Sphere)
		assert.Equal(t, sel.Prescription.RightEye, sel.Prescription.LeftEye)
	})

	t.Run("upload commit forces same for both eyes", func(t *testing.T) {
		s := NewSession(1, "frame-1")
		require.NoError(t, s.SetEntryMethod(EntryUpload))
		require.NoError(t, s.Next())
		require.NoError(t, s.SetLensType(TypeBluCut))
		s.SetPrescriptionFile("https://cdn.example.com/rx.pdf")
		require.NoError(t, s.Next())
		require.Equal(t, StepReview, s.Step)

		sel, err := s.Commit(now)
		require.NoError(t, err)

		assert.True(t, sel.Prescription.SameForBothEyes)
		assert.True(t, strings.HasPrefix(sel.LensID, "lens-blu-cut-"))
		assert.Equal(t, int64(80000), sel.Price)
	})

	t.Run("commit before review is rejected", func(t *testing.T) {
		s := NewSession(1, "frame-1")
		require.NoError(t, s.SetEntryMethod(EntryManual))
		require.NoError(t, s.Next())
		require.NoError(t, s.SetLensType(TypeSingleVision))
		require.NoError(t, s.Next())
		s.SetPrescription(Prescription{
			VisionType:      VisionFar,
			SameForBothEyes: true,
			RightEye:        EyePower{Sphere: "1.25"},
		})
		require.Equal(t, StepPowerEntry, s.Step)

		// Fields validate, but the session has not reached review.
		_, err := s.Commit(now)
		assert.Error(t, err)

		require.NoError(t, s.Next())
		_, err = s.Commit(now)
		assert.NoError(t, err)
	})
}

func TestSetLensTypeClearsAddForSingleVision(t *testing.T) {
	s := NewSession(1, "frame-1")
	require.NoError(t, s.SetEntryMethod(EntryManual))
	require.NoError(t, s.SetLensType(TypeBifocal))
	s.SetPrescription(Prescription{
		VisionType:      VisionNear,
		SameForBothEyes: true,
		RightEye:        EyePower{Sphere: "1.00", Add: "+1.50"},
	})

	require.NoError(t, s.SetLensType(TypeSingleVision))
	assert.Empty(t, s.Prescription.RightEye.Add)
	assert.Empty(t, s.Prescription.LeftEye.Add)
}

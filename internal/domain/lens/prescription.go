// internal/domain/lens/prescription.go
package lens

import (
	"fmt"
	"strings"
)

// VisionType distinguishes near-sighted from far-sighted prescriptions.
type VisionType string

const (
	VisionNear VisionType = "near"
	VisionFar  VisionType = "far"
)

// EntryMethod is how the customer supplies their prescription.
type EntryMethod string

const (
	EntryManual EntryMethod = "manual"
	EntryUpload EntryMethod = "upload"
)

// EyePower holds the power values for one eye.
type EyePower struct {
	Sphere   string `json:"sphere"`
	Cylinder string `json:"cylinder,omitempty"`
	Axis     string `json:"axis,omitempty"`
	Add      string `json:"add,omitempty"`
}

// Prescription is the lens prescription attached to a cart item.
type Prescription struct {
	VisionType      VisionType  `json:"vision_type"`
	EntryMethod     EntryMethod `json:"entry_method"`
	SameForBothEyes bool        `json:"same_for_both_eyes"`
	RightEye        EyePower    `json:"right_eye"`
	LeftEye         EyePower    `json:"left_eye"`
	FileURL         string      `json:"file_url,omitempty"`
}

// SignForVision returns the sphere sign implied by the vision type.
// Near-sighted readers get plus powers, far-sighted get minus.
func SignForVision(v VisionType) (string, error) {
	switch v {
	case VisionNear:
		return "+", nil
	case VisionFar:
		return "-", nil
	default:
		return "", fmt.Errorf("unknown vision type: %s", v)
	}
}

// NormalizeSphere strips any sign the customer typed and prefixes the one
// derived from the vision type. Idempotent on already-signed input.
func NormalizeSphere(value string, v VisionType) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}

	sign, err := SignForVision(v)
	if err != nil {
		return "", err
	}

	stripped := strings.TrimLeft(trimmed, "+-")
	if stripped == "" {
		return "", fmt.Errorf("invalid sphere value: %s", value)
	}

	return sign + stripped, nil
}

// Normalize applies vision-type sphere signs to both eyes and enforces the
// upload invariants. Upload prescriptions always apply to both eyes.
func (p *Prescription) Normalize() error {
	if p.EntryMethod == EntryUpload {
		p.SameForBothEyes = true
		return nil
	}

	right, err := NormalizeSphere(p.RightEye.Sphere, p.VisionType)
	if err != nil {
		return fmt.Errorf("right eye: %w", err)
	}
	p.RightEye.Sphere = right

	if p.SameForBothEyes {
		p.LeftEye = p.RightEye
		return nil
	}

	left, err := NormalizeSphere(p.LeftEye.Sphere, p.VisionType)
	if err != nil {
		return fmt.Errorf("left eye: %w", err)
	}
	p.LeftEye.Sphere = left

	return nil
}

// Validate checks a manual prescription has the powers the chosen lens type
// needs. Upload prescriptions need only the file reference.
func (p *Prescription) Validate(lensType Type) error {
	switch p.EntryMethod {
	case EntryUpload:
		if p.FileURL == "" {
			return fmt.Errorf("prescription file is required")
		}
		return nil
	case EntryManual:
		if p.VisionType != VisionNear && p.VisionType != VisionFar {
			return fmt.Errorf("vision type is required")
		}
		if strings.TrimSpace(p.RightEye.Sphere) == "" {
			return fmt.Errorf("right eye sphere is required")
		}
		if !p.SameForBothEyes && strings.TrimSpace(p.LeftEye.Sphere) == "" {
			return fmt.Errorf("left eye sphere is required")
		}
		if !SupportsAddPower(lensType) && (p.RightEye.Add != "" || p.LeftEye.Add != "") {
			return fmt.Errorf("add power only applies to bifocal and progressive lenses")
		}
		return nil
	default:
		return fmt.Errorf("unknown entry method: %s", p.EntryMethod)
	}
}

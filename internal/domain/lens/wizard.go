// internal/domain/lens/wizard.go
package lens

import (
	"fmt"
	"strings"
	"time"
)

// Step identifies a wizard screen.
type Step string

const (
	StepEntryMethod Step = "entry-method"
	StepLensType    Step = "lens-type"
	StepPowerEntry  Step = "power-entry"
	StepReview      Step = "review"
)

// Session is one in-progress lens configuration for a frame. It lives in
// Redis between requests, keyed by (user, product).
type Session struct {
	UserID       uint         `json:"user_id"`
	ProductID    string       `json:"product_id"`
	Step         Step         `json:"step"`
	EntryMethod  EntryMethod  `json:"entry_method,omitempty"`
	LensType     Type         `json:"lens_type,omitempty"`
	Prescription Prescription `json:"prescription"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewSession starts a wizard at the first step.
func NewSession(userID uint, productID string) *Session {
	now := time.Now().UTC()
	return &Session{
		UserID:    userID,
		ProductID: productID,
		Step:      StepEntryMethod,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// path returns the ordered steps for the session's entry method. Upload
// prescriptions skip manual power entry. Next and Back both walk this path,
// so the skip rule lives only here.
func (s *Session) path() []Step {
	if s.EntryMethod == EntryUpload {
		return []Step{StepEntryMethod, StepLensType, StepReview}
	}
	return []Step{StepEntryMethod, StepLensType, StepPowerEntry, StepReview}
}

// stepIndex locates the current step on the path.
func (s *Session) stepIndex() int {
	for i, step := range s.path() {
		if step == s.Step {
			return i
		}
	}
	return 0
}

// CanProceed checks the guard for leaving the current step.
func (s *Session) CanProceed() error {
	switch s.Step {
	case StepEntryMethod:
		if s.EntryMethod != EntryManual && s.EntryMethod != EntryUpload {
			return fmt.Errorf("select how to provide your prescription")
		}
	case StepLensType:
		if !IsValidType(s.LensType) {
			return fmt.Errorf("select a lens type")
		}
		if s.EntryMethod == EntryUpload && s.Prescription.FileURL == "" {
			return fmt.Errorf("upload your prescription to continue")
		}
	case StepPowerEntry:
		if strings.TrimSpace(s.Prescription.RightEye.Sphere) == "" {
			return fmt.Errorf("right eye sphere is required")
		}
		if !s.Prescription.SameForBothEyes && strings.TrimSpace(s.Prescription.LeftEye.Sphere) == "" {
			return fmt.Errorf("left eye sphere is required")
		}
	case StepReview:
		// Review is the last step, committing handles its validation.
	}
	return nil
}

// Next advances to the following step after checking the guard.
func (s *Session) Next() error {
	if err := s.CanProceed(); err != nil {
		return err
	}

	path := s.path()
	idx := s.stepIndex()
	if idx >= len(path)-1 {
		return fmt.Errorf("already at the last step")
	}

	s.Step = path[idx+1]
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// Back returns to the previous step. No guard applies going backwards.
func (s *Session) Back() error {
	idx := s.stepIndex()
	if idx == 0 {
		return fmt.Errorf("already at the first step")
	}

	s.Step = s.path()[idx-1]
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetEntryMethod records the entry method. Choosing upload rebases the
// session onto the shorter path.
func (s *Session) SetEntryMethod(m EntryMethod) error {
	if m != EntryManual && m != EntryUpload {
		return fmt.Errorf("unknown entry method: %s", m)
	}
	s.EntryMethod = m
	s.Prescription.EntryMethod = m
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetLensType records the lens choice.
func (s *Session) SetLensType(t Type) error {
	if !IsValidType(t) {
		return fmt.Errorf("unknown lens type: %s", t)
	}
	if !SupportsAddPower(t) {
		s.Prescription.RightEye.Add = ""
		s.Prescription.LeftEye.Add = ""
	}
	s.LensType = t
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPrescription merges power values entered on the power step.
func (s *Session) SetPrescription(p Prescription) {
	p.EntryMethod = s.EntryMethod
	if p.FileURL == "" {
		p.FileURL = s.Prescription.FileURL
	}
	s.Prescription = p
	s.UpdatedAt = time.Now().UTC()
}

// SetPrescriptionFile records an uploaded prescription file reference.
func (s *Session) SetPrescriptionFile(url string) {
	s.Prescription.FileURL = url
	s.UpdatedAt = time.Now().UTC()
}

// Selection is the committed outcome of a wizard: a lens line item plus its
// normalized prescription, ready to attach to the cart.
type Selection struct {
	LensID       string       `json:"lens_id"`
	LensType     Type         `json:"lens_type"`
	Name         string       `json:"name"`
	Price        int64        `json:"price"`
	Prescription Prescription `json:"prescription"`
}

// Commit validates and normalizes the session into a Selection. Committing
// is the review step's action; earlier steps must walk forward first. The
// lens id embeds the commit time so repeated configurations stay distinct.
func (s *Session) Commit(now time.Time) (*Selection, error) {
	if s.Step != StepReview {
		return nil, fmt.Errorf("review your selection before committing")
	}

	opt, err := Lookup(s.LensType)
	if err != nil {
		return nil, err
	}

	if err := s.Prescription.Validate(s.LensType); err != nil {
		return nil, err
	}

	if err := s.Prescription.Normalize(); err != nil {
		return nil, err
	}

	return &Selection{
		LensID:       fmt.Sprintf("lens-%s-%d", s.LensType, now.UnixMilli()),
		LensType:     s.LensType,
		Name:         opt.Name,
		Price:        opt.Price,
		Prescription: s.Prescription,
	}, nil
}

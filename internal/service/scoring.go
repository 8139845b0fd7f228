package service

import (
	"github.com/sirupsen/logrus"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

// ScoringService implements the standardized stroke scores. Every method is a
// pure function of its input map: no state, no side effects beyond debug
// logging, and the result is invariant to map iteration order because every
// total is a commutative sum or count.
type ScoringService struct {
	logger *logrus.Logger
}

// NewScoringService creates a new scoring engine
func NewScoringService(logger *logrus.Logger) *ScoringService {
	return &ScoringService{logger: logger}
}

// NIHSSTotal computes the full NIHSS total: the sum of all fifteen item
// severity codes. Every item is required and range-checked against its own
// definition; a missing item fails with IncompleteInputError and an
// out-of-range or unrecognized item fails with InvalidComponentError. No
// partial score is ever returned.
func (s *ScoringService) NIHSSTotal(items map[string]int) (int, error) {
	total, err := s.sumItems(domain.NIHSSItems, items)
	if err != nil {
		return 0, err
	}
	s.logger.WithFields(logrus.Fields{
		"score": "nihss",
		"total": total,
	}).Debug("Computed NIHSS total")
	return total, nil
}

// MNIHSSTotal computes the modified NIHSS total over the reduced item set.
// The input uses full-NIHSS coding: items outside the modified subset are
// ignored, and the sensory item is collapsed to its two-point modified scale.
func (s *ScoringService) MNIHSSTotal(items map[string]int) (int, error) {
	// Keys must still belong to the NIHSS vocabulary.
	for name, value := range items {
		if _, ok := domain.NIHSSItems[name]; !ok {
			return 0, domain.NewInvalidComponentError(name, value, "unknown NIHSS item")
		}
	}

	total := 0
	for name := range domain.MNIHSSItems {
		value, ok := items[name]
		if !ok {
			return 0, domain.NewIncompleteInputError(name)
		}
		if !domain.NIHSSItems[name].Contains(value) {
			return 0, domain.NewInvalidComponentError(name, value, "value outside item range")
		}
		if name == domain.ComponentNIHSS8Sensory && value > 1 {
			value = 1
		}
		total += value
	}

	s.logger.WithFields(logrus.Fields{
		"score": "mnihss",
		"total": total,
	}).Debug("Computed modified NIHSS total")
	return total, nil
}

// BEFASTTotal computes the BE-FAST+ total: the count of positive findings
// among the fixed boolean item set. Every item is required.
func (s *ScoringService) BEFASTTotal(items map[string]bool) (int, error) {
	for name, value := range items {
		known := false
		for _, item := range domain.BEFASTItems {
			if item == name {
				known = true
				break
			}
		}
		if !known {
			return 0, domain.NewInvalidComponentError(name, value, "unknown BE-FAST item")
		}
	}

	total := 0
	for _, name := range domain.BEFASTItems {
		positive, ok := items[name]
		if !ok {
			return 0, domain.NewIncompleteInputError(name)
		}
		if positive {
			total++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"score": "be_fast",
		"total": total,
	}).Debug("Computed BE-FAST total")
	return total, nil
}

// RACETotal derives the RACE score for LVO prediction from NIHSS item codes.
// Item contributions: facial palsy 0-2, worse-arm motor 0-2, worse-leg motor
// 0-2, head/gaze deviation 0-2, aphasia 2 when language is 2 or worse, and
// agnosia 1 when any extinction is present, summed for a total in [0,11].
// All consumed items are required.
func (s *ScoringService) RACETotal(items map[string]int) (int, error) {
	for _, name := range domain.RACERequiredItems {
		value, ok := items[name]
		if !ok {
			return 0, domain.NewIncompleteInputError(name)
		}
		if !domain.NIHSSItems[name].Contains(value) {
			return 0, domain.NewInvalidComponentError(name, value, "value outside item range")
		}
	}

	total := 0

	// Facial palsy (NIHSS 4)
	switch facial := items[domain.ComponentNIHSS4FacialPalsy]; {
	case facial >= 2:
		total += 2
	case facial == 1:
		total++
	}

	// Arm motor, worse side (NIHSS 5a/5b)
	total += motorPoints(max(items[domain.ComponentNIHSS5aMotorLeftArm], items[domain.ComponentNIHSS5bMotorRightArm]))

	// Leg motor, worse side (NIHSS 6a/6b)
	total += motorPoints(max(items[domain.ComponentNIHSS6aMotorLeftLeg], items[domain.ComponentNIHSS6bMotorRightLeg]))

	// Head/gaze deviation (NIHSS 2)
	switch gaze := items[domain.ComponentNIHSS2BestGaze]; {
	case gaze >= 2:
		total += 2
	case gaze == 1:
		total++
	}

	// Aphasia (NIHSS 9)
	if items[domain.ComponentNIHSS9BestLanguage] >= 2 {
		total += 2
	}

	// Agnosia (NIHSS 11)
	if items[domain.ComponentNIHSS11Extinction] >= 1 {
		total++
	}

	s.logger.WithFields(logrus.Fields{
		"score": "race",
		"total": total,
	}).Debug("Computed RACE total")
	return total, nil
}

// ASPECTSTotal computes the Alberta Stroke Program Early CT Score: ten minus
// the count of regions marked abnormal. A nil region map means imaging has
// not been scored and fails with IncompleteInputError; a region name outside
// the defined set fails with InvalidComponentError. Regions present in the
// map but false were scored and found normal; regions absent from a non-nil
// map are treated as normal.
func (s *ScoringService) ASPECTSTotal(regions map[string]bool) (int, error) {
	if regions == nil {
		return 0, domain.NewIncompleteInputError("aspects_regions")
	}

	abnormal := 0
	for name, isAbnormal := range regions {
		if !domain.IsASPECTSRegion(name) {
			return 0, domain.NewInvalidComponentError(name, isAbnormal, "unknown ASPECTS region")
		}
		if isAbnormal {
			abnormal++
		}
	}

	total := domain.ASPECTSMaxScore - abnormal
	if total < 0 {
		total = 0
	}

	s.logger.WithFields(logrus.Fields{
		"score":    "aspects",
		"abnormal": abnormal,
		"total":    total,
	}).Debug("Computed ASPECTS total")
	return total, nil
}

// sumItems validates and sums integer severity codes against a vocabulary.
func (s *ScoringService) sumItems(vocab map[string]domain.ItemRange, items map[string]int) (int, error) {
	for name, value := range items {
		if _, ok := vocab[name]; !ok {
			return 0, domain.NewInvalidComponentError(name, value, "unknown item")
		}
	}

	total := 0
	for name, r := range vocab {
		value, ok := items[name]
		if !ok {
			return 0, domain.NewIncompleteInputError(name)
		}
		if !r.Contains(value) {
			return 0, domain.NewInvalidComponentError(name, value, "value outside item range")
		}
		total += value
	}
	return total, nil
}

// InterpretASPECTS maps an ASPECTS total to its severity band. Band
// boundaries are configuration constants: a full score is normal, scores at
// or above mildThreshold are mild, at or above moderateThreshold moderate,
// and anything below that severe.
func InterpretASPECTS(score, mildThreshold, moderateThreshold int) (domain.ASPECTSBand, error) {
	if score < 0 || score > domain.ASPECTSMaxScore {
		return "", domain.NewInvalidComponentError("aspects_score", score, "score outside [0,10]")
	}
	switch {
	case score == domain.ASPECTSMaxScore:
		return domain.ASPECTS_NORMAL, nil
	case score >= mildThreshold:
		return domain.ASPECTS_MILD, nil
	case score >= moderateThreshold:
		return domain.ASPECTS_MODERATE, nil
	default:
		return domain.ASPECTS_SEVERE, nil
	}
}

// motorPoints maps a worse-side NIHSS motor code to RACE points.
func motorPoints(worse int) int {
	switch {
	case worse >= 4:
		return 2
	case worse >= 2:
		return 1
	default:
		return 0
	}
}

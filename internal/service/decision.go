package service

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

// DecisionService derives treatment eligibility, dosing, blood-pressure
// targets, and triage recommendations from scores, timing, and imaging
// inputs. All thresholds come from the injected guideline configuration,
// which is treated as immutable; the service itself holds no mutable state.
type DecisionService struct {
	guidelines *domain.GuidelineConfig
	facility   *domain.FacilityConfig
	logger     *logrus.Logger
	rules      []triageRule
}

// triageRule pairs a predicate with its recommendation. Rules are evaluated
// top to bottom and the first match wins; the last rule must always match.
type triageRule struct {
	name    string
	applies func(tpa, thrombectomy domain.Eligibility) bool
	result  domain.TriageRecommendation
}

// NewDecisionService creates a new decision engine
func NewDecisionService(guidelines *domain.GuidelineConfig, facility *domain.FacilityConfig, logger *logrus.Logger) *DecisionService {
	s := &DecisionService{
		guidelines: guidelines,
		facility:   facility,
		logger:     logger,
	}
	s.rules = []triageRule{
		{
			name: "thrombectomy_without_capability",
			applies: func(_, thrombectomy domain.Eligibility) bool {
				return thrombectomy.IsEligible() && !facility.ThrombectomyCapable
			},
			result: domain.TRANSFER_TO_CSC,
		},
		{
			name: "thrombolysis_eligible",
			applies: func(tpa, _ domain.Eligibility) bool {
				return tpa.IsEligible()
			},
			result: domain.TREAT_AND_ADMIT,
		},
		{
			name: "default_stroke_unit",
			applies: func(_, _ domain.Eligibility) bool {
				return true
			},
			result: domain.STROKE_UNIT,
		},
	}
	return s
}

// Decide evaluates all recommendation outputs for one assessment. It never
// defaults a missing input: absent timestamps fail with IncompleteInputError
// and an evaluation time before last known well fails with
// InvalidTimingError.
func (s *DecisionService) Decide(input *domain.DecisionInput) (*domain.Recommendation, error) {
	if input.LastKnownWell == nil {
		return nil, domain.NewIncompleteInputError("last_known_well_time")
	}
	if input.EvaluationTime == nil {
		return nil, domain.NewIncompleteInputError("evaluation_time")
	}

	hours, err := s.HoursSinceLKW(*input.LastKnownWell, *input.EvaluationTime)
	if err != nil {
		return nil, err
	}

	tpa, tpaReason := s.thrombolysisEligibility(input, hours)
	thrombectomy, thrombectomyReason := s.thrombectomyEligibility(input, hours)

	rec := &domain.Recommendation{
		TPAEligibility:     tpa,
		TPAReason:          tpaReason,
		Thrombectomy:       thrombectomy,
		ThrombectomyReason: thrombectomyReason,
		BPTarget:           s.bpTarget(tpa, thrombectomy),
	}

	if tpa.IsEligible() {
		dose := s.TPADose(input.WeightKg)
		rec.TPADoseMg = &dose
	}

	rec.Triage = s.triage(tpa, thrombectomy)
	rec.TriageText = rec.Triage.Description()

	if input.ArrivalTime != nil {
		rec.TimeTargets = s.timeTargets(*input.ArrivalTime)
	}

	s.logger.WithFields(logrus.Fields{
		"hours_since_lkw": hours,
		"tpa":             tpa.String(),
		"thrombectomy":    thrombectomy.String(),
		"triage":          rec.Triage.String(),
	}).Info("Completed decision evaluation")

	return rec, nil
}

// HoursSinceLKW returns the elapsed time between last known well and the
// evaluation time in hours, rounded to two decimal places. A negative
// interval is a typed failure: evaluation cannot precede symptom onset.
func (s *DecisionService) HoursSinceLKW(lkw, eval time.Time) (float64, error) {
	delta := eval.Sub(lkw)
	if delta < 0 {
		return 0, domain.NewInvalidTimingError(lkw, eval)
	}
	return math.Round(delta.Hours()*100) / 100, nil
}

// thrombolysisEligibility applies the tPA gate: inside the window (inclusive
// upper bound), no hemorrhage, blood pressure under the treatment limits, no
// contraindication flags, and deficit at or above the minimum severity.
func (s *DecisionService) thrombolysisEligibility(input *domain.DecisionInput, hours float64) (domain.Eligibility, string) {
	g := s.guidelines

	if hours > g.ThrombolysisWindowHours {
		return domain.NOT_ELIGIBLE, "outside thrombolysis window"
	}
	if input.HemorrhagePresent {
		return domain.CONTRAINDICATED, "intracranial hemorrhage"
	}
	if input.SystolicBP > g.TPAMaxSystolicBP || input.DiastolicBP > g.TPAMaxDiastolicBP {
		return domain.CONTRAINDICATED, "blood pressure above treatment limit"
	}
	if input.RecentSurgery || input.PriorStrokeHeadTrauma || input.GIUrinaryHemorrhage {
		return domain.CONTRAINDICATED, "major bleeding risk factors"
	}
	if input.LowPlatelets {
		return domain.CONTRAINDICATED, "platelet count below threshold"
	}
	if input.ElevatedINR {
		return domain.CONTRAINDICATED, "elevated INR"
	}
	if input.CurrentAnticoagUse {
		return domain.CONTRAINDICATED, "current anticoagulant use"
	}
	if input.NIHSS < g.NIHSSMinSeverity {
		return domain.NOT_ELIGIBLE, "deficit below minimum severity"
	}
	return domain.ELIGIBLE, "within window, no contraindications"
}

// thrombectomyEligibility applies the mechanical thrombectomy gate: inside
// the longer window, no hemorrhage, LVO present, and favorable imaging.
func (s *DecisionService) thrombectomyEligibility(input *domain.DecisionInput, hours float64) (domain.Eligibility, string) {
	g := s.guidelines

	if hours > g.ThrombectomyWindowHours {
		return domain.NOT_ELIGIBLE, "outside thrombectomy window"
	}
	if input.HemorrhagePresent {
		return domain.CONTRAINDICATED, "intracranial hemorrhage"
	}
	if input.LVOStatus != domain.LVO_PRESENT {
		return domain.NOT_ELIGIBLE, "no large vessel occlusion detected"
	}
	if input.ASPECTS < g.ASPECTSMinFavorable {
		return domain.NOT_ELIGIBLE, "unfavorable imaging (ASPECTS below threshold)"
	}
	return domain.ELIGIBLE, "within window, LVO present, favorable imaging"
}

// TPADose computes the weight-based tPA dose in mg, capped at the configured
// maximum and rounded to one decimal place.
func (s *DecisionService) TPADose(weightKg float64) float64 {
	dose := weightKg * s.guidelines.TPADoseMgPerKg
	if dose > s.guidelines.TPAMaxDoseMg {
		dose = s.guidelines.TPAMaxDoseMg
	}
	return math.Round(dose*10) / 10
}

// bpTarget selects the blood-pressure band: the tight treatment band when
// either intervention is on the table, permissive hypertension otherwise.
// This is a lookup, not a computation.
func (s *DecisionService) bpTarget(tpa, thrombectomy domain.Eligibility) domain.BPTarget {
	if tpa.IsEligible() || thrombectomy.IsEligible() {
		return domain.BPTarget{
			SystolicMax:  s.guidelines.TPAMaxSystolicBP,
			DiastolicMax: s.guidelines.TPAMaxDiastolicBP,
		}
	}
	return domain.BPTarget{
		SystolicMax:  s.guidelines.PermissiveSystolicBP,
		DiastolicMax: s.guidelines.PermissiveDiastolicBP,
	}
}

// triage walks the ordered rule list and returns the first match.
func (s *DecisionService) triage(tpa, thrombectomy domain.Eligibility) domain.TriageRecommendation {
	for _, rule := range s.rules {
		if rule.applies(tpa, thrombectomy) {
			s.logger.WithField("rule", rule.name).Debug("Triage rule matched")
			return rule.result
		}
	}
	// The default rule always matches; this is unreachable.
	return domain.STROKE_UNIT
}

// timeTargets derives the door-to-intervention targets from arrival time.
func (s *DecisionService) timeTargets(arrival time.Time) *domain.TimeTargets {
	g := s.guidelines
	return &domain.TimeTargets{
		DoorToCT:       arrival.Add(time.Duration(g.DoorToCTMinutes) * time.Minute),
		DoorToNeedle:   arrival.Add(time.Duration(g.DoorToNeedleMinutes) * time.Minute),
		DoorToPuncture: arrival.Add(time.Duration(g.DoorToPunctureMinutes) * time.Minute),
	}
}

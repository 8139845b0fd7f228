package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"

	"github.com/neurotriage/stroke-triage-server/internal/domain"
)

// Evaluator orchestrates compute-on-demand evaluation: it derives the full
// score set and recommendation for an assessment from its stored components,
// every time, so derived values can never drift from the raw observations.
//
// Because the engines are deterministic, completed evaluations are memoized
// in an LRU cache keyed by a fingerprint of every input the engines consume.
// A cache hit is by construction identical to a recomputation.
type Evaluator struct {
	scoring  *ScoringService
	decision *DecisionService
	cache    *lru.Cache[string, *domain.Evaluation]
	logger   *logrus.Logger
}

// evaluatorCacheSize bounds the memoization cache.
const evaluatorCacheSize = 1024

// NewEvaluator creates a new evaluator
func NewEvaluator(scoring *ScoringService, decision *DecisionService, logger *logrus.Logger) (*Evaluator, error) {
	cache, err := lru.New[string, *domain.Evaluation](evaluatorCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating evaluation cache: %w", err)
	}
	return &Evaluator{
		scoring:  scoring,
		decision: decision,
		cache:    cache,
		logger:   logger,
	}, nil
}

// Evaluate computes scores and recommendations for one assessment. Any
// missing or invalid component surfaces as a typed failure; no partial
// evaluation is returned.
func (e *Evaluator) Evaluate(patient *domain.Patient, assessment *domain.Assessment) (*domain.Evaluation, error) {
	key, err := e.fingerprint(patient, assessment)
	if err != nil {
		return nil, err
	}
	if cached, ok := e.cache.Get(key); ok {
		e.logger.WithFields(logrus.Fields{
			"assessment_id": assessment.ID,
			"fingerprint":   key[:12],
		}).Debug("Evaluation cache hit")
		return cached, nil
	}

	nihss, err := e.scoring.NIHSSTotal(assessment.NIHSS)
	if err != nil {
		return nil, err
	}
	mnihss, err := e.scoring.MNIHSSTotal(assessment.NIHSS)
	if err != nil {
		return nil, err
	}
	befast, err := e.scoring.BEFASTTotal(assessment.BEFAST)
	if err != nil {
		return nil, err
	}
	race, err := e.scoring.RACETotal(assessment.NIHSS)
	if err != nil {
		return nil, err
	}
	aspects, err := e.scoring.ASPECTSTotal(assessment.ASPECTSRegions)
	if err != nil {
		return nil, err
	}

	g := e.decision.guidelines
	band, err := InterpretASPECTS(aspects, g.ASPECTSMildThreshold, g.ASPECTSModerateThreshold)
	if err != nil {
		return nil, err
	}

	if patient.LastKnownWell == nil {
		return nil, domain.NewIncompleteInputError("last_known_well_time")
	}
	evalTime := assessment.EvaluationTime()
	hours, err := e.decision.HoursSinceLKW(*patient.LastKnownWell, evalTime)
	if err != nil {
		return nil, err
	}

	arrival := patient.ArrivalTime
	rec, err := e.decision.Decide(&domain.DecisionInput{
		NIHSS:             nihss,
		ASPECTS:           aspects,
		HemorrhagePresent: assessment.HemorrhagePresent,
		LVOStatus:         assessment.LVOStatus,
		LastKnownWell:     patient.LastKnownWell,
		EvaluationTime:    &evalTime,
		ArrivalTime:       &arrival,
		WeightKg:          patient.WeightKg,
		SystolicBP:        patient.SystolicBP,
		DiastolicBP:       patient.DiastolicBP,

		RecentSurgery:         assessment.RecentSurgery,
		PriorStrokeHeadTrauma: assessment.PriorStrokeHeadTrauma,
		GIUrinaryHemorrhage:   assessment.GIUrinaryHemorrhage,
		LowPlatelets:          assessment.LowPlatelets,
		ElevatedINR:           assessment.ElevatedINR,
		CurrentAnticoagUse:    assessment.CurrentAnticoagUse,
	})
	if err != nil {
		return nil, err
	}

	evaluation := &domain.Evaluation{
		PatientID:     patient.ID,
		AssessmentID:  assessment.ID,
		HoursSinceLKW: hours,
		Scores: domain.ScoreSet{
			NIHSS:       nihss,
			MNIHSS:      mnihss,
			BEFAST:      befast,
			RACE:        race,
			ASPECTS:     aspects,
			ASPECTSBand: band,
			ASPECTSText: band.Description(),
		},
		Recommendation: *rec,
		ComputedAt:     time.Now().UTC(),
	}

	e.cache.Add(key, evaluation)

	e.logger.WithFields(logrus.Fields{
		"assessment_id": assessment.ID,
		"nihss":         nihss,
		"aspects":       aspects,
		"triage":        rec.Triage.String(),
	}).Info("Completed assessment evaluation")

	return evaluation, nil
}

// fingerprint hashes every engine input. encoding/json marshals maps with
// sorted keys, so the serialization is canonical regardless of insertion
// order.
func (e *Evaluator) fingerprint(patient *domain.Patient, assessment *domain.Assessment) (string, error) {
	inputs := struct {
		PatientID     string           `json:"patient_id"`
		AssessmentID  string           `json:"assessment_id"`
		WeightKg      float64          `json:"weight_kg"`
		SystolicBP    int              `json:"systolic_bp"`
		DiastolicBP   int              `json:"diastolic_bp"`
		LastKnownWell *time.Time       `json:"lkw"`
		ArrivalTime   time.Time        `json:"arrival"`
		EvalTime      time.Time        `json:"eval"`
		NIHSS         map[string]int   `json:"nihss"`
		BEFAST        map[string]bool  `json:"be_fast"`
		Regions       map[string]bool  `json:"aspects_regions"`
		Hemorrhage    bool             `json:"hemorrhage"`
		LVO           domain.LVOStatus `json:"lvo"`
		Flags         [6]bool          `json:"flags"`
	}{
		PatientID:     patient.ID.String(),
		AssessmentID:  assessment.ID.String(),
		WeightKg:      patient.WeightKg,
		SystolicBP:    patient.SystolicBP,
		DiastolicBP:   patient.DiastolicBP,
		LastKnownWell: patient.LastKnownWell,
		ArrivalTime:   patient.ArrivalTime,
		EvalTime:      assessment.EvaluationTime(),
		NIHSS:         assessment.NIHSS,
		BEFAST:        assessment.BEFAST,
		Regions:       assessment.ASPECTSRegions,
		Hemorrhage:    assessment.HemorrhagePresent,
		LVO:           assessment.LVOStatus,
		Flags: [6]bool{
			assessment.RecentSurgery,
			assessment.PriorStrokeHeadTrauma,
			assessment.GIUrinaryHemorrhage,
			assessment.LowPlatelets,
			assessment.ElevatedINR,
			assessment.CurrentAnticoagUse,
		},
	}

	raw, err := json.Marshal(inputs)
	if err != nil {
		return "", fmt.Errorf("fingerprinting evaluation inputs: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

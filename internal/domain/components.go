package domain

// ItemRange defines the closed valid integer range for a scored item.
type ItemRange struct {
	Min int
	Max int
}

// Contains reports whether v lies inside the item's valid range.
func (r ItemRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Component vocabulary for NIHSS items. Keys are the canonical component names
// used across the record store, the API, and the scoring engine. Each item is
// range-checked against its own definition before summation.
var NIHSSItems = map[string]ItemRange{
	ComponentNIHSS1aLOCAlert:      {0, 3},
	ComponentNIHSS1bLOCQuestions:  {0, 2},
	ComponentNIHSS1cLOCCommands:   {0, 2},
	ComponentNIHSS2BestGaze:       {0, 2},
	ComponentNIHSS3VisualField:    {0, 3},
	ComponentNIHSS4FacialPalsy:    {0, 3},
	ComponentNIHSS5aMotorLeftArm:  {0, 4},
	ComponentNIHSS5bMotorRightArm: {0, 4},
	ComponentNIHSS6aMotorLeftLeg:  {0, 4},
	ComponentNIHSS6bMotorRightLeg: {0, 4},
	ComponentNIHSS7LimbAtaxia:     {0, 2},
	ComponentNIHSS8Sensory:        {0, 2},
	ComponentNIHSS9BestLanguage:   {0, 3},
	ComponentNIHSS10Dysarthria:    {0, 2},
	ComponentNIHSS11Extinction:    {0, 2},
}

// MNIHSSItems is the modified NIHSS subset: LOC-alertness, facial palsy, limb
// ataxia, and dysarthria are dropped, and the sensory item collapses to a
// two-point scale.
var MNIHSSItems = map[string]ItemRange{
	ComponentNIHSS1bLOCQuestions:  {0, 2},
	ComponentNIHSS1cLOCCommands:   {0, 2},
	ComponentNIHSS2BestGaze:       {0, 2},
	ComponentNIHSS3VisualField:    {0, 3},
	ComponentNIHSS5aMotorLeftArm:  {0, 4},
	ComponentNIHSS5bMotorRightArm: {0, 4},
	ComponentNIHSS6aMotorLeftLeg:  {0, 4},
	ComponentNIHSS6bMotorRightLeg: {0, 4},
	ComponentNIHSS8Sensory:        {0, 1},
	ComponentNIHSS9BestLanguage:   {0, 3},
	ComponentNIHSS11Extinction:    {0, 2},
}

// NIHSS component names, matching the assessment form fields.
const (
	ComponentNIHSS1aLOCAlert      = "nihss_1a_loc_alert"
	ComponentNIHSS1bLOCQuestions  = "nihss_1b_loc_questions"
	ComponentNIHSS1cLOCCommands   = "nihss_1c_loc_commands"
	ComponentNIHSS2BestGaze       = "nihss_2_best_gaze"
	ComponentNIHSS3VisualField    = "nihss_3_visual_field"
	ComponentNIHSS4FacialPalsy    = "nihss_4_facial_palsy"
	ComponentNIHSS5aMotorLeftArm  = "nihss_5a_motor_left_arm"
	ComponentNIHSS5bMotorRightArm = "nihss_5b_motor_right_arm"
	ComponentNIHSS6aMotorLeftLeg  = "nihss_6a_motor_left_leg"
	ComponentNIHSS6bMotorRightLeg = "nihss_6b_motor_right_leg"
	ComponentNIHSS7LimbAtaxia     = "nihss_7_limb_ataxia"
	ComponentNIHSS8Sensory        = "nihss_8_sensory"
	ComponentNIHSS9BestLanguage   = "nihss_9_best_language"
	ComponentNIHSS10Dysarthria    = "nihss_10_dysarthria"
	ComponentNIHSS11Extinction    = "nihss_11_extinction_inattention"
)

// BE-FAST+ component names. All items are booleans; the total is the count of
// positive findings.
const (
	ComponentBEFASTBalance          = "be_fast_balance"
	ComponentBEFASTEyes             = "be_fast_eyes"
	ComponentBEFASTFaceDrooping     = "be_fast_face_drooping"
	ComponentBEFASTArmWeakness      = "be_fast_arm_weakness"
	ComponentBEFASTSpeechDifficulty = "be_fast_speech_difficulty"
	ComponentBEFASTTimeToCall       = "be_fast_time_to_call"
	ComponentBEFASTPlusOther        = "be_fast_plus_other"
)

// BEFASTItems is the fixed boolean item set, in display order.
var BEFASTItems = []string{
	ComponentBEFASTBalance,
	ComponentBEFASTEyes,
	ComponentBEFASTFaceDrooping,
	ComponentBEFASTArmWeakness,
	ComponentBEFASTSpeechDifficulty,
	ComponentBEFASTTimeToCall,
	ComponentBEFASTPlusOther,
}

// RACERequiredItems lists the NIHSS components the RACE mapping consumes.
// A complete RACE score cannot be derived if any of them is absent.
var RACERequiredItems = []string{
	ComponentNIHSS2BestGaze,
	ComponentNIHSS4FacialPalsy,
	ComponentNIHSS5aMotorLeftArm,
	ComponentNIHSS5bMotorRightArm,
	ComponentNIHSS6aMotorLeftLeg,
	ComponentNIHSS6bMotorRightLeg,
	ComponentNIHSS9BestLanguage,
	ComponentNIHSS11Extinction,
}

// ASPECTSRegions are the ten scored brain regions of the Alberta Stroke
// Program Early CT Score. Each abnormal region deducts exactly one point from
// a baseline of ten.
var ASPECTSRegions = []string{
	"caudate",
	"lentiform_nucleus",
	"internal_capsule",
	"insular_ribbon",
	"m1",
	"m2",
	"m3",
	"m4",
	"m5",
	"m6",
}

// ASPECTSMaxScore is the score of a normal CT.
const ASPECTSMaxScore = 10

// IsASPECTSRegion reports whether name is one of the ten defined regions.
func IsASPECTSRegion(name string) bool {
	for _, r := range ASPECTSRegions {
		if r == name {
			return true
		}
	}
	return false
}

package services

import (
	"math/rand"
	"time"

	"github.com/surgical-vision/scan-service/internal/models"
)

// Finding pools per scan type. The assessment is a demo mock: levels and
// findings are drawn at random, there is no inference behind them.
var findingPools = map[string][]string{
	models.ScanTypeCT: {
		"No acute intracranial abnormality detected",
		"Small hypodense region in left frontal lobe",
		"Mild ventricular asymmetry within normal limits",
		"Calcification noted in basal ganglia",
		"Possible mass effect near midline structures",
	},
	models.ScanTypeMRI: {
		"Normal gray-white matter differentiation",
		"T2 hyperintensity in periventricular white matter",
		"Small focus of restricted diffusion",
		"Enhancing lesion in right temporal region",
		"No abnormal contrast enhancement",
	},
	models.ScanTypeXRay: {
		"No acute fracture or dislocation",
		"Mild degenerative changes",
		"Soft tissue swelling without bony abnormality",
		"Hairline lucency suspicious for fracture",
	},
	models.ScanTypeUltrasound: {
		"Normal echogenicity throughout",
		"Hypoechoic region of uncertain significance",
		"Vascular flow within normal parameters",
		"Focal area of increased echogenicity",
	},
}

var riskLevels = []string{models.RiskLow, models.RiskMedium, models.RiskHigh}

var assessmentRand = rand.New(rand.NewSource(time.Now().UnixNano()))

// AssessScan produces the mock AI risk assessment for an uploaded scan.
// Confidence is hard-coded to 50.
func AssessScan(scanID, scanType string) models.RiskAssessment {
	pool, ok := findingPools[scanType]
	if !ok {
		pool = findingPools[models.ScanTypeCT]
	}

	// One to three distinct findings
	n := 1 + assessmentRand.Intn(3)
	if n > len(pool) {
		n = len(pool)
	}
	idx := assessmentRand.Perm(len(pool))[:n]
	findings := make([]string, 0, n)
	for _, i := range idx {
		findings = append(findings, pool[i])
	}

	return models.RiskAssessment{
		ScanID:     scanID,
		Level:      riskLevels[assessmentRand.Intn(len(riskLevels))],
		Findings:   findings,
		Confidence: 50,
		AssessedAt: time.Now(),
	}
}

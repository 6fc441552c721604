package service

import (
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/hirespherex/portal-api/internal/domain/model"
)

// EligibilityResult explains why a student does or does not qualify for a
// job posting. Reasons is empty when Eligible is true.
type EligibilityResult struct {
	Eligible bool
	Reasons  []string
}

// CheckEligibility evaluates a job's cutoffs against a student profile. A
// missing academic value fails the corresponding cutoff rather than passing
// it; unverified profiles are never eligible.
func CheckEligibility(job *model.Job, profile *model.StudentProfile) (EligibilityResult, error) {
	var reasons []string

	if !profile.Verified {
		reasons = append(reasons, "profile is not verified")
	}
	if job.MinCGPA != nil {
		if profile.CGPA == nil || *profile.CGPA < *job.MinCGPA {
			reasons = append(reasons, fmt.Sprintf("CGPA below cutoff %.2f", *job.MinCGPA))
		}
	}
	if job.MinTenthPct != nil {
		if profile.TenthPct == nil || *profile.TenthPct < *job.MinTenthPct {
			reasons = append(reasons, fmt.Sprintf("10th percentage below cutoff %.2f", *job.MinTenthPct))
		}
	}
	if job.MinTwelfthPct != nil {
		if profile.TwelfthPct == nil || *profile.TwelfthPct < *job.MinTwelfthPct {
			reasons = append(reasons, fmt.Sprintf("12th percentage below cutoff %.2f", *job.MinTwelfthPct))
		}
	}
	if job.MaxBacklogs != nil && profile.ActiveBacklogs > *job.MaxBacklogs {
		reasons = append(reasons, fmt.Sprintf("active backlogs exceed limit %d", *job.MaxBacklogs))
	}

	if job.ExtraCriteria != nil && *job.ExtraCriteria != "" {
		ok, err := evalExtraCriteria(*job.ExtraCriteria, profile)
		if err != nil {
			return EligibilityResult{}, fmt.Errorf("evaluate extra criteria: %w", err)
		}
		if !ok {
			reasons = append(reasons, "does not meet additional criteria")
		}
	}

	return EligibilityResult{Eligible: len(reasons) == 0, Reasons: reasons}, nil
}

// evalExtraCriteria runs a JMESPath expression against a document built from
// the student profile. The expression must evaluate to a boolean; anything
// else means the posting's criteria are misconfigured.
func evalExtraCriteria(expr string, profile *model.StudentProfile) (bool, error) {
	doc := profileDocument(profile)
	out, err := jmespath.Search(expr, doc)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q did not evaluate to a boolean", expr)
	}
	return b, nil
}

// profileDocument flattens the profile into the map shape criteria
// expressions are written against, e.g. "cgpa >= `8.0` && joining_year == `2023`".
func profileDocument(p *model.StudentProfile) map[string]any {
	doc := map[string]any{
		"enrollment_number": p.EnrollmentNumber,
		"active_backlogs":   float64(p.ActiveBacklogs),
		"joining_year":      float64(p.JoiningYear),
		"placed":            p.Placed,
		"verified":          p.Verified,
	}
	if p.Program != nil {
		doc["program"] = *p.Program
	}
	if p.Gender != nil {
		doc["gender"] = string(*p.Gender)
	}
	if p.City != nil {
		doc["city"] = *p.City
	}
	if p.CGPA != nil {
		doc["cgpa"] = *p.CGPA
	}
	if p.TenthPct != nil {
		doc["tenth_pct"] = *p.TenthPct
	}
	if p.TwelfthPct != nil {
		doc["twelfth_pct"] = *p.TwelfthPct
	}
	return doc
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirespherex/portal-api/internal/domain/model"
	"github.com/hirespherex/portal-api/internal/testutil"
)

func verifiedProfile() *model.StudentProfile {
	return &model.StudentProfile{
		UserID:           "user-1",
		EnrollmentNumber: "EN2024001",
		CGPA:             testutil.Float64Ptr(8.2),
		TenthPct:         testutil.Float64Ptr(91.0),
		TwelfthPct:       testutil.Float64Ptr(88.5),
		ActiveBacklogs:   0,
		JoiningYear:      2024,
		Verified:         true,
	}
}

func TestCheckEligibility_Cutoffs(t *testing.T) {
	tests := []struct {
		name       string
		job        model.Job
		mutate     func(*model.StudentProfile)
		eligible   bool
		wantReason string
	}{
		{
			name:     "no cutoffs passes",
			job:      model.Job{Title: "Software Engineer"},
			eligible: true,
		},
		{
			name:     "cgpa at cutoff passes",
			job:      model.Job{MinCGPA: testutil.Float64Ptr(8.2)},
			eligible: true,
		},
		{
			name:       "cgpa below cutoff fails",
			job:        model.Job{MinCGPA: testutil.Float64Ptr(8.5)},
			eligible:   false,
			wantReason: "CGPA below cutoff 8.50",
		},
		{
			name:       "missing cgpa fails the cutoff",
			job:        model.Job{MinCGPA: testutil.Float64Ptr(6.0)},
			mutate:     func(p *model.StudentProfile) { p.CGPA = nil },
			eligible:   false,
			wantReason: "CGPA below cutoff 6.00",
		},
		{
			name:       "tenth percentage below cutoff fails",
			job:        model.Job{MinTenthPct: testutil.Float64Ptr(95.0)},
			eligible:   false,
			wantReason: "10th percentage below cutoff 95.00",
		},
		{
			name:       "twelfth percentage below cutoff fails",
			job:        model.Job{MinTwelfthPct: testutil.Float64Ptr(90.0)},
			eligible:   false,
			wantReason: "12th percentage below cutoff 90.00",
		},
		{
			name:     "backlogs at limit passes",
			job:      model.Job{MaxBacklogs: testutil.IntPtr(2)},
			mutate:   func(p *model.StudentProfile) { p.ActiveBacklogs = 2 },
			eligible: true,
		},
		{
			name:       "backlogs over limit fails",
			job:        model.Job{MaxBacklogs: testutil.IntPtr(1)},
			mutate:     func(p *model.StudentProfile) { p.ActiveBacklogs = 3 },
			eligible:   false,
			wantReason: "active backlogs exceed limit 1",
		},
		{
			name:       "unverified profile fails",
			job:        model.Job{},
			mutate:     func(p *model.StudentProfile) { p.Verified = false },
			eligible:   false,
			wantReason: "profile is not verified",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := verifiedProfile()
			if tt.mutate != nil {
				tt.mutate(profile)
			}

			result, err := CheckEligibility(&tt.job, profile)

			require.NoError(t, err)
			assert.Equal(t, tt.eligible, result.Eligible)
			if tt.wantReason != "" {
				assert.Contains(t, result.Reasons, tt.wantReason)
			} else {
				assert.Empty(t, result.Reasons)
			}
		})
	}
}

func TestCheckEligibility_CollectsAllReasons(t *testing.T) {
	job := model.Job{
		MinCGPA:     testutil.Float64Ptr(9.0),
		MaxBacklogs: testutil.IntPtr(0),
	}
	profile := verifiedProfile()
	profile.Verified = false
	profile.ActiveBacklogs = 2

	result, err := CheckEligibility(&job, profile)

	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Len(t, result.Reasons, 3)
}

func TestCheckEligibility_ExtraCriteria(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		mutate   func(*model.StudentProfile)
		eligible bool
	}{
		{
			name:     "cgpa comparison passes",
			expr:     "cgpa >= `8.0`",
			eligible: true,
		},
		{
			name:     "cgpa comparison fails",
			expr:     "cgpa >= `9.0`",
			eligible: false,
		},
		{
			name:     "compound expression",
			expr:     "cgpa >= `8.0` && joining_year == `2024`",
			eligible: true,
		},
		{
			name: "program match",
			expr: "program == 'B.Tech CSE'",
			mutate: func(p *model.StudentProfile) {
				p.Program = testutil.StringPtr("B.Tech CSE")
			},
			eligible: true,
		},
		{
			name:     "missing optional field compares as null",
			expr:     "city == 'Pune'",
			eligible: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := verifiedProfile()
			if tt.mutate != nil {
				tt.mutate(profile)
			}
			job := model.Job{ExtraCriteria: testutil.StringPtr(tt.expr)}

			result, err := CheckEligibility(&job, profile)

			require.NoError(t, err)
			assert.Equal(t, tt.eligible, result.Eligible)
		})
	}
}

func TestCheckEligibility_ExtraCriteriaErrors(t *testing.T) {
	profile := verifiedProfile()

	// Invalid syntax surfaces an evaluation error.
	_, err := CheckEligibility(&model.Job{ExtraCriteria: testutil.StringPtr("cgpa >=")}, profile)
	assert.Error(t, err)

	// Non-boolean results mean the criteria are misconfigured.
	_, err = CheckEligibility(&model.Job{ExtraCriteria: testutil.StringPtr("cgpa")}, profile)
	assert.ErrorContains(t, err, "did not evaluate to a boolean")

	// An empty expression is treated as no criteria.
	result, err := CheckEligibility(&model.Job{ExtraCriteria: testutil.StringPtr("")}, profile)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompanyDrive_AcceptsApplications(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name  string
		drive CompanyDrive
		want  bool
	}{
		{"open without deadline", CompanyDrive{Status: DriveStatusOpen}, true},
		{"open before deadline", CompanyDrive{Status: DriveStatusOpen, ApplicationDeadline: &future}, true},
		{"open past deadline", CompanyDrive{Status: DriveStatusOpen, ApplicationDeadline: &past}, false},
		{"closed", CompanyDrive{Status: DriveStatusClosed}, false},
		{"closed before deadline", CompanyDrive{Status: DriveStatusClosed, ApplicationDeadline: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.drive.AcceptsApplications(now))
		})
	}
}

func TestCreateCompanyDriveRequest_Validate(t *testing.T) {
	valid := func() CreateCompanyDriveRequest {
		return CreateCompanyDriveRequest{
			PlacementDriveID: "pd-1",
			CompanyID:        "co-1",
			DriveType:        "Full_Time",
			WorkMode:         " hybrid ",
		}
	}

	req := valid()
	assert.NoError(t, req.Validate())
	assert.Equal(t, DriveTypeFullTime, req.DriveType)
	assert.Equal(t, WorkModeHybrid, req.WorkMode)

	req = valid()
	req.PlacementDriveID = ""
	assert.Error(t, req.Validate())

	req = valid()
	req.DriveType = "gig"
	assert.Error(t, req.Validate())

	req = valid()
	req.WorkMode = "underwater"
	assert.Error(t, req.Validate())
}

func TestUpdateCompanyDriveRequest_Validate(t *testing.T) {
	var empty UpdateCompanyDriveRequest
	assert.Error(t, empty.Validate())

	status := DriveStatus("Closed")
	req := UpdateCompanyDriveRequest{Status: &status}
	assert.NoError(t, req.Validate())
	assert.Equal(t, DriveStatusClosed, *req.Status)
}

package devseed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hirespherex/portal-api/internal/data"
	domainauth "github.com/hirespherex/portal-api/internal/domain/auth"
	"github.com/hirespherex/portal-api/internal/domain/model"
	"github.com/hirespherex/portal-api/internal/service"
)

// Services bundles the dependencies needed for development seeding.
type Services struct {
	DB         *sql.DB
	users      *service.UserService
	students   *service.StudentService
	companies  *service.CompanyService
	placements *service.PlacementService
	jobs       *service.JobService
}

// NewServices constructs all required services for seeding using the provided DB.
func NewServices(db *sql.DB) Services {
	userRepo := data.NewUserRepo(db)
	studentRepo := data.NewStudentRepo(db)
	companyRepo := data.NewCompanyRepo(db)
	driveRepo := data.NewPlacementDriveRepo(db)
	companyDriveRepo := data.NewCompanyDriveRepo(db)
	jobRepo := data.NewJobRepo(db)

	return Services{
		DB:       db,
		users:    service.NewUserService(service.UserServiceOptions{Users: userRepo}),
		students: service.NewStudentService(service.StudentServiceOptions{Students: studentRepo}),
		companies: service.NewCompanyService(service.CompanyServiceOptions{
			Companies: companyRepo,
		}),
		placements: service.NewPlacementService(service.PlacementServiceOptions{
			Drives:        driveRepo,
			CompanyDrives: companyDriveRepo,
		}),
		jobs: service.NewJobService(service.JobServiceOptions{Jobs: jobRepo}),
	}
}

// Run executes the full development seeding workflow against the provided DB.
// Seeding is idempotent: existing records are reused rather than duplicated.
func Run(ctx context.Context, svcs Services, logger *slog.Logger) error {
	failures := 0

	userIDs, userFailures := seedUsers(ctx, svcs.users, logger)
	failures += userFailures

	failures += seedStudentProfiles(ctx, svcs.students, userIDs, logger)

	companyIDs, companyFailures := seedCompanies(ctx, svcs.companies, logger)
	failures += companyFailures

	drive, err := ensurePlacementDrive(ctx, svcs.placements, logger)
	if err != nil {
		return fmt.Errorf("seed placement drive: %w", err)
	}

	failures += seedCompanyDrives(ctx, seedDriveDeps{
		Placements: svcs.placements,
		Jobs:       svcs.jobs,
		Logger:     logger,
	}, drive.ID, companyIDs)

	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

type userSeedSpec struct {
	email     string
	firstName string
	lastName  string
	roles     []domainauth.Role
}

func defaultUserSeedSpecs() []userSeedSpec {
	return []userSeedSpec{
		{
			email:     "admin@campus.edu",
			firstName: "Portal",
			lastName:  "Admin",
			roles:     []domainauth.Role{domainauth.RoleAdmin},
		},
		{
			email:     "placement@campus.edu",
			firstName: "Placement",
			lastName:  "Cell",
			roles:     []domainauth.Role{domainauth.RolePlacementCell},
		},
		{
			email:     "asha.verma@student.campus.edu",
			firstName: "Asha",
			lastName:  "Verma",
			roles:     []domainauth.Role{domainauth.RoleStudent},
		},
		{
			email:     "rohan.iyer@student.campus.edu",
			firstName: "Rohan",
			lastName:  "Iyer",
			roles:     []domainauth.Role{domainauth.RoleStudent},
		},
		{
			email:     "meera.shah@student.campus.edu",
			firstName: "Meera",
			lastName:  "Shah",
			roles:     []domainauth.Role{domainauth.RoleStudent},
		},
	}
}

// devSeedPassword is shared by every seeded account. Dev convenience only.
const devSeedPassword = "changeme-dev"

func seedUsers(ctx context.Context, svc *service.UserService, logger *slog.Logger) (map[string]string, int) {
	ids := make(map[string]string)
	failures := 0

	for _, spec := range defaultUserSeedSpecs() {
		last := spec.lastName
		req := &model.CreateUserRequest{
			Email:     spec.email,
			FirstName: spec.firstName,
			LastName:  &last,
			Password:  devSeedPassword,
			Roles:     spec.roles,
		}

		user, err := svc.Create(ctx, req)
		if err != nil {
			if !errors.Is(err, data.ErrUserEmailExists) {
				if logger != nil {
					logger.ErrorContext(ctx, "failed to create user", "email", spec.email, "error", err)
				}
				failures++
				continue
			}
			user, err = svc.GetByEmail(ctx, spec.email)
			if err != nil {
				if logger != nil {
					logger.ErrorContext(ctx, "failed to load existing user", "email", spec.email, "error", err)
				}
				failures++
				continue
			}
			if logger != nil {
				logger.InfoContext(ctx, "user already exists", "email", spec.email)
			}
		} else if logger != nil {
			logger.InfoContext(ctx, "created user", "email", spec.email)
		}

		ids[spec.email] = user.ID
	}

	return ids, failures
}

type studentSeedSpec struct {
	email       string
	enrollment  string
	program     string
	cgpa        float64
	tenthPct    float64
	twelfthPct  float64
	backlogs    int
	joiningYear int
}

func defaultStudentSeedSpecs() []studentSeedSpec {
	return []studentSeedSpec{
		{
			email:       "asha.verma@student.campus.edu",
			enrollment:  "ENR2023001",
			program:     "B.Tech Computer Science",
			cgpa:        8.7,
			tenthPct:    91.2,
			twelfthPct:  88.4,
			backlogs:    0,
			joiningYear: 2023,
		},
		{
			email:       "rohan.iyer@student.campus.edu",
			enrollment:  "ENR2023002",
			program:     "B.Tech Electronics",
			cgpa:        7.4,
			tenthPct:    84.0,
			twelfthPct:  79.5,
			backlogs:    1,
			joiningYear: 2023,
		},
		{
			email:       "meera.shah@student.campus.edu",
			enrollment:  "ENR2022017",
			program:     "MBA",
			cgpa:        9.1,
			tenthPct:    95.0,
			twelfthPct:  92.3,
			backlogs:    0,
			joiningYear: 2022,
		},
	}
}

func seedStudentProfiles(
	ctx context.Context,
	svc *service.StudentService,
	userIDs map[string]string,
	logger *slog.Logger,
) int {
	failures := 0

	for _, spec := range defaultStudentSeedSpecs() {
		userID, ok := userIDs[spec.email]
		if !ok {
			if logger != nil {
				logger.WarnContext(ctx, "skipping student profile; user not seeded", "email", spec.email)
			}
			continue
		}

		program := spec.program
		cgpa := spec.cgpa
		tenth := spec.tenthPct
		twelfth := spec.twelfthPct
		backlogs := spec.backlogs
		req := &model.CreateStudentProfileRequest{
			UserID:           userID,
			EnrollmentNumber: spec.enrollment,
			Program:          &program,
			CGPA:             &cgpa,
			TenthPct:         &tenth,
			TwelfthPct:       &twelfth,
			ActiveBacklogs:   &backlogs,
			JoiningYear:      spec.joiningYear,
		}

		if _, err := svc.Create(ctx, req); err != nil {
			if errors.Is(err, data.ErrEnrollmentExists) {
				if logger != nil {
					logger.InfoContext(ctx, "student profile already exists", "enrollment", spec.enrollment)
				}
				continue
			}
			if logger != nil {
				logger.ErrorContext(ctx, "failed to create student profile", "enrollment", spec.enrollment, "error", err)
			}
			failures++
			continue
		}

		if logger != nil {
			logger.InfoContext(ctx, "created student profile", "enrollment", spec.enrollment)
		}

		// Seeded profiles start verified so they can apply immediately.
		if _, err := svc.Verify(ctx, userID); err != nil {
			if logger != nil {
				logger.WarnContext(ctx, "failed to verify seeded student", "enrollment", spec.enrollment, "error", err)
			}
		}
	}

	return failures
}

type companySeedSpec struct {
	name         string
	email        string
	phone        string
	website      string
	headquarters string
}

func defaultCompanySeedSpecs() []companySeedSpec {
	return []companySeedSpec{
		{
			name:         "Acme Analytics",
			email:        "campus@acme-analytics.example",
			phone:        "+91-80-4000-1000",
			website:      "https://acme-analytics.example",
			headquarters: "Bengaluru",
		},
		{
			name:         "Northwind Systems",
			email:        "hiring@northwind.example",
			phone:        "+91-22-6000-2000",
			website:      "https://northwind.example",
			headquarters: "Mumbai",
		},
	}
}

func seedCompanies(ctx context.Context, svc *service.CompanyService, logger *slog.Logger) (map[string]string, int) {
	ids := make(map[string]string)
	failures := 0

	for _, spec := range defaultCompanySeedSpecs() {
		website := spec.website
		hq := spec.headquarters
		req := &model.CreateCompanyRequest{
			Name:         spec.name,
			Email:        spec.email,
			PhoneNumber:  spec.phone,
			WebsiteURL:   &website,
			Headquarters: &hq,
		}

		company, err := svc.Create(ctx, req)
		if err != nil {
			if !errors.Is(err, data.ErrCompanyExists) {
				if logger != nil {
					logger.ErrorContext(ctx, "failed to create company", "name", spec.name, "error", err)
				}
				failures++
				continue
			}
			company, err = svc.GetByName(ctx, spec.name)
			if err != nil {
				if logger != nil {
					logger.ErrorContext(ctx, "failed to load existing company", "name", spec.name, "error", err)
				}
				failures++
				continue
			}
			if logger != nil {
				logger.InfoContext(ctx, "company already exists", "name", spec.name)
			}
		} else if logger != nil {
			logger.InfoContext(ctx, "created company", "name", spec.name)
		}

		ids[spec.name] = company.ID
	}

	return ids, failures
}

const seedDriveTitle = "Campus Placement Drive (Dev)"

func ensurePlacementDrive(
	ctx context.Context,
	svc *service.PlacementService,
	logger *slog.Logger,
) (*model.PlacementDrive, error) {
	title := seedDriveTitle
	existing, err := svc.ListDrives(ctx, model.PlacementDrivesListOptions{Limit: 1, Q: &title})
	if err != nil {
		return nil, fmt.Errorf("list placement drives: %w", err)
	}
	if len(existing) > 0 {
		if logger != nil {
			logger.InfoContext(ctx, "placement drive already exists", "title", seedDriveTitle)
		}
		return existing[0], nil
	}

	start := time.Now().AddDate(0, 0, 7)
	end := start.AddDate(0, 3, 0)
	drive, err := svc.CreateDrive(ctx, &model.CreatePlacementDriveRequest{
		Title:     seedDriveTitle,
		StartDate: &start,
		EndDate:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("create placement drive: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "created placement drive", "title", seedDriveTitle)
	}
	return drive, nil
}

type companyDriveSeedSpec struct {
	companyName string
	driveType   model.DriveType
	workMode    model.WorkMode
	jobs        []jobSeedSpec
}

type jobSeedSpec struct {
	title      string
	minCGPA    float64
	packageMin float64
	packageMax float64
}

func defaultCompanyDriveSeedSpecs() []companyDriveSeedSpec {
	return []companyDriveSeedSpec{
		{
			companyName: "Acme Analytics",
			driveType:   model.DriveTypeFullTime,
			workMode:    model.WorkModeHybrid,
			jobs: []jobSeedSpec{
				{title: "Software Engineer", minCGPA: 7.0, packageMin: 12.0, packageMax: 18.0},
				{title: "Data Analyst", minCGPA: 6.5, packageMin: 8.0, packageMax: 11.0},
			},
		},
		{
			companyName: "Northwind Systems",
			driveType:   model.DriveTypeInternship,
			workMode:    model.WorkModeOnsite,
			jobs: []jobSeedSpec{
				{title: "SDE Intern", minCGPA: 7.5, packageMin: 0, packageMax: 0},
			},
		},
	}
}

type seedDriveDeps struct {
	Placements *service.PlacementService
	Jobs       *service.JobService
	Logger     *slog.Logger
}

func seedCompanyDrives(
	ctx context.Context,
	d seedDriveDeps,
	placementDriveID string,
	companyIDs map[string]string,
) int {
	failures := 0

	for _, spec := range defaultCompanyDriveSeedSpecs() {
		companyID, ok := companyIDs[spec.companyName]
		if !ok {
			if d.Logger != nil {
				d.Logger.WarnContext(ctx, "skipping company drive; company not seeded", "company", spec.companyName)
			}
			continue
		}

		drive, err := ensureCompanyDrive(ctx, d, ensureCompanyDriveParams{
			PlacementDriveID: placementDriveID,
			CompanyID:        companyID,
			CompanyName:      spec.companyName,
			DriveType:        spec.driveType,
			WorkMode:         spec.workMode,
		})
		if err != nil {
			failures++
			continue
		}

		failures += seedJobs(ctx, d, drive.ID, spec.jobs)
	}

	return failures
}

type ensureCompanyDriveParams struct {
	PlacementDriveID string
	CompanyID        string
	CompanyName      string
	DriveType        model.DriveType
	WorkMode         model.WorkMode
}

func ensureCompanyDrive(
	ctx context.Context,
	d seedDriveDeps,
	params ensureCompanyDriveParams,
) (*model.CompanyDrive, error) {
	deadline := time.Now().AddDate(0, 1, 0)
	drive, err := d.Placements.CreateCompanyDrive(ctx, &model.CreateCompanyDriveRequest{
		PlacementDriveID:    params.PlacementDriveID,
		CompanyID:           params.CompanyID,
		DriveType:           params.DriveType,
		WorkMode:            params.WorkMode,
		ApplicationDeadline: &deadline,
	})
	if err == nil {
		if d.Logger != nil {
			d.Logger.InfoContext(ctx, "created company drive", "company", params.CompanyName)
		}
		return drive, nil
	}

	if !errors.Is(err, data.ErrCompanyDriveExists) {
		if d.Logger != nil {
			d.Logger.ErrorContext(ctx, "failed to create company drive", "company", params.CompanyName, "error", err)
		}
		return nil, err
	}

	if d.Logger != nil {
		d.Logger.InfoContext(ctx, "company drive already exists", "company", params.CompanyName)
	}
	list, err := d.Placements.ListCompanyDrives(ctx, model.CompanyDrivesListOptions{
		Limit:            1,
		PlacementDriveID: &params.PlacementDriveID,
		CompanyID:        &params.CompanyID,
	})
	if err != nil {
		if d.Logger != nil {
			d.Logger.ErrorContext(ctx, "failed to load existing company drive", "company", params.CompanyName, "error", err)
		}
		return nil, err
	}
	if len(list) == 0 {
		err = fmt.Errorf("company drive for %s not found after conflict", params.CompanyName)
		if d.Logger != nil {
			d.Logger.ErrorContext(ctx, "failed to load existing company drive", "company", params.CompanyName, "error", err)
		}
		return nil, err
	}
	return list[0], nil
}

func seedJobs(ctx context.Context, d seedDriveDeps, companyDriveID string, specs []jobSeedSpec) int {
	failures := 0

	for _, spec := range specs {
		title := spec.title
		existing, err := d.Jobs.ListWithOptions(ctx, model.JobsListOptions{
			Limit:          1,
			CompanyDriveID: &companyDriveID,
			Q:              &title,
		})
		if err != nil {
			if d.Logger != nil {
				d.Logger.ErrorContext(ctx, "failed to list jobs", "title", spec.title, "error", err)
			}
			failures++
			continue
		}
		if len(existing) > 0 {
			if d.Logger != nil {
				d.Logger.InfoContext(ctx, "job already exists", "title", spec.title)
			}
			continue
		}

		req := &model.CreateJobRequest{
			CompanyDriveID: companyDriveID,
			Title:          spec.title,
		}
		if spec.minCGPA > 0 {
			minCGPA := spec.minCGPA
			req.MinCGPA = &minCGPA
		}
		if spec.packageMax > 0 {
			pkgMin := spec.packageMin
			pkgMax := spec.packageMax
			req.PackageMin = &pkgMin
			req.PackageMax = &pkgMax
		}

		if _, err := d.Jobs.Create(ctx, req); err != nil {
			if d.Logger != nil {
				d.Logger.ErrorContext(ctx, "failed to create job", "title", spec.title, "error", err)
			}
			failures++
			continue
		}
		if d.Logger != nil {
			d.Logger.InfoContext(ctx, "created job", "title", spec.title)
		}
	}

	return failures
}

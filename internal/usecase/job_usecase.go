package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"jobboard/internal/domain/job"
	"jobboard/internal/domain/skill"
	"jobboard/internal/domain/skillmatch"
	"jobboard/internal/repository"

	"github.com/google/uuid"
)

const deadlineLayout = "2006-01-02"

// ListingInvalidator drops cached listing pages after a write that changes
// what the board shows.
type ListingInvalidator interface {
	InvalidateJobListings(ctx context.Context) error
}

type JobInput struct {
	Title               string
	Description         string
	CompanyName         string
	ApplicationDeadline time.Time
	StartDate           time.Time
	SalaryAmount        int64
	WeeklyHours         float64
	WorkingHoursDetails []job.WorkingHoursSlot
	WorkingLocation     job.WorkingLocation
	InPersonLocation    *string
	Status              job.Status
	Skills              map[string]string
}

// JobDetail is the full job page: the posting, the requirement breakdown
// against the viewer's skills, and the viewer's relationship to the job.
type JobDetail struct {
	Job        job.Job
	Skills     []skillmatch.SkillMatch
	Overall    *skillmatch.Result
	HasApplied bool
	IsOwner    bool
}

type JobUsecase interface {
	Create(ctx context.Context, ownerID uuid.UUID, in JobInput) (job.Job, error)
	Edit(ctx context.Context, ownerID, jobID uuid.UUID, in JobInput) (job.Job, error)
	Delete(ctx context.Context, ownerID, jobID uuid.UUID) error
	Detail(ctx context.Context, viewerID, jobID uuid.UUID) (JobDetail, error)
	ListOwn(ctx context.Context, ownerID uuid.UUID) ([]job.Job, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type JobManager struct {
	jobs         repository.JobRepository
	jobSkills    repository.JobSkillRepository
	skills       repository.SkillRepository
	userSkills   repository.UserSkillRepository
	applications repository.ApplicationRepository
	users        repository.UserRepository
	cache        ListingInvalidator
	logger       *log.Logger
	now          func() time.Time
}

func NewJobUsecase(
	jobs repository.JobRepository,
	jobSkills repository.JobSkillRepository,
	skills repository.SkillRepository,
	userSkills repository.UserSkillRepository,
	applications repository.ApplicationRepository,
	users repository.UserRepository,
	cache ListingInvalidator,
	logger *log.Logger,
) *JobManager {
	return &JobManager{
		jobs:         jobs,
		jobSkills:    jobSkills,
		skills:       skills,
		userSkills:   userSkills,
		applications: applications,
		users:        users,
		cache:        cache,
		logger:       logger,
		now:          time.Now,
	}
}

func (u *JobManager) Create(ctx context.Context, ownerID uuid.UUID, in JobInput) (job.Job, error) {
	if ownerID == uuid.Nil {
		return job.Job{}, ErrUnauthorized
	}

	owner, err := u.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return job.Job{}, ErrUnauthorized
		}
		return job.Job{}, u.internal("create: load owner", err)
	}

	j := job.Job{
		Title:               in.Title,
		Description:         in.Description,
		Author:              owner.DisplayName(),
		UserID:              ownerID,
		CompanyName:         in.CompanyName,
		ApplicationDeadline: in.ApplicationDeadline,
		StartDate:           in.StartDate,
		SalaryAmount:        in.SalaryAmount,
		WeeklyHours:         in.WeeklyHours,
		WorkingHoursDetails: in.WorkingHoursDetails,
		WorkingLocation:     in.WorkingLocation,
		InPersonLocation:    in.InPersonLocation,
		Status:              job.StatusOpen,
	}
	j.NormalizeLocation()
	if err := j.Validate(); err != nil {
		return job.Job{}, errors.Join(ErrInvalidInput, err)
	}

	requirements, err := u.resolveSkills(ctx, in.Skills)
	if err != nil {
		return job.Job{}, err
	}

	created, err := u.jobs.Create(ctx, j)
	if err != nil {
		return job.Job{}, u.internal("create job", err)
	}
	if err := u.jobSkills.ReplaceForJob(ctx, created.ID, requirements(created.ID)); err != nil {
		return job.Job{}, u.internal("create: store required skills", err)
	}

	u.invalidateListings(ctx)
	return created, nil
}

func (u *JobManager) Edit(ctx context.Context, ownerID, jobID uuid.UUID, in JobInput) (job.Job, error) {
	if ownerID == uuid.Nil {
		return job.Job{}, ErrUnauthorized
	}

	existing, err := u.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, u.internal("edit: load job", err)
	}
	if existing.UserID != ownerID {
		return job.Job{}, ErrForbidden
	}

	status := existing.Status
	if in.Status != "" {
		if !in.Status.Valid() {
			return job.Job{}, ErrInvalidInput
		}
		status = in.Status
	}

	updated := existing
	updated.Title = in.Title
	updated.Description = in.Description
	updated.CompanyName = in.CompanyName
	updated.ApplicationDeadline = in.ApplicationDeadline
	updated.StartDate = in.StartDate
	updated.SalaryAmount = in.SalaryAmount
	updated.WeeklyHours = in.WeeklyHours
	updated.WorkingHoursDetails = in.WorkingHoursDetails
	updated.WorkingLocation = in.WorkingLocation
	updated.InPersonLocation = in.InPersonLocation
	updated.Status = status

	updated.NormalizeLocation()
	if err := updated.Validate(); err != nil {
		return job.Job{}, errors.Join(ErrInvalidInput, err)
	}

	requirements, err := u.resolveSkills(ctx, in.Skills)
	if err != nil {
		return job.Job{}, err
	}

	saved, err := u.jobs.Update(ctx, updated)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return job.Job{}, ErrNotFound
		}
		return job.Job{}, u.internal("edit: update job", err)
	}
	if err := u.jobSkills.ReplaceForJob(ctx, saved.ID, requirements(saved.ID)); err != nil {
		return job.Job{}, u.internal("edit: store required skills", err)
	}

	u.invalidateListings(ctx)
	return saved, nil
}

func (u *JobManager) Delete(ctx context.Context, ownerID, jobID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return ErrUnauthorized
	}

	existing, err := u.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ErrNotFound
		}
		return u.internal("delete: load job", err)
	}
	if existing.UserID != ownerID {
		return ErrForbidden
	}

	if err := u.jobs.Delete(ctx, jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return ErrNotFound
		}
		return u.internal("delete job", err)
	}

	u.invalidateListings(ctx)
	return nil
}

// Detail renders one job for a viewer. Anonymous viewers get the requirement
// list without the personal overlay.
func (u *JobManager) Detail(ctx context.Context, viewerID, jobID uuid.UUID) (JobDetail, error) {
	j, err := u.jobs.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrJobNotFound) {
			return JobDetail{}, ErrNotFound
		}
		return JobDetail{}, u.internal("detail: load job", err)
	}

	js, err := u.jobSkills.FindByJobID(ctx, jobID)
	if err != nil {
		return JobDetail{}, u.internal("detail: job skills", err)
	}
	required := make([]skillmatch.RequiredSkill, 0, len(js))
	for _, s := range js {
		required = append(required, skillmatch.RequiredSkill{
			SkillID:  s.SkillID,
			Name:     s.Name,
			Category: s.Category,
			MinYears: s.MinYears,
		})
	}

	detail := JobDetail{Job: j}

	var viewerSkills []skillmatch.UserSkill
	if viewerID != uuid.Nil {
		us, err := u.userSkills.FindByUserID(ctx, viewerID)
		if err != nil {
			return JobDetail{}, u.internal("detail: user skills", err)
		}
		viewerSkills = make([]skillmatch.UserSkill, 0, len(us))
		for _, s := range us {
			viewerSkills = append(viewerSkills, skillmatch.UserSkill{
				SkillID:         s.SkillID,
				Name:            s.Name,
				Category:        s.Category,
				YearsExperience: s.YearsExperience,
			})
		}

		overall := skillmatch.Overall(viewerSkills, required)
		detail.Overall = &overall
		detail.IsOwner = j.UserID == viewerID

		apps, err := u.applications.ListByApplicant(ctx, viewerID)
		if err != nil {
			return JobDetail{}, u.internal("detail: applications", err)
		}
		for _, a := range apps {
			if a.JobID == jobID {
				detail.HasApplied = true
				break
			}
		}
	}

	detail.Skills = skillmatch.PerSkill(viewerSkills, required)
	return detail, nil
}

func (u *JobManager) ListOwn(ctx context.Context, ownerID uuid.UUID) ([]job.Job, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	jobs, err := u.jobs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, u.internal("list own jobs", err)
	}
	return jobs, nil
}

// SweepExpired closes every open job whose application deadline fell on a
// day strictly before today, in UTC. A deadline that cannot be parsed is
// skipped and reported, never treated as expired. Running the sweep twice
// is a no-op the second time.
func (u *JobManager) SweepExpired(ctx context.Context) (int64, error) {
	deadlines, err := u.jobs.ListOpenDeadlines(ctx)
	if err != nil {
		return 0, u.internal("sweep: list deadlines", err)
	}

	today := u.today()
	expired := make([]uuid.UUID, 0)
	for _, d := range deadlines {
		if d.Deadline == nil {
			u.logf("sweep: job %s has no application deadline, skipping", d.ID)
			continue
		}
		raw := *d.Deadline
		if len(raw) > len(deadlineLayout) {
			raw = raw[:len(deadlineLayout)]
		}
		day, err := time.ParseInLocation(deadlineLayout, raw, time.UTC)
		if err != nil {
			u.logf("sweep: job %s has unparsable deadline %q, skipping: %v", d.ID, *d.Deadline, err)
			continue
		}
		if day.Before(today) {
			expired = append(expired, d.ID)
		}
	}

	if len(expired) == 0 {
		return 0, nil
	}
	closed, err := u.jobs.CloseJobs(ctx, expired)
	if err != nil {
		return 0, u.internal("sweep: close jobs", err)
	}
	if closed > 0 {
		u.logf("sweep: closed %d expired job(s)", closed)
		u.invalidateListings(ctx)
	}
	return closed, nil
}

// resolveSkills parses the raw requirement map and checks each skill against
// the catalog. Malformed entries were already dropped by the parser; ids
// absent from the catalog are rejected rather than silently stored.
func (u *JobManager) resolveSkills(ctx context.Context, raw map[string]string) (func(jobID uuid.UUID) []skill.JobSkill, error) {
	parsed := ParseSkillsInput(raw, u.logger)
	for _, sy := range parsed {
		ok, err := u.skills.ExistsByID(ctx, sy.SkillID)
		if err != nil {
			return nil, u.internal("resolve skills", err)
		}
		if !ok {
			return nil, ErrInvalidInput
		}
	}
	return func(jobID uuid.UUID) []skill.JobSkill {
		out := make([]skill.JobSkill, 0, len(parsed))
		for _, sy := range parsed {
			out = append(out, skill.JobSkill{
				JobID:    jobID,
				SkillID:  sy.SkillID,
				MinYears: sy.Years,
			})
		}
		return out
	}, nil
}

func (u *JobManager) today() time.Time {
	now := u.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (u *JobManager) invalidateListings(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.InvalidateJobListings(ctx); err != nil {
		u.logf("listing cache invalidation failed: %v", err)
	}
}

func (u *JobManager) internal(op string, err error) error {
	u.logf("%s: %v", op, err)
	return ErrInternal
}

func (u *JobManager) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf("[Jobs] "+format, args...)
	}
}

package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"jobboard/internal/domain/job"
	"jobboard/internal/repository"

	"github.com/google/uuid"
)

// PageSize is the fixed page length of the public job listing.
const PageSize = 50

// ExpirySweeper closes jobs whose application deadline has passed. The
// listing runs it before querying so expired jobs never show as open.
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// ListingCache is the slice of the cache the listing uses.
type ListingCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type JobListInput struct {
	Page       int
	MinSalary  *int64
	Status     job.Status
	Location   job.WorkingLocation
	HoursOp    string
	HoursValue *float64
	MatchOnly  bool
}

type JobListItem struct {
	Job        job.Job `json:"job"`
	HasApplied bool    `json:"has_applied"`
}

type JobListPage struct {
	Jobs       []JobListItem `json:"jobs"`
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	TotalJobs  int           `json:"total_jobs"`
}

type JobListUsecase interface {
	List(ctx context.Context, userID uuid.UUID, in JobListInput) (JobListPage, error)
}

type JobListing struct {
	jobs         repository.JobRepository
	userSkills   repository.UserSkillRepository
	applications repository.ApplicationRepository
	sweeper      ExpirySweeper
	cache        ListingCache
	cacheTTL     time.Duration
	logger       *log.Logger
}

func NewJobListUsecase(
	jobs repository.JobRepository,
	userSkills repository.UserSkillRepository,
	applications repository.ApplicationRepository,
	sweeper ExpirySweeper,
	cache ListingCache,
	cacheTTL time.Duration,
	logger *log.Logger,
) *JobListing {
	return &JobListing{
		jobs:         jobs,
		userSkills:   userSkills,
		applications: applications,
		sweeper:      sweeper,
		cache:        cache,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

// List serves one page of the job board. Basic filters combine conjunctively
// in SQL; the skills-match filter is a second, in-memory pass over the
// candidates. A failed sweep or cache round-trip degrades to a live query,
// never to an error.
func (u *JobListing) List(ctx context.Context, userID uuid.UUID, in JobListInput) (JobListPage, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Status != "" && !in.Status.Valid() {
		return JobListPage{}, ErrInvalidInput
	}
	if in.Location != "" && !in.Location.Valid() {
		return JobListPage{}, ErrInvalidInput
	}
	if in.HoursValue != nil && in.HoursOp != "gt" && in.HoursOp != "lt" {
		return JobListPage{}, ErrInvalidInput
	}

	if u.sweeper != nil {
		if _, err := u.sweeper.SweepExpired(ctx); err != nil {
			u.logf("expiry sweep before listing failed: %v", err)
		}
	}

	key := u.cacheKey(userID, in)
	if u.cache != nil {
		var cached JobListPage
		if hit, err := u.cache.GetJSON(ctx, key, &cached); err != nil {
			u.logf("cache read failed for %s: %v", key, err)
		} else if hit {
			return cached, nil
		}
	}

	filter := repository.JobListFilter{
		MinSalary:  in.MinSalary,
		Status:     in.Status,
		Location:   in.Location,
		HoursOp:    in.HoursOp,
		HoursValue: in.HoursValue,
		Limit:      PageSize,
		Offset:     (in.Page - 1) * PageSize,
	}

	if in.MatchOnly && userID != uuid.Nil {
		ids, applied, err := u.matchingJobIDs(ctx, userID, filter)
		if err != nil {
			return JobListPage{}, err
		}
		if applied {
			filter.IDs = ids
		}
	}

	rows, total, err := u.jobs.List(ctx, filter)
	if err != nil {
		return JobListPage{}, u.internal("list jobs", err)
	}

	appliedSet, err := u.appliedJobIDs(ctx, userID)
	if err != nil {
		return JobListPage{}, err
	}

	items := make([]JobListItem, 0, len(rows))
	for _, j := range rows {
		items = append(items, JobListItem{
			Job:        j,
			HasApplied: appliedSet[j.ID],
		})
	}

	page := JobListPage{
		Jobs:       items,
		Page:       in.Page,
		TotalPages: (total + PageSize - 1) / PageSize,
		TotalJobs:  total,
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, page, u.cacheTTL); err != nil {
			u.logf("cache write failed for %s: %v", key, err)
		}
	}
	return page, nil
}

// matchingJobIDs runs the two-pass skills filter. The second return value
// reports whether the id restriction applies at all: a user with no recorded
// skills gets the unrestricted listing rather than an empty one.
func (u *JobListing) matchingJobIDs(ctx context.Context, userID uuid.UUID, filter repository.JobListFilter) ([]uuid.UUID, bool, error) {
	us, err := u.userSkills.FindByUserID(ctx, userID)
	if err != nil {
		return nil, false, u.internal("match filter: user skills", err)
	}
	if len(us) == 0 {
		return nil, false, nil
	}

	years := make(map[uuid.UUID]float64, len(us))
	for _, s := range us {
		years[s.SkillID] = s.YearsExperience
	}

	candidates, err := u.jobs.ListCandidatesWithSkills(ctx, filter)
	if err != nil {
		return nil, false, u.internal("match filter: candidates", err)
	}

	ids := make([]uuid.UUID, 0, len(candidates))
	for _, c := range candidates {
		if u.satisfiesAll(years, c) {
			ids = append(ids, c.JobID)
		}
	}
	if len(ids) == 0 {
		// An empty id list would drop the restriction entirely, so an
		// impossible id stands in for "match nothing".
		ids = []uuid.UUID{uuid.Nil}
	}
	return ids, true, nil
}

// satisfiesAll holds when every requirement is both present and met by the
// user's recorded years. A job with no requirements matches everyone.
func (u *JobListing) satisfiesAll(years map[uuid.UUID]float64, c repository.JobRequirements) bool {
	for _, req := range c.Required {
		have, ok := years[req.SkillID]
		if !ok || have < req.MinYears {
			return false
		}
	}
	return true
}

func (u *JobListing) appliedJobIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	if userID == uuid.Nil {
		return map[uuid.UUID]bool{}, nil
	}
	apps, err := u.applications.ListByApplicant(ctx, userID)
	if err != nil {
		return nil, u.internal("list applied jobs", err)
	}
	set := make(map[uuid.UUID]bool, len(apps))
	for _, a := range apps {
		set[a.JobID] = true
	}
	return set, nil
}

func (u *JobListing) cacheKey(userID uuid.UUID, in JobListInput) string {
	salary := int64(-1)
	if in.MinSalary != nil {
		salary = *in.MinSalary
	}
	hours := "-"
	if in.HoursValue != nil {
		hours = fmt.Sprintf("%s%.1f", in.HoursOp, *in.HoursValue)
	}
	return fmt.Sprintf("jobs:list:%s:p%d:s%d:st%s:loc%s:h%s:m%t",
		userID, in.Page, salary, in.Status, in.Location, hours, in.MatchOnly)
}

func (u *JobListing) internal(op string, err error) error {
	u.logf("%s: %v", op, err)
	return ErrInternal
}

func (u *JobListing) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf("[JobListing] "+format, args...)
	}
}

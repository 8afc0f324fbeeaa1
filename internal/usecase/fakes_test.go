package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"jobboard/internal/domain/application"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/skill"
	"jobboard/internal/domain/user"
	"jobboard/internal/repository"

	"github.com/google/uuid"
)

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[uuid.UUID]application.Application

	createErr error
	listErr   error
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[uuid.UUID]application.Application{}}
}

func (r *fakeApplicationRepo) Create(_ context.Context, a application.Application) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return application.Application{}, r.createErr
	}
	for _, existing := range r.apps {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return application.Application{}, repository.ErrDuplicateApplication
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.Status = application.StatusPending
	a.CreatedAt = time.Now()
	r.apps[a.ID] = a
	return a, nil
}

func (r *fakeApplicationRepo) FindByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return application.Application{}, repository.ErrApplicationNotFound
	}
	return a, nil
}

func (r *fakeApplicationRepo) ListByApplicant(_ context.Context, applicantID uuid.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]application.Application, 0)
	for _, a := range r.apps {
		if a.ApplicantID == applicantID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]application.Application, 0)
	for _, a := range r.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListForJobOwner(_ context.Context, _ uuid.UUID) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]application.Application, 0, len(r.apps))
	for _, a := range r.apps {
		out = append(out, a)
	}
	return out, nil
}

// UpdateStatusFrom mirrors the storage CAS: it only succeeds when the stored
// status still equals from.
func (r *fakeApplicationRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, from, to application.Status) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return application.Application{}, repository.ErrApplicationNotFound
	}
	if a.Status != from {
		return application.Application{}, repository.ErrStaleStatus
	}
	a.Status = to
	r.apps[id] = a
	return a, nil
}

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]job.Job
	// order fixes List output; maps do not keep insertion order.
	order []uuid.UUID

	candidates []repository.JobRequirements
	deadlines  []repository.OpenJobDeadline

	closeErr   error
	closeCalls int
	closedIDs  []uuid.UUID
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uuid.UUID]job.Job{}}
}

func (r *fakeJobRepo) add(j job.Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	r.jobs[j.ID] = j
	r.order = append(r.order, j.ID)
}

func (r *fakeJobRepo) Create(_ context.Context, j job.Job) (job.Job, error) {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	j.Status = job.StatusOpen
	r.add(j)
	return j, nil
}

func (r *fakeJobRepo) FindByID(_ context.Context, id uuid.UUID) (job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) Update(_ context.Context, j job.Job) (job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[j.ID]; !ok {
		return job.Job{}, repository.ErrJobNotFound
	}
	r.jobs[j.ID] = j
	return j, nil
}

func (r *fakeJobRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return repository.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) List(_ context.Context, f repository.JobListFilter) ([]job.Job, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var allowed map[uuid.UUID]bool
	if f.IDs != nil {
		allowed = make(map[uuid.UUID]bool, len(f.IDs))
		for _, id := range f.IDs {
			allowed[id] = true
		}
	}

	filtered := make([]job.Job, 0, len(r.order))
	for _, id := range r.order {
		j := r.jobs[id]
		if allowed != nil && !allowed[j.ID] {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.MinSalary != nil && j.SalaryAmount < *f.MinSalary {
			continue
		}
		if f.Location != "" && j.WorkingLocation != f.Location {
			continue
		}
		filtered = append(filtered, j)
	}

	total := len(filtered)
	start := f.Offset
	if start > total {
		start = total
	}
	end := start + f.Limit
	if f.Limit <= 0 || end > total {
		end = total
	}
	return filtered[start:end], total, nil
}

func (r *fakeJobRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]job.Job, 0)
	for _, id := range r.order {
		if r.jobs[id].UserID == ownerID {
			out = append(out, r.jobs[id])
		}
	}
	return out, nil
}

func (r *fakeJobRepo) ListCandidatesWithSkills(_ context.Context, _ repository.JobListFilter) ([]repository.JobRequirements, error) {
	return r.candidates, nil
}

func (r *fakeJobRepo) ListOpenDeadlines(_ context.Context) ([]repository.OpenJobDeadline, error) {
	if r.deadlines != nil {
		return r.deadlines, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.OpenJobDeadline, 0)
	for _, id := range r.order {
		j := r.jobs[id]
		if j.Status != job.StatusOpen {
			continue
		}
		d := j.ApplicationDeadline.Format("2006-01-02")
		out = append(out, repository.OpenJobDeadline{ID: j.ID, Deadline: &d})
	}
	return out, nil
}

func (r *fakeJobRepo) CloseJobs(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, id := range ids {
		j, ok := r.jobs[id]
		if !ok || j.Status != job.StatusOpen {
			continue
		}
		j.Status = job.StatusClosed
		r.jobs[id] = j
		r.closedIDs = append(r.closedIDs, id)
		n++
	}
	return n, nil
}

func (r *fakeJobRepo) CloseIfOpen(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeCalls++
	if r.closeErr != nil {
		return false, r.closeErr
	}
	j, ok := r.jobs[id]
	if !ok || j.Status != job.StatusOpen {
		return false, nil
	}
	j.Status = job.StatusClosed
	r.jobs[id] = j
	return true, nil
}

type fakeJobSkillRepo struct {
	byJob map[uuid.UUID][]skill.JobSkill
}

func (r *fakeJobSkillRepo) FindByJobID(_ context.Context, jobID uuid.UUID) ([]skill.JobSkill, error) {
	return r.byJob[jobID], nil
}

func (r *fakeJobSkillRepo) ReplaceForJob(_ context.Context, jobID uuid.UUID, skills []skill.JobSkill) error {
	if r.byJob == nil {
		r.byJob = map[uuid.UUID][]skill.JobSkill{}
	}
	r.byJob[jobID] = skills
	return nil
}

type fakeUserSkillRepo struct {
	byUser map[uuid.UUID][]skill.UserSkill
}

func (r *fakeUserSkillRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]skill.UserSkill, error) {
	return r.byUser[userID], nil
}

func (r *fakeUserSkillRepo) ReplaceForUser(_ context.Context, userID uuid.UUID, skills []skill.UserSkill) error {
	if r.byUser == nil {
		r.byUser = map[uuid.UUID][]skill.UserSkill{}
	}
	r.byUser[userID] = skills
	return nil
}

type fakeSkillRepo struct {
	known map[uuid.UUID]skill.Skill
}

func (r *fakeSkillRepo) ListAll(_ context.Context) ([]skill.Skill, error) {
	out := make([]skill.Skill, 0, len(r.known))
	for _, s := range r.known {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSkillRepo) FindByID(_ context.Context, id uuid.UUID) (skill.Skill, error) {
	s, ok := r.known[id]
	if !ok {
		return skill.Skill{}, repository.ErrSkillNotFound
	}
	return s, nil
}

func (r *fakeSkillRepo) ExistsByID(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.known[id]
	return ok, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uuid.UUID]user.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.User{}, repository.ErrEmailTaken
		}
		if existing.Username == u.Username {
			return user.User{}, repository.ErrUsernameTaken
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return user.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (user.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, repository.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdateEmail(_ context.Context, id uuid.UUID, email string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Email = email
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdateUsername(_ context.Context, id uuid.UUID, username string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Username = username
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) UpdatePreferences(_ context.Context, id uuid.UUID, ownStatus, newApplicant bool) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.NotifyOwnStatusChange = ownStatus
	u.NotifyNewApplicant = newApplicant
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) MarkVerified(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.IsVerified = true
	r.users[id] = u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// fakeMailer records every lifecycle and account email it is asked to send.
type fakeMailer struct {
	mu        sync.Mutex
	calls     []string
	lastToken string
}

func (m *fakeMailer) record(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, kind)
}

func (m *fakeMailer) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == kind {
			n++
		}
	}
	return n
}

func (m *fakeMailer) NewApplication(context.Context, user.User, user.User, job.Job, application.Application) {
	m.record("new_application")
}

func (m *fakeMailer) StatusUpdate(context.Context, user.User, job.Job, application.Application) {
	m.record("status_update")
}

func (m *fakeMailer) OfferAccepted(context.Context, user.User, user.User, job.Job) {
	m.record("offer_accepted")
}

func (m *fakeMailer) OfferDeclined(context.Context, user.User, user.User, job.Job) {
	m.record("offer_declined")
}

func (m *fakeMailer) VerificationLink(_ context.Context, _ user.User, _ string, path string, token string) {
	m.mu.Lock()
	m.lastToken = token
	m.mu.Unlock()
	m.record("link:" + path)
}

func (m *fakeMailer) token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastToken
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) PublishApplicationEvent(_, _ uuid.UUID, status string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, status)
}

type fakeCache struct {
	mu          sync.Mutex
	store       map[string][]byte
	invalidated int
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.store[key] = raw
	return nil
}

func (c *fakeCache) InvalidateJobListings(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.store = nil
	return nil
}

type fakeSweeper struct {
	calls int
}

func (s *fakeSweeper) SweepExpired(context.Context) (int64, error) {
	s.calls++
	return 0, nil
}

package handler

import (
	"strconv"
	"time"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/job"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobHandler struct {
	jobs    usecase.JobUsecase
	listing usecase.JobListUsecase
}

type jobRequest struct {
	Title               string                 `json:"title"`
	Description         string                 `json:"description"`
	CompanyName         string                 `json:"company_name"`
	ApplicationDeadline string                 `json:"application_deadline"`
	StartDate           string                 `json:"start_date"`
	SalaryAmount        int64                  `json:"salary_amount"`
	WeeklyHours         float64                `json:"weekly_hours"`
	WorkingHoursDetails []job.WorkingHoursSlot `json:"working_hours_details"`
	WorkingLocation     string                 `json:"working_location"`
	InPersonLocation    *string                `json:"in_person_location"`
	Status              string                 `json:"status"`
	Skills              map[string]string      `json:"skills"`
}

func NewJobHandler(jobs usecase.JobUsecase, listing usecase.JobListUsecase) *JobHandler {
	return &JobHandler{jobs: jobs, listing: listing}
}

// RegisterPublicRoutes mounts the endpoints that work anonymously; the
// optional-auth middleware upgrades them when a token is present.
func (h *JobHandler) RegisterPublicRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Get("/:id", h.Detail)
}

func (h *JobHandler) RegisterProtectedRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/mine", h.ListOwn)
	r.Post("/", h.Create)
	r.Put("/:id", h.Edit)
	r.Delete("/:id", h.Delete)
}

func (h *JobHandler) List(c fiber.Ctx) error {
	in, err := listInputFromQuery(c)
	if err != nil {
		return err
	}

	page, err := h.listing.List(c.Context(), viewerID(c), in)
	if err != nil {
		return mapUsecaseError(err)
	}

	items := make([]dto.JobListItemResponse, 0, len(page.Jobs))
	for _, it := range page.Jobs {
		items = append(items, dto.JobListItemResponse{
			JobResponse: dto.NewJobResponse(it.Job),
			HasApplied:  it.HasApplied,
		})
	}
	res := dto.JobListResponse{
		Jobs:       items,
		Page:       page.Page,
		TotalPages: page.TotalPages,
		TotalJobs:  page.TotalJobs,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *JobHandler) Detail(c fiber.Ctx) error {
	jobID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.jobs.Detail(c.Context(), viewerID(c), jobID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := dto.JobDetailResponse{
		JobResponse: dto.NewJobResponse(detail.Job),
		HasApplied:  detail.HasApplied,
		IsOwner:     detail.IsOwner,
	}
	res.Skills = make([]dto.SkillMatchResponse, 0, len(detail.Skills))
	for _, s := range detail.Skills {
		res.Skills = append(res.Skills, dto.SkillMatchResponse{
			SkillID:       s.SkillID,
			Name:          s.Name,
			Category:      s.Category,
			RequiredYears: s.RequiredYears,
			UserYears:     s.UserYears,
			Status:        string(s.Status),
			Difference:    s.Difference,
		})
	}
	if detail.Overall != nil {
		res.Overall = &dto.OverallMatchResponse{
			Status: string(detail.Overall.Status),
			Label:  detail.Overall.Label,
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *JobHandler) ListOwn(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobs.ListOwn(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		res = append(res, dto.NewJobResponse(j))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *JobHandler) Create(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}

	in, err := jobInputFromBody(c)
	if err != nil {
		return err
	}

	created, err := h.jobs.Create(c.Context(), userID, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageOK, dto.NewJobResponse(created))
}

func (h *JobHandler) Edit(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	jobID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	in, err := jobInputFromBody(c)
	if err != nil {
		return err
	}

	updated, err := h.jobs.Edit(c.Context(), userID, jobID, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(updated))
}

func (h *JobHandler) Delete(c fiber.Ctx) error {
	userID, err := authenticatedUserID(c)
	if err != nil {
		return err
	}
	jobID, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobs.Delete(c.Context(), userID, jobID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job deleted", nil)
}

func jobInputFromBody(c fiber.Ctx) (usecase.JobInput, error) {
	var req jobRequest
	if err := c.Bind().Body(&req); err != nil {
		return usecase.JobInput{}, middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	deadline, err := time.ParseInLocation("2006-01-02", req.ApplicationDeadline, time.UTC)
	if err != nil {
		return usecase.JobInput{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid application deadline", nil, err)
	}
	start, err := time.ParseInLocation("2006-01-02", req.StartDate, time.UTC)
	if err != nil {
		return usecase.JobInput{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid start date", nil, err)
	}

	return usecase.JobInput{
		Title:               req.Title,
		Description:         req.Description,
		CompanyName:         req.CompanyName,
		ApplicationDeadline: deadline,
		StartDate:           start,
		SalaryAmount:        req.SalaryAmount,
		WeeklyHours:         req.WeeklyHours,
		WorkingHoursDetails: req.WorkingHoursDetails,
		WorkingLocation:     job.WorkingLocation(req.WorkingLocation),
		InPersonLocation:    req.InPersonLocation,
		Status:              job.Status(req.Status),
		Skills:              req.Skills,
	}, nil
}

func listInputFromQuery(c fiber.Ctx) (usecase.JobListInput, error) {
	in := usecase.JobListInput{Page: 1}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return usecase.JobListInput{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid page", nil, err)
		}
		in.Page = page
	}
	if raw := c.Query("min_salary"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return usecase.JobListInput{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid min_salary", nil, err)
		}
		in.MinSalary = &v
	}
	if raw := c.Query("status"); raw != "" {
		in.Status = job.Status(raw)
	}
	if raw := c.Query("location"); raw != "" {
		in.Location = job.WorkingLocation(raw)
	}
	if raw := c.Query("hours_gt"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return usecase.JobListInput{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid hours_gt", nil, err)
		}
		in.HoursOp, in.HoursValue = "gt", &v
	}
	if raw := c.Query("hours_lt"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return usecase.JobListInput{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid hours_lt", nil, err)
		}
		in.HoursOp, in.HoursValue = "lt", &v
	}
	if raw := c.Query("match_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return usecase.JobListInput{}, middleware.NewAppError(fiber.StatusBadRequest, "Invalid match_only", nil, err)
		}
		in.MatchOnly = v
	}
	return in, nil
}

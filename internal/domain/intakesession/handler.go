package intakesession

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dentalpm/dentalpm/internal/domain/catalog"
	"github.com/dentalpm/dentalpm/internal/domain/patient"
	"github.com/dentalpm/dentalpm/internal/domain/treatment"
	"github.com/dentalpm/dentalpm/internal/intake"
	"github.com/dentalpm/dentalpm/internal/platform/auth"
)

// Handler exposes the intake workflow over REST. Every route below a session
// ID resolves the session, locks it, and applies one workflow operation.
type Handler struct {
	mgr     *Manager
	observe func(outcome string)
}

// NewHandler wires the session manager. observe receives the outcome of every
// submission attempt for metrics; nil disables it.
func NewHandler(mgr *Manager, observe func(outcome string)) *Handler {
	if observe == nil {
		observe = func(string) {}
	}
	return &Handler{mgr: mgr, observe: observe}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/intake-sessions", auth.RequireRole("admin", "clinician"))

	g.POST("", h.Create)
	g.GET("/:id", h.State)
	g.DELETE("/:id", h.Cancel)

	g.GET("/:id/patients", h.SearchPatients)
	g.POST("/:id/patient", h.SelectPatient)

	g.PUT("/:id/fields", h.UpdateField)

	g.PUT("/:id/chart/scheme", h.SetScheme)
	g.POST("/:id/chart/selection", h.ToggleTooth)
	g.POST("/:id/chart/editor", h.OpenIssueEditor)
	g.PUT("/:id/chart/editor", h.CommitIssue)
	g.DELETE("/:id/chart/editor", h.CancelIssueEditor)
	g.DELETE("/:id/chart/issues", h.RemoveIssues)

	g.GET("/:id/categories", h.Categories)

	g.POST("/:id/plans/draft", h.OpenPlanDraft)
	g.PUT("/:id/plans/draft", h.SetPlanDetails)
	g.POST("/:id/plans/draft/save", h.SavePlanDraft)
	g.DELETE("/:id/plans/draft", h.CancelPlanDraft)
	g.POST("/:id/plans/draft/costs", h.AddCostLine)
	g.PUT("/:id/plans/draft/costs/:index", h.UpdateCostLine)
	g.DELETE("/:id/plans/draft/costs/:index", h.RemoveCostLine)
	g.DELETE("/:id/plans/:index", h.DeletePlan)

	g.POST("/:id/wizard/next", h.Next)
	g.POST("/:id/wizard/previous", h.Previous)
	g.POST("/:id/wizard/skip", h.Skip)
	g.POST("/:id/wizard/jump", h.Jump)

	g.GET("/:id/summary", h.Summary)
	g.POST("/:id/submit", h.Submit)
}

func (h *Handler) session(c echo.Context) (*Session, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	s, err := h.mgr.Get(id)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound, "session not found")
	}
	return s, nil
}

func indexParam(c echo.Context) (int, error) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid index")
	}
	return idx, nil
}

// stateView is the full session snapshot the client renders a step from.
type stateView struct {
	ID          uuid.UUID                    `json:"id"`
	Edit        bool                         `json:"edit"`
	Step        intake.Step                  `json:"step"`
	Errors      map[string]string            `json:"errors"`
	Submitted   bool                         `json:"submitted"`
	LoadError   string                       `json:"loadError,omitempty"`
	Patient     intake.PatientRef            `json:"patient"`
	Scheme      intake.Scheme                `json:"scheme"`
	Selected    []int                        `json:"selectedTeeth"`
	ToothIssues map[int]treatment.ToothIssue `json:"toothIssues"`
	Plans       []treatment.TreatmentPlan    `json:"treatmentPlans"`
}

func (h *Handler) view(s *Session) stateView {
	var v stateView
	_ = s.Do(func(wf *intake.Workflow) error {
		v = stateView{
			ID:          s.ID,
			Edit:        wf.IsEdit(),
			Step:        wf.Wizard.Current(),
			Errors:      wf.Wizard.Errors(),
			Submitted:   wf.Submitted(),
			Patient:     wf.Form().PatientRef,
			Scheme:      wf.Chart.ActiveScheme(),
			Selected:    wf.Chart.Selected(),
			ToothIssues: wf.Form().ToothIssues,
			Plans:       wf.Form().Plans,
		}
		if err := wf.LoadErr(); err != nil {
			v.LoadError = err.Error()
		}
		return nil
	})
	return v
}

func (h *Handler) Create(c echo.Context) error {
	var req struct {
		TreatmentID string `json:"treatmentId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var s *Session
	if req.TreatmentID != "" {
		tid, err := uuid.Parse(req.TreatmentID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid treatmentId")
		}
		s = h.mgr.CreateForEdit(c.Request().Context(), tid)
	} else {
		s = h.mgr.Create(c.Request().Context())
	}
	return c.JSON(http.StatusCreated, h.view(s))
}

func (h *Handler) State(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) Cancel(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	h.mgr.Delete(s.ID)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SearchPatients(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var matches []patient.Patient
	_ = s.Do(func(wf *intake.Workflow) error {
		matches = wf.Selector.Search(c.QueryParam("q"))
		return nil
	})
	return c.JSON(http.StatusOK, matches)
}

func (h *Handler) SelectPatient(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req struct {
		PatientID string `json:"patientId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	pid, err := uuid.Parse(req.PatientID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patientId")
	}

	found := false
	_ = s.Do(func(wf *intake.Workflow) error {
		for _, p := range wf.Selector.Candidates() {
			if p.ID == pid {
				wf.Selector.Select(p)
				found = true
				break
			}
		}
		return nil
	})
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) UpdateField(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req struct {
		Path  string `json:"path"`
		Value string `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.Do(func(wf *intake.Workflow) error {
		return wf.UpdateField(req.Path, req.Value)
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SetScheme(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req struct {
		Scheme string `json:"scheme"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.Do(func(wf *intake.Workflow) error {
		return wf.Chart.SetScheme(intake.Scheme(req.Scheme))
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) ToggleTooth(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req struct {
		Tooth int `json:"tooth"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.Do(func(wf *intake.Workflow) error {
		return wf.Chart.ToggleTooth(req.Tooth)
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) OpenIssueEditor(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var prefill intake.IssuePrefill
	if err := s.Do(func(wf *intake.Workflow) error {
		var err error
		prefill, err = wf.Chart.OpenEditor()
		return err
	}); err != nil {
		if errors.Is(err, intake.ErrNoSelection) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, prefill)
}

func (h *Handler) CommitIssue(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req intake.IssuePrefill
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.Do(func(wf *intake.Workflow) error {
		return wf.Chart.CommitIssue(req.Issue, req.Comment)
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) CancelIssueEditor(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	_ = s.Do(func(wf *intake.Workflow) error {
		wf.Chart.CancelEditor()
		return nil
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RemoveIssues(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if err := s.Do(func(wf *intake.Workflow) error {
		return wf.Chart.RemoveIssue()
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) Categories(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var resp struct {
		Displayed []catalog.Category `json:"displayed"`
		Total     int                `json:"total"`
		ShowAll   bool               `json:"showAll"`
	}
	_ = s.Do(func(wf *intake.Workflow) error {
		view := wf.Composer.Categories()
		if q := c.QueryParam("q"); q != view.Query() {
			view.SetQuery(q)
		}
		if c.QueryParam("all") == "true" && !view.ShowAll() {
			view.ToggleShowAll()
		}
		resp.Displayed = view.Displayed()
		resp.Total = len(view.Matches())
		resp.ShowAll = view.ShowAll()
		return nil
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) OpenPlanDraft(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req struct {
		Index *int `json:"index"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var plan treatment.TreatmentPlan
	if err := s.Do(func(wf *intake.Workflow) error {
		if req.Index != nil {
			d, err := wf.Composer.OpenEdit(*req.Index)
			if err != nil {
				return err
			}
			plan = d.Plan()
			return nil
		}
		plan = wf.Composer.OpenNew().Plan()
		return nil
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *Handler) SetPlanDetails(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req struct {
		Name      string `json:"name"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Status    string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := s.Do(func(wf *intake.Workflow) error {
		d := wf.Composer.Draft()
		if d == nil {
			return intake.ErrNoDraft
		}
		return d.SetDetails(req.Name, req.StartDate, req.EndDate, req.Status)
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SavePlanDraft(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	if err := s.Do(func(wf *intake.Workflow) error {
		return wf.Composer.Save()
	}); err != nil {
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) CancelPlanDraft(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	_ = s.Do(func(wf *intake.Workflow) error {
		wf.Composer.Cancel()
		return nil
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AddCostLine(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req struct {
		CategoryID string `json:"categoryId"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cid, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid categoryId")
	}
	var plan treatment.TreatmentPlan
	if err := s.Do(func(wf *intake.Workflow) error {
		d := wf.Composer.Draft()
		if d == nil {
			return intake.ErrNoDraft
		}
		if err := d.AddCostLine(cid); err != nil {
			return err
		}
		plan = d.Plan()
		return nil
	}); err != nil {
		if errors.Is(err, intake.ErrUnknownCategory) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *Handler) UpdateCostLine(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	idx, err := indexParam(c)
	if err != nil {
		return err
	}
	var req struct {
		Field string  `json:"field"`
		Value float64 `json:"value"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var plan treatment.TreatmentPlan
	if err := s.Do(func(wf *intake.Workflow) error {
		d := wf.Composer.Draft()
		if d == nil {
			return intake.ErrNoDraft
		}
		if err := d.UpdateCostLine(idx, intake.CostField(req.Field), req.Value); err != nil {
			return err
		}
		plan = d.Plan()
		return nil
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *Handler) RemoveCostLine(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	idx, err := indexParam(c)
	if err != nil {
		return err
	}
	var plan treatment.TreatmentPlan
	if err := s.Do(func(wf *intake.Workflow) error {
		d := wf.Composer.Draft()
		if d == nil {
			return intake.ErrNoDraft
		}
		if err := d.RemoveCostLine(idx); err != nil {
			return err
		}
		plan = d.Plan()
		return nil
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, plan)
}

func (h *Handler) DeletePlan(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	idx, err := indexParam(c)
	if err != nil {
		return err
	}
	if err := s.Do(func(wf *intake.Workflow) error {
		return wf.Composer.Delete(idx)
	}); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) Next(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var ok bool
	_ = s.Do(func(wf *intake.Workflow) error {
		ok = wf.Wizard.Next()
		return nil
	})
	v := h.view(s)
	if !ok {
		return c.JSON(http.StatusUnprocessableEntity, v)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) Previous(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	_ = s.Do(func(wf *intake.Workflow) error {
		wf.Wizard.Previous()
		return nil
	})
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) Skip(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var ok bool
	_ = s.Do(func(wf *intake.Workflow) error {
		ok = wf.Wizard.Skip()
		return nil
	})
	if !ok {
		return echo.NewHTTPError(http.StatusConflict, "current step cannot be skipped")
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) Jump(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var req struct {
		Step int `json:"step"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var ok bool
	_ = s.Do(func(wf *intake.Workflow) error {
		ok = wf.Wizard.JumpTo(intake.Step(req.Step))
		return nil
	})
	if !ok {
		return echo.NewHTTPError(http.StatusConflict, "step is not reachable")
	}
	return c.JSON(http.StatusOK, h.view(s))
}

func (h *Handler) Summary(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	var sum intake.Summary
	_ = s.Do(func(wf *intake.Workflow) error {
		sum = wf.Summarize()
		return nil
	})
	return c.JSON(http.StatusOK, sum)
}

func (h *Handler) Submit(c echo.Context) error {
	s, err := h.session(c)
	if err != nil {
		return err
	}
	t, err := s.Submit(c.Request().Context())
	if err != nil {
		var verr *intake.ValidationError
		switch {
		case errors.As(err, &verr):
			h.observe("invalid")
			return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{"errors": verr.Fields})
		case errors.Is(err, ErrSubmitInFlight), errors.Is(err, intake.ErrAlreadySubmitted):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			h.observe("error")
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
	}
	h.observe("success")
	h.mgr.Delete(s.ID)
	return c.JSON(http.StatusCreated, t)
}

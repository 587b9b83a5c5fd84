package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/readvoc/internal/entity"
	"github.com/eslsoft/readvoc/internal/repository"
	"github.com/eslsoft/readvoc/internal/usecase"
)

// Handler exposes the engine over a JSON HTTP API.
type Handler struct {
	stats     usecase.TextStatsUsecase
	recommend usecase.RecommendUsecase
	review    usecase.ReviewUsecase
	texts     repository.TextRepository
	logger    *logrus.Logger
}

// NewHandler wires the usecases into an HTTP handler.
func NewHandler(
	stats usecase.TextStatsUsecase,
	recommend usecase.RecommendUsecase,
	review usecase.ReviewUsecase,
	texts repository.TextRepository,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		stats:     stats,
		recommend: recommend,
		review:    review,
		texts:     texts,
		logger:    logger,
	}
}

// Register mounts all routes under /api/v1.
func (h *Handler) Register(e *echo.Echo) {
	v1 := e.Group("/api/v1")
	v1.GET("/texts", h.listTexts)
	v1.GET("/texts/:id/stats", h.textStats)
	v1.GET("/languages/:id/recommendations", h.recommendations)
	v1.GET("/review/next", h.nextWord)
	v1.POST("/terms/:id/status", h.updateTermStatus)
	v1.POST("/texts/:id/terms/status", h.bulkSetStatus)
}

type textDTO struct {
	ID         int64     `json:"id"`
	LanguageID int64     `json:"language_id"`
	Title      string    `json:"title"`
	Annotated  bool      `json:"annotated"`
	Archived   bool      `json:"archived"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type listTextsResponse struct {
	Texts []textDTO `json:"texts"`
	Total int64     `json:"total"`
}

func (h *Handler) listTexts(c echo.Context) error {
	query := &repository.ListTextQuery{}
	query.Filter = c.QueryParam("filter")
	query.OrderBy = c.QueryParam("order_by")
	query.PageNo = int32(queryInt(c, "page", 0))
	query.PageSize = int32(queryInt(c, "page_size", 0))
	query.LangID = queryInt(c, "language_id", 0)
	query.Pagination.Normalize(20, 100)

	texts, total, err := h.texts.List(c.Request().Context(), query)
	if err != nil {
		return h.fail(c, err)
	}

	resp := listTextsResponse{Texts: make([]textDTO, 0, len(texts)), Total: total}
	for _, text := range texts {
		resp.Texts = append(resp.Texts, textDTO{
			ID:         text.ID,
			LanguageID: text.LangID,
			Title:      text.Title,
			Annotated:  text.Annotated,
			Archived:   text.Archived,
			CreatedAt:  text.CreatedAt,
			UpdatedAt:  text.UpdatedAt,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) textStats(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, entity.ErrInvalidTextID)
	}
	snapshot, err := h.stats.Snapshot(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) recommendations(c echo.Context) error {
	langID, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, entity.ErrInvalidLanguageID)
	}

	req := entity.RecommendationRequest{
		Limit: int32(queryInt(c, "limit", 0)),
	}
	if raw := c.QueryParam("target"); raw != "" {
		target, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "target must be a number")
		}
		req.Target = target
	}

	list, err := h.recommend.Recommend(c.Request().Context(), langID, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

type termDTO struct {
	ID          int64      `json:"id"`
	LanguageID  int64      `json:"language_id"`
	Text        string     `json:"text"`
	WordCount   int32      `json:"word_count"`
	Status      int32      `json:"status"`
	Translation string     `json:"translation"`
	LastAsked   *time.Time `json:"last_asked,omitempty"`
}

type nextWordResponse struct {
	Term    *termDTO `json:"term"`
	TestKey string   `json:"test_key"`
}

func (h *Handler) nextWord(c echo.Context) error {
	params := entity.ReviewSessionParams{
		TestKey:   c.QueryParam("test_key"),
		Selection: c.QueryParam("selection"),
		WordMode:  c.QueryParam("word_mode"),
		WordRegex: c.QueryParam("word_regex"),
		Kind:      c.QueryParam("kind"),
		LangID:    queryInt(c, "language_id", 0),
	}

	term, testKey, err := h.review.NextWord(c.Request().Context(), params)
	if err != nil {
		return h.fail(c, err)
	}

	resp := nextWordResponse{TestKey: testKey}
	if term != nil {
		resp.Term = &termDTO{
			ID:          term.ID,
			LanguageID:  term.LangID,
			Text:        term.Text,
			WordCount:   term.WordCount,
			Status:      int32(term.Status),
			Translation: term.Translation,
			LastAsked:   term.LastAsked,
		}
	}
	return c.JSON(http.StatusOK, resp)
}

type updateStatusRequest struct {
	Status *int32 `json:"status"`
	Change *int32 `json:"change"`
}

type updateStatusResponse struct {
	TermID int64 `json:"term_id"`
	Status int32 `json:"status"`
}

func (h *Handler) updateTermStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, entity.ErrInvalidTermID)
	}

	var body updateStatusRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	req := usecase.UpdateStatusRequest{TermID: id, Change: body.Change}
	if body.Status != nil {
		status := entity.Status(*body.Status)
		req.Status = &status
	}

	stored, err := h.review.UpdateStatus(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, updateStatusResponse{TermID: id, Status: int32(stored)})
}

type bulkStatusRequest struct {
	Status int32 `json:"status"`
}

type bulkStatusResponse struct {
	TextID   int64 `json:"text_id"`
	Status   int32 `json:"status"`
	Affected int64 `json:"affected"`
}

func (h *Handler) bulkSetStatus(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return h.fail(c, entity.ErrInvalidTextID)
	}

	var body bulkStatusRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	affected, err := h.review.BulkSetStatus(c.Request().Context(), id, entity.Status(body.Status))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, bulkStatusResponse{TextID: id, Status: body.Status, Affected: affected})
}

func (h *Handler) fail(c echo.Context, err error) error {
	status := statusOf(err)
	if status == http.StatusInternalServerError && h.logger != nil {
		h.logger.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return echo.NewHTTPError(status, err.Error())
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrBadRequest
	}
	return id, nil
}

func queryInt(c echo.Context, name string, fallback int64) int64 {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

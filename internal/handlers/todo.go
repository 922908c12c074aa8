package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ig0r-ferreira/todoapi/internal/auth"
	dom "github.com/ig0r-ferreira/todoapi/internal/domain"
	"github.com/ig0r-ferreira/todoapi/internal/dto"
	"github.com/ig0r-ferreira/todoapi/internal/service"
)

type TodoHandler struct {
	svc *service.TodoService
}

func NewTodoHandler(svc *service.TodoService) *TodoHandler {
	return &TodoHandler{svc: svc}
}

// Create godoc
// @Summary      Create a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.CreateTodoRequest  true  "Todo body"
// @Success      201   {object}  dto.TodoResponse
// @Failure      422   {object}  map[string]string
// @Router       /todos [post]
func (h *TodoHandler) Create(c *gin.Context) {
	var req dto.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	state := req.State.Ptr()
	if state == nil {
		validationDetail(c, "state: use one of draft, todo, doing, done")
		return
	}

	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c), req.Title, req.Description, *state)
	if err != nil {
		serverError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TodoToResponse(t))
}

// List godoc
// @Summary      List the caller's todos
// @Tags         todos
// @Produce      json
// @Security     BearerAuth
// @Param        title        query  string  false  "Title substring, case-insensitive"
// @Param        description  query  string  false  "Description substring, case-insensitive"
// @Param        state        query  string  false  "Exact state"  Enums(draft, todo, doing, done)
// @Param        offset       query  int     false  "Records to skip"
// @Param        limit        query  int     false  "Max records to return"
// @Success      200  {object}  dto.ListTodosResponse
// @Failure      422  {object}  map[string]string
// @Router       /todos/ [get]
func (h *TodoHandler) List(c *gin.Context) {
	var q dto.ListTodosQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		validationError(c, err)
		return
	}
	filter := dom.TodoFilter{
		Title:       strings.TrimSpace(q.Title),
		Description: strings.TrimSpace(q.Description),
	}
	if s := strings.TrimSpace(q.State); s != "" {
		state, err := dom.ParseTodoState(s)
		if err != nil {
			validationDetail(c, "state: use one of draft, todo, doing, done")
			return
		}
		filter.State = &state
	}

	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c), filter, dom.Page{Offset: q.Offset, Limit: q.Limit})
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListTodosResponse{Todos: dto.TodosToResponses(list)})
}

// Update godoc
// @Summary      Update a todo
// @Tags         todos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int  true  "Todo ID"
// @Param        body  body      dto.UpdateTodoRequest  true  "Partial update"
// @Success      200   {object}  dto.TodoResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /todos/{id} [patch]
func (h *TodoHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id, req.Patch())
	if err != nil {
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found."})
			return
		}
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TodoToResponse(t))
}

// Delete godoc
// @Summary      Delete a todo
// @Tags         todos
// @Security     BearerAuth
// @Param        id   path  int  true  "Todo ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /todos/{id} [delete]
func (h *TodoHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if err == service.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Task not found."})
			return
		}
		serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		validationDetail(c, "invalid id")
		return 0, false
	}
	return id, true
}

func validationError(c *gin.Context, err error) {
	validationDetail(c, err.Error())
}

func validationDetail(c *gin.Context, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": msg})
}

func serverError(c *gin.Context, err error) {
	// Unexpected failures are logged but never leak internals to the client.
	log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}

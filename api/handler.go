package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"promptlab/config"
	"promptlab/evaluator"
	"promptlab/llm"
)

// Handler holds the API handlers.
type Handler struct {
	eval    *evaluator.Evaluator
	session *evaluator.Session
	cfg     *config.Config
}

// NewHandler creates the handler set.
func NewHandler(eval *evaluator.Evaluator, session *evaluator.Session, cfg *config.Config) *Handler {
	return &Handler{eval: eval, session: session, cfg: cfg}
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

// Evaluate scores a prompt and stores the result as the session's
// current evaluation. A failed evaluation leaves the previous one in
// place.
func (h *Handler) Evaluate(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Please write a prompt before evaluating it.",
		})
		return
	}

	ev, err := h.eval.Evaluate(c.Request.Context(), req.Prompt)
	if err != nil {
		h.respondError(c, "evaluating the prompt", err)
		return
	}

	h.session.SetEvaluation(ev)
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": ev,
	})
}

// Compare answers the current evaluation's original and improved
// prompts. It refuses, without calling the model, when there is no
// evaluation or no improved prompt.
func (h *Handler) Compare(c *gin.Context) {
	ev := h.session.Evaluation()
	if ev == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Evaluate a prompt first, then compare the answers.",
		})
		return
	}
	if !ev.HasImprovedPrompt() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "The evaluation produced no improved prompt to compare against.",
		})
		return
	}

	cmp, err := h.eval.Compare(c.Request.Context(), ev)
	if err != nil {
		h.respondError(c, "generating the answers", err)
		return
	}

	if err := h.session.SetComparison(cmp); err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": "The evaluation changed while generating the answers. Compare again.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": cmp,
	})
}

// Answer answers a prompt directly, outside the session.
func (h *Handler) Answer(c *gin.Context) {
	var req promptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
		})
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Please write a prompt before requesting an answer.",
		})
		return
	}

	answer, err := h.eval.Answer(c.Request.Context(), req.Prompt)
	if err != nil {
		h.respondError(c, "generating the answer", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{"answer": answer},
	})
}

// GetSession returns the current evaluation and comparison.
func (h *Handler) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": h.session.State(),
	})
}

// GetStatus returns the service configuration and session flags.
func (h *Handler) GetStatus(c *gin.Context) {
	state := h.session.State()

	c.JSON(http.StatusOK, gin.H{
		"code": 0,
		"data": gin.H{
			"base_url":        h.cfg.BaseURL,
			"model":           h.cfg.Model,
			"timeout_seconds": int(h.cfg.Timeout.Seconds()),
			"has_evaluation":  state.Evaluation != nil,
			"has_comparison":  state.Comparison != nil,
		},
	})
}

// respondError maps model call failures to HTTP answers. Timeouts get
// their own status and wording.
func (h *Handler) respondError(c *gin.Context, action string, err error) {
	if llm.IsTimeout(err) {
		c.JSON(http.StatusGatewayTimeout, gin.H{
			"error": "The model took too long to respond. You can try again or use a shorter prompt.",
		})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{
		"error": fmt.Sprintf("An error occurred while %s: %v", action, err),
	})
}

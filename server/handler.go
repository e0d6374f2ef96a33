package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
)

const indexNotFoundBody = "<html><body><h1>Error: index.html not found in the 'templates' directory.</h1></body></html>"

type handler struct {
	runner       ChatRunner
	templatesDir string
}

func (h *handler) registerRoutes(e *echo.Echo) {
	e.GET("/", h.index)
	e.Static("/static", filepath.Join(h.templatesDir, "static"))
	e.POST("/chat", h.chat)
}

func (h *handler) index(c echo.Context) error {
	path := filepath.Join(h.templatesDir, "index.html")
	if err := c.File(path); err != nil {
		return c.HTML(http.StatusNotFound, indexNotFoundBody)
	}
	return nil
}

type chatRequest struct {
	Message string `json:"message"`
}

// chatResponse mirrors the web UI contract: response may be a plain string or
// decoded JSON when the agent's final text happens to be valid JSON.
type chatResponse struct {
	Response  any               `json:"response"`
	AgentName string            `json:"agent_name,omitempty"`
	Events    []contractx.Event `json:"events"`
}

func (h *handler) chat(c echo.Context) error {
	if h.runner == nil {
		const msg = "Agent system is not fully initialized."
		return c.JSON(http.StatusInternalServerError, chatResponse{
			Response: msg,
			Events:   []contractx.Event{contractx.NewErrorEvent(msg, http.StatusInternalServerError)},
		})
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		msg := "Error processing message input: " + err.Error()
		return c.JSON(http.StatusInternalServerError, chatResponse{
			Response: msg,
			Events:   []contractx.Event{contractx.NewErrorEvent(msg, http.StatusInternalServerError)},
		})
	}

	userMessage := strings.TrimSpace(req.Message)
	if userMessage == "" {
		const msg = "Please provide a message."
		return c.JSON(http.StatusBadRequest, chatResponse{
			Response: msg,
			Events:   []contractx.Event{contractx.NewErrorEvent(msg, http.StatusBadRequest)},
		})
	}

	out, err := h.runner.HandleMessage(c.Request().Context(), userMessage)
	if err != nil {
		log.Error().Err(err).Msg("chat turn failed")
		return c.JSON(http.StatusInternalServerError, chatResponse{
			Response:  "No final response received.",
			AgentName: string(contractx.AgentOrchestrator),
			Events: []contractx.Event{
				contractx.NewErrorEvent(turnErrorMessage(err), http.StatusInternalServerError),
			},
		})
	}

	return c.JSON(http.StatusOK, chatResponse{
		Response:  decodeIfJSON(out.Response),
		AgentName: string(out.AgentName),
		Events:    out.Events,
	})
}

// turnErrorMessage hides internals but calls out the one failure users can
// fix themselves: missing model credentials.
func turnErrorMessage(err error) string {
	lower := strings.ToLower(err.Error())
	if errors.Is(err, contractx.ErrModelInvoke) &&
		(strings.Contains(lower, "api key") || strings.Contains(lower, "api_key") || strings.Contains(lower, "unauthorized")) {
		return "Error: The AI model could not be accessed. Please ensure your OpenRouter API key is correctly set in the environment variable OPENROUTER_API_KEY."
	}
	return "An internal server error occurred: " + err.Error() + ". Check server logs for details."
}

// decodeIfJSON returns the decoded value when the reply is itself valid JSON,
// otherwise the raw string.
func decodeIfJSON(reply string) any {
	trimmed := strings.TrimSpace(reply)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return reply
	}
	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return reply
	}
	return decoded
}

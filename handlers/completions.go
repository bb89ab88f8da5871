package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"askchart/ai"

	"github.com/gin-gonic/gin"
)

const stubModel = "keyword-matcher"

// ChatCompletionsHandler is an OpenAI-compatible completion endpoint backed
// by the keyword matcher, so the HTTP oracle can run without a real model
// @Summary      Keyword chat completion
// @Description  Answer a chat-completions request with the keyword matcher. The table is taken from the system message.
// @Tags         Oracle
// @Accept       json
// @Produce      json
// @Param        request  body      ai.ChatCompletionRequest  true  "Chat completion request"
// @Success      200      {object}  map[string]interface{}
// @Failure      400      {object}  map[string]string  "Invalid request"
// @Router       /v1/chat/completions [post]
func (h *Handlers) ChatCompletionsHandler(c *gin.Context) {
	var req ai.ChatCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var system, user string
	for _, msg := range req.Messages {
		switch msg.Role {
		case "system":
			system = msg.Content
		case "user":
			user = msg.Content
		}
	}

	content, err := json.Marshal(ai.Match(user, ai.TableFromPrompt(system)))
	if err != nil {
		h.respondError(c, err)
		return
	}

	model := req.Model
	if model == "" {
		model = stubModel
	}
	now := time.Now()

	c.JSON(http.StatusOK, gin.H{
		"id":      fmt.Sprintf("chatcmpl-%d", now.UnixNano()),
		"object":  "chat.completion",
		"created": now.Unix(),
		"model":   model,
		"choices": []gin.H{{
			"index":         0,
			"message":       ai.ChatMessage{Role: "assistant", Content: string(content)},
			"finish_reason": "stop",
		}},
	})
}

// ModelsHandler lists the single stub model
// @Summary      List models
// @Tags         Oracle
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /v1/models [get]
func (h *Handlers) ModelsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data": []gin.H{{
			"id":       stubModel,
			"object":   "model",
			"owned_by": "askchart",
		}},
	})
}

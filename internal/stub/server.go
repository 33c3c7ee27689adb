package stub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Config defines the stub server behaviour.
type Config struct {
	// APIKey, when set, must accompany Gemini and OpenAI requests.
	APIKey string
	// ViceTermsPath overrides the built-in term list.
	ViceTermsPath string
	// Garble lists domains whose verdicts come back as unparseable text.
	Garble []string
	// FenceJSON wraps judge replies in a markdown code fence.
	FenceJSON bool
	// AllowedOrigins limits browser access; empty allows any origin.
	AllowedOrigins []string
}

// Server answers the Ollama, Gemini and OpenAI request shapes with
// deterministic content so the pipeline can run without real models.
type Server struct {
	vice      *ViceScorer
	apiKey    string
	garble    map[string]struct{}
	fenceJSON bool
	origins   []string
	requests  atomic.Int64
}

// NewServer constructs the stub.
func NewServer(cfg Config) (*Server, error) {
	vice := DefaultViceScorer()
	if strings.TrimSpace(cfg.ViceTermsPath) != "" {
		loaded, err := NewViceScorer(cfg.ViceTermsPath)
		if err != nil {
			return nil, err
		}
		vice = loaded
	}
	garble := make(map[string]struct{}, len(cfg.Garble))
	for _, d := range cfg.Garble {
		garble[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	return &Server{
		vice:      vice,
		apiKey:    strings.TrimSpace(cfg.APIKey),
		garble:    garble,
		fenceJSON: cfg.FenceJSON,
		origins:   cfg.AllowedOrigins,
	}, nil
}

// Requests reports how many model calls the stub has answered.
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(s.origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.origins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/healthz", s.handleHealth)
	r.POST("/api/generate", s.handleOllamaGenerate)

	gemini := r.Group("/v1beta")
	{
		gemini.POST("/models/:call", s.handleGeminiGenerate)
	}
	openai := r.Group("/v1")
	{
		openai.POST("/chat/completions", s.handleChatCompletion)
	}
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "requests": s.Requests()})
}

type ollamaRequest struct {
	Model  string `json:"model" binding:"required"`
	Prompt string `json:"prompt" binding:"required"`
	Stream bool   `json:"stream"`
}

func (s *Server) handleOllamaGenerate(c *gin.Context) {
	var req ollamaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	s.requests.Add(1)

	description := descriptionFromPrompt(req.Prompt)
	names := SuggestNames(description)
	logrus.WithFields(logrus.Fields{
		"model":       req.Model,
		"description": description,
	}).Debug("stub generate")

	c.JSON(http.StatusOK, gin.H{
		"model":      req.Model,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		"response":   formatSuggestions(req.Model, names),
		"done":       true,
	})
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	SystemInstruction *struct {
		Parts []geminiPart `json:"parts"`
	} `json:"systemInstruction"`
	GenerationConfig struct {
		ResponseMimeType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

func (s *Server) handleGeminiGenerate(c *gin.Context) {
	call := c.Param("call")
	model, method, ok := strings.Cut(call, ":")
	if !ok || method != "generateContent" {
		s.renderError(c, http.StatusNotFound, fmt.Errorf("unsupported method %q", call))
		return
	}
	if s.apiKey != "" && c.Query("key") != s.apiKey {
		s.renderGeminiError(c, http.StatusForbidden, "API key not valid")
		return
	}

	var req geminiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderGeminiError(c, http.StatusBadRequest, err.Error())
		return
	}
	var prompt strings.Builder
	for _, content := range req.Contents {
		for _, part := range content.Parts {
			prompt.WriteString(part.Text)
		}
	}
	s.requests.Add(1)

	text := s.answer(prompt.String())
	logrus.WithField("model", model).Debug("stub gemini")
	c.JSON(http.StatusOK, gin.H{
		"candidates": []gin.H{{
			"content": gin.H{
				"role":  "model",
				"parts": []gin.H{{"text": text}},
			},
			"finishReason": "STOP",
		}},
		"modelVersion": model,
	})
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func (s *Server) handleChatCompletion(c *gin.Context) {
	if s.apiKey != "" && c.GetHeader("Authorization") != "Bearer "+s.apiKey {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{
			"message": "Incorrect API key provided",
			"type":    "invalid_request_error",
		}})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}
	var prompt string
	for _, msg := range req.Messages {
		if msg.Role == "user" {
			prompt = msg.Content
		}
	}
	s.requests.Add(1)

	text := s.answer(prompt)
	c.JSON(http.StatusOK, gin.H{
		"id":      "chatcmpl-" + uuid.NewString(),
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   req.Model,
		"choices": []gin.H{{
			"index":         0,
			"message":       gin.H{"role": "assistant", "content": text},
			"finish_reason": "stop",
		}},
		"usage": gin.H{"prompt_tokens": 0, "completion_tokens": 0, "total_tokens": 0},
	})
}

var seedPattern = regexp.MustCompile(`Generate a dataset of (\d+) business descriptions`)

const maxSeedRecords = 500

// answer produces the hosted-model reply for either a judge or a seed prompt.
func (s *Server) answer(prompt string) string {
	if m := seedPattern.FindStringSubmatch(prompt); m != nil {
		count, _ := strconv.Atoi(m[1])
		if count > maxSeedRecords {
			count = maxSeedRecords
		}
		body, _ := json.MarshalIndent(SeedDataset(count), "", "  ")
		return "```json\n" + string(body) + "\n```"
	}

	description, domain := judgeFields(prompt)
	if _, garbled := s.garble[strings.ToLower(domain)]; garbled {
		return "I think " + domain + " is a lovely name!"
	}
	body, _ := json.Marshal(s.Judge(description, domain))
	if s.fenceJSON {
		return "```json\n" + string(body) + "\n```"
	}
	return string(body)
}

func descriptionFromPrompt(prompt string) string {
	_, rest, ok := strings.Cut(prompt, `described as: "`)
	if !ok {
		return strings.TrimSpace(prompt)
	}
	if i := strings.Index(rest, `".`); i >= 0 {
		return rest[:i]
	}
	return rest
}

func judgeFields(prompt string) (description, domain string) {
	for _, line := range strings.Split(prompt, "\n") {
		if v, ok := strings.CutPrefix(line, "Business Description: "); ok {
			description = strings.TrimSpace(v)
		}
		if v, ok := strings.CutPrefix(line, "Domain Name: "); ok {
			domain = strings.TrimSpace(v)
		}
	}
	return description, domain
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) renderGeminiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": status, "message": message}})
}

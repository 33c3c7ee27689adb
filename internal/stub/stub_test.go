package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return s
}

func post(t *testing.T, h http.Handler, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestViceScoring(t *testing.T) {
	scorer := DefaultViceScorer()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"illegal", "terror-camp.com", 5},
		{"explicit", "adult dating site with explicit content", 4},
		{"regulated", "cannabis-infused fitness drinks", 3},
		{"low", "speed-dating.net", 1},
		{"clean", "flowers.store", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := scorer.Score(tc.text)
			if result.Severity != tc.expected {
				t.Fatalf("expected %d got %d", tc.expected, result.Severity)
			}
		})
	}
}

func TestViceSafety(t *testing.T) {
	assert.Equal(t, 1.0, ViceResult{}.Safety())
	assert.Equal(t, 0.0, ViceResult{Severity: 5}.Safety())
	assert.InDelta(t, 0.8, ViceResult{Severity: 1}.Safety(), 1e-9)
}

func TestNewViceScorerFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vice.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"2": ["Lottery"]}`), 0o644))

	scorer, err := NewViceScorer(path)
	require.NoError(t, err)
	assert.Equal(t, 2, scorer.Score("daily-lottery.com").Severity)

	require.NoError(t, os.WriteFile(path, []byte(`{"9": ["x"]}`), 0o644))
	_, err = NewViceScorer(path)
	assert.Error(t, err)
}

func TestSuggestNamesDeterministic(t *testing.T) {
	a := SuggestNames("organic coffee shop in downtown area")
	b := SuggestNames("organic coffee shop in downtown area")
	assert.Equal(t, a, b)
	require.Len(t, a, 3)
	assert.Equal(t, "organiccoffee.com", a[0])
	for _, name := range a {
		assert.Regexp(t, `^[a-z0-9]+\.(com|net|org)$`, name)
	}

	arabic := SuggestNames("أدوات مطبخ ذكية")
	require.Len(t, arabic, 3)
	for _, name := range arabic {
		assert.Regexp(t, `^[a-z0-9]+\.(com|net|org)$`, name)
	}
}

func TestOllamaGenerate(t *testing.T) {
	router := newTestServer(t, Config{}).Router()
	prompt := "Suggest 3 brandable domain names for a business described as: \"organic coffee shop\".\nReturn only the domain names."

	rec := post(t, router, "/api/generate", gin.H{"model": "llama3.2:latest", "prompt": prompt, "stream": false}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Done)
	assert.Len(t, strings.Split(body.Response, "\n"), 3)

	rec = post(t, router, "/api/generate", gin.H{"model": "llama3.2-finetuned:latest", "prompt": prompt}, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, strings.Split(body.Response, ", "), 3)

	rec = post(t, router, "/api/generate", gin.H{"prompt": prompt}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeminiGenerateContent(t *testing.T) {
	s := newTestServer(t, Config{APIKey: "secret"})
	router := s.Router()
	payload := gin.H{
		"contents": []gin.H{{"role": "user", "parts": []gin.H{{"text": "Business Description: organic coffee shop\nDomain Name: organiccoffee.com\nEvaluate and return JSON.\n"}}}},
		"generationConfig": gin.H{"responseMimeType": "application/json"},
	}

	rec := post(t, router, "/v1beta/models/gemini-2.5-flash-lite:generateContent?key=wrong", payload, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = post(t, router, "/v1beta/models/gemini-2.5-flash-lite:generateContent?key=secret", payload, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Candidates, 1)

	var verdict Verdict
	require.NoError(t, json.Unmarshal([]byte(body.Candidates[0].Content.Parts[0].Text), &verdict))
	assert.Equal(t, 1.0, verdict.Relevance)
	assert.Equal(t, 1.0, verdict.Safety)
	assert.True(t, verdict.HasValidTLD)
	assert.Equal(t, int64(1), s.Requests())
}

func TestChatCompletion(t *testing.T) {
	router := newTestServer(t, Config{APIKey: "secret", Garble: []string{"bad.com"}}).Router()
	payload := gin.H{
		"model": "gpt-4o-mini",
		"messages": []gin.H{
			{"role": "system", "content": "judge"},
			{"role": "user", "content": "Business Description: x\nDomain Name: bad.com\n"},
		},
	}

	rec := post(t, router, "/v1/chat/completions", payload, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(t, router, "/v1/chat/completions", payload, map[string]string{"Authorization": "Bearer secret"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Choices, 1)
	assert.False(t, json.Valid([]byte(body.Choices[0].Message.Content)))
}

func TestSeedAnswerIsFenced(t *testing.T) {
	s := newTestServer(t, Config{})
	text := s.answer("Generate a dataset of 4 business descriptions. For each description...")
	require.True(t, strings.HasPrefix(text, "```json\n"))
	require.True(t, strings.HasSuffix(text, "\n```"))

	inner := strings.TrimSuffix(strings.TrimPrefix(text, "```json\n"), "\n```")
	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(inner), &records))
	assert.Len(t, records, 4)
}

func TestJudgeHeuristics(t *testing.T) {
	s := newTestServer(t, Config{})

	clean := s.Judge("organic coffee shop", "organiccoffee.com")
	assert.Equal(t, 1.0, clean.Relevance)
	assert.Equal(t, 1.0, clean.Safety)

	unsafe := s.Judge("adult dating site with explicit content", "explicitdates.xyz")
	assert.Less(t, unsafe.Safety, 1.0)
	assert.False(t, unsafe.HasValidTLD)
	assert.Contains(t, unsafe.Comment, "explicit")

	long := s.Judge("organic coffee shop", "the-organic-coffee-shop-downtown-2024.com")
	assert.Less(t, long.Brandability, 0.5)
}

func TestHealth(t *testing.T) {
	router := newTestServer(t, Config{}).Router()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestCORS(t *testing.T) {
	router := newTestServer(t, Config{AllowedOrigins: []string{"http://localhost:3000"}}).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// Package chatbot talks to the Cohere chat API for assistant replies and
// quiz generation, with a local FAQ fallback when the upstream is down or
// unconfigured.
package chatbot

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"edutrek/config"
	"edutrek/logger"
	course "edutrek/models/course"
	"edutrek/utils"

	"github.com/go-resty/resty/v2"
)

var faqResponses = map[string]string{
	"how to enroll": "To enroll in a course, open the course page and press the \"Enroll\" button. You can browse courses on the homepage.",
	"payment":       "We accept Stripe, Razorpay, and PayPal. Select your preferred payment method during checkout.",
	"certificate":   "Certificates are issued automatically when you complete a course and pass its assessment. You can download them from your dashboard.",
	"progress":      "Track your progress in the \"My Courses\" section of your dashboard. Each module shows completion status.",
	"contact":       "For support, email us at support@edutrek.io or use this chat.",
	"help":          "I can help you with enrollment, payments, certificates, progress tracking, and general questions. What would you like to know?",
}

const defaultReply = "I'm here to help! Ask me about enrollment, payments, certificates, or course progress."

// Service is the chatbot client. A zero API key disables the upstream and
// every reply comes from the FAQ table.
type Service struct {
	client *resty.Client
	apiKey string
	apiURL string
	model  string
}

func NewService() *Service {
	return &Service{
		client: resty.New().SetTimeout(15 * time.Second),
		apiKey: config.AppConfig.CohereApiKey,
		apiURL: config.AppConfig.CohereApiUrl,
		model:  config.AppConfig.CohereModel,
	}
}

// Reply answers a chat message. Upstream failures degrade to the FAQ
// fallback; the request itself never fails.
func (s *Service) Reply(message string) (reply string, fromModel bool) {
	if s.apiKey != "" {
		text, err := s.chat(message)
		if err == nil && text != "" {
			return text, true
		}
		logger.Warn("cohere chat failed, falling back to FAQ", "error", err)
	}

	lower := strings.ToLower(message)
	for keyword, canned := range faqResponses {
		if strings.Contains(lower, keyword) {
			return canned, false
		}
	}
	return defaultReply, false
}

func (s *Service) chat(message string) (string, error) {
	var out struct {
		Text string `json:"text"`
	}

	resp, err := s.client.R().
		SetHeader("Authorization", "Bearer "+s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"model":       s.model,
			"message":     message,
			"temperature": 0.3,
		}).
		SetResult(&out).
		Post(s.apiURL)
	if err != nil {
		return "", utils.NewUpstreamError("cohere request failed", err)
	}
	if resp.StatusCode() != 200 {
		return "", utils.NewUpstreamError(fmt.Sprintf("cohere returned %d", resp.StatusCode()), nil)
	}
	return out.Text, nil
}

// GenerateQuiz asks the model for a question set on a topic. The answer
// indices stay server-side; callers must strip them before sending
// questions to a client.
func (s *Service) GenerateQuiz(topic, difficulty string, count int) ([]course.Question, error) {
	if s.apiKey == "" {
		return nil, utils.NewUpstreamError("quiz generation unavailable: no model configured", nil)
	}
	if count <= 0 {
		count = 5
	}

	prompt := fmt.Sprintf(
		"Generate %d multiple-choice questions about %q at %s difficulty. "+
			"Respond with a JSON array only; each element has keys "+
			"\"question\", \"options\" (4 strings), \"answerIndex\" (0-3) and \"explanation\".",
		count, topic, difficulty,
	)

	text, err := s.chat(prompt)
	if err != nil {
		return nil, err
	}

	// Models occasionally wrap the JSON in a code fence.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var questions []course.Question
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &questions); err != nil {
		return nil, utils.NewUpstreamError("cohere returned malformed quiz payload", err)
	}

	valid := questions[:0]
	for _, q := range questions {
		if q.Prompt == "" || len(q.Options) < 2 || q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
			continue
		}
		if q.Difficulty == "" {
			q.Difficulty = difficulty
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return nil, utils.NewUpstreamError("cohere returned no usable questions", nil)
	}
	return valid, nil
}

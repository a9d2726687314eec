package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/careconnect/careconnect-api/pkg/logging"
)

const defaultRequestTimeout = 30 * time.Second

// NutritionRequest is the input for a personalized nutrition plan.
// The Disease field is capitalized on the wire for client compatibility.
type NutritionRequest struct {
	Age     int     `json:"age"`
	Height  float64 `json:"height"`
	Weight  float64 `json:"weight"`
	Gender  string  `json:"gender"`
	Disease string  `json:"Disease"`
}

// Service implements the health assistant: general chat, nutrition plans
// and video recommendations, all backed by an LLM.
type Service struct {
	llm     LLMClient
	videos  VideoFinder
	timeout time.Duration
	logger  *logging.Logger
}

// NewService creates an assistant service. videos may be nil when video
// recommendations are disabled.
func NewService(llm LLMClient, videos VideoFinder, timeout time.Duration, logger *logging.Logger) *Service {
	if llm == nil {
		panic("assistant: llm client required")
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{llm: llm, videos: videos, timeout: timeout, logger: logger}
}

// Chat forwards a free-form health question to the LLM.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.llm.Complete(ctx, message)
	if err != nil {
		s.logger.Error("assistant chat failed", "error", err)
		return "", err
	}
	return reply, nil
}

// NutritionPlan generates a daily meal plan for the given profile. The raw
// LLM output is cleaned so clients can render it as plain text.
func (s *Service) NutritionPlan(ctx context.Context, req NutritionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	condition := "with no specific health conditions"
	disease := strings.TrimSpace(req.Disease)
	if disease != "" && !strings.EqualFold(disease, "none") {
		condition = fmt.Sprintf("suffering from %s", disease)
	}

	prompt := fmt.Sprintf(`Generate a structured daily nutrition plan for a %d-year-old %s, %.0f cm tall, %.0f kg weight and %s.
Provide only meal names with clear descriptions and portion sizes. Do not include asterisks, bullet points, disclaimers, or additional text.`,
		req.Age, req.Gender, req.Height, req.Weight, condition)

	plan, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("assistant nutrition plan failed", "error", err)
		return "", err
	}
	return cleanPlan(plan), nil
}

// RecommendVideos asks the LLM for search keywords, then finds matching
// videos on YouTube.
func (s *Service) RecommendVideos(ctx context.Context, topic string) ([]Video, error) {
	if s.videos == nil {
		return nil, ErrNoVideos
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf("Generate specific search keywords for finding helpful medical/health videos about: %s. Return only the keywords separated by spaces, no other text.", topic)
	keywords, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		s.logger.Error("assistant keyword generation failed", "error", err)
		return nil, err
	}
	s.logger.Debug("video search keywords generated", "topic", topic, "keywords", keywords)

	videos, err := s.videos.Search(ctx, keywords)
	if err != nil {
		s.logger.Error("assistant video search failed", "error", err, "keywords", keywords)
		return nil, err
	}
	return videos, nil
}

var (
	bulletChars     = regexp.MustCompile(`[*•-]`)
	blankLines      = regexp.MustCompile(`\n\s*\n`)
	trailingNotices = regexp.MustCompile(`(?im)\b(Note|Disclaimer|Important):.*$`)
)

// cleanPlan strips markdown bullets, collapses blank lines and drops
// disclaimer lines the model tends to append despite the prompt.
func cleanPlan(plan string) string {
	plan = bulletChars.ReplaceAllString(plan, "")
	plan = blankLines.ReplaceAllString(plan, "\n")
	plan = trailingNotices.ReplaceAllString(plan, "")
	return strings.TrimSpace(plan)
}

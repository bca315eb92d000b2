// Package generator suggests a product name and description from a photo.
package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/decohome/internal/metrics"
	"github.com/fjod/decohome/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ErrExternalService covers every generation failure: missing credentials,
// transport errors, an open breaker and malformed responses.
var ErrExternalService = errors.New("could not generate details with AI, please try again")

var errMissingFields = errors.New("response misses name or description")

type Details struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Generator is a single call to an inference API.
type Generator interface {
	Generate(ctx context.Context, image []byte, mimeType string) (Details, error)
}

// Unconfigured is used when no API key is set.
type Unconfigured struct{}

func (Unconfigured) Generate(context.Context, []byte, string) (Details, error) {
	return Details{}, errors.New("API key not set")
}

// ParseDetails decodes a JSON model response and requires both fields.
func ParseDetails(text string) (Details, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSuffix(strings.TrimSpace(strings.TrimPrefix(text, "```")), "```")

	var d Details
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &d); err != nil {
		return Details{}, fmt.Errorf("invalid AI response: %w", err)
	}
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
	if d.Name == "" || d.Description == "" {
		return Details{}, errMissingFields
	}
	return d, nil
}

// Service guards a Generator with a circuit breaker, a timeout and
// de-duplication of identical in-flight requests.
type Service struct {
	gen     Generator
	breaker *circuitbreaker.Breaker[Details]
	sfg     singleflight.Group
	timeout time.Duration
	logger  *zap.Logger
}

func NewService(gen Generator, timeout time.Duration, logger *zap.Logger) *Service {
	cfg := circuitbreaker.DefaultConfig("ai-generator")
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		logger.Warn("circuit breaker state changed",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
	}
	return &Service{
		gen:     gen,
		breaker: circuitbreaker.New[Details](cfg),
		timeout: timeout,
		logger:  logger,
	}
}

// Generate returns suggested details for image. Any failure is reported
// as ErrExternalService.
func (s *Service) Generate(ctx context.Context, image []byte, mimeType string) (Details, error) {
	if len(image) == 0 {
		return Details{}, fmt.Errorf("%w: no image provided", ErrExternalService)
	}

	v, err, _ := s.sfg.Do(requestKey(image, mimeType), func() (interface{}, error) {
		return s.breaker.Execute(func() (Details, error) {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
			defer cancel()

			d, err := s.gen.Generate(ctx, image, mimeType)
			if err != nil {
				return Details{}, err
			}
			if d.Name == "" || d.Description == "" {
				return Details{}, errMissingFields
			}
			return d, nil
		})
	})
	if err != nil {
		outcome := "error"
		if circuitbreaker.IsOpen(err) {
			outcome = "rejected"
		}
		metrics.Generations.WithLabelValues(outcome).Inc()
		s.logger.Error("generate product details", zap.Error(err))
		return Details{}, fmt.Errorf("%w: %v", ErrExternalService, err)
	}

	metrics.Generations.WithLabelValues("success").Inc()
	return v.(Details), nil
}

func requestKey(image []byte, mimeType string) string {
	sum := sha256.Sum256(image)
	return mimeType + ":" + hex.EncodeToString(sum[:])
}

package describe

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/ukydev/luxedrive/internal/models"
)

const (
	AssistantUnavailable = "Our AI concierge is currently unavailable. Please contact support."
	AssistantNoAnswer    = "I'm sorry, I couldn't process that right now."
)

// TextGenerator turns a prompt into generated text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Service wraps a TextGenerator with a circuit breaker and static fallbacks.
// Its methods never return an error.
type Service struct {
	gen     TextGenerator
	breaker *gobreaker.CircuitBreaker
	log     log.FieldLogger
}

// NewService creates a service. gen may be nil, in which case every call
// falls back.
func NewService(gen TextGenerator, logger log.FieldLogger) *Service {
	if logger == nil {
		logger = log.StandardLogger()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(log.Fields{"breaker": name, "from": from.String(), "to": to.String()}).Warn("Circuit breaker state changed")
		},
	})

	return &Service{gen: gen, breaker: breaker, log: logger}
}

// CarPrompt builds the advertisement prompt for car.
func CarPrompt(car models.Car) string {
	return fmt.Sprintf("Write a compelling 3-sentence rental advertisement for a %d %s %s. "+
		"Highlight its %s engine and %s transmission. Make it sound luxury and premium.",
		car.Year, car.Brand, car.Model, car.FuelType, car.Transmission)
}

// AssistantPrompt wraps a customer question for the concierge.
func AssistantPrompt(query string) string {
	return "You are a helpful car rental assistant for LuxeDrive. Answer this user query professionally: " + query
}

// CarDescription returns generated promotional text for car, or the car's
// stored description unmodified when generation fails for any reason.
func (s *Service) CarDescription(ctx context.Context, car models.Car) string {
	text, err := s.generate(ctx, CarPrompt(car))
	if err != nil {
		s.log.WithError(err).WithField("car_id", car.ID).Debug("Falling back to stored car description")
		return car.Description
	}
	return text
}

// AssistantReply answers a concierge question.
func (s *Service) AssistantReply(ctx context.Context, query string) string {
	text, err := s.generate(ctx, AssistantPrompt(query))
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return AssistantNoAnswer
	case err != nil:
		s.log.WithError(err).Debug("Assistant unavailable")
		return AssistantUnavailable
	}
	return text
}

var errNoGenerator = errors.New("text generator not configured")

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	if s.gen == nil {
		return "", errNoGenerator
	}

	out, err := s.breaker.Execute(func() (interface{}, error) {
		text, err := s.gen.Generate(ctx, prompt)
		if err == nil && text == "" {
			err = ErrEmptyResponse
		}
		return text, err
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

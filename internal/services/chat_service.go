// Package services wires the pipeline stages: classify, translate, execute,
// select chart, compose. One independent request-response unit per call; the
// only shared state is the immutable registry and the pooled connections.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quantdesk/tradechat-go/internal/cache"
	"github.com/quantdesk/tradechat-go/internal/chart"
	"github.com/quantdesk/tradechat-go/internal/composer"
	"github.com/quantdesk/tradechat-go/internal/executor"
	"github.com/quantdesk/tradechat-go/internal/intent"
	"github.com/quantdesk/tradechat-go/internal/models"
	"github.com/quantdesk/tradechat-go/internal/translator"
)

// User-safe error texts. Internal detail stays in the logs.
const (
	msgModelUnavailable = "The language model is currently unavailable. Please try again in a moment."
	msgUnsafeQuery      = "I generated a query that failed safety validation, so it was not executed. Try rephrasing your question."
	msgQueryTimeout     = "The query took too long and was cancelled. Try narrowing the time range."
	msgStoreError       = "The trading database reported an error while running your query."
	msgInternal         = "Something went wrong while preparing the answer. Please try again."
)

// ChatService runs one question through the full pipeline.
type ChatService struct {
	translator *translator.Translator
	executor   *executor.Executor
	selector   *chart.Selector
	summarizer *composer.Summarizer
	cache      *cache.TranslationCache
	log        *logrus.Entry
}

// NewChatService builds the pipeline. cache may be nil when Redis is not
// configured.
func NewChatService(tr *translator.Translator, ex *executor.Executor, sel *chart.Selector, sum *composer.Summarizer, tc *cache.TranslationCache) *ChatService {
	return &ChatService{
		translator: tr,
		executor:   ex,
		selector:   sel,
		summarizer: sum,
		cache:      tc,
		log:        logrus.WithField("component", "chat_service"),
	}
}

// Ask answers one free-text question. Every handled outcome, including
// failures, comes back as a well-formed payload; errors are data.
func (s *ChatService) Ask(ctx context.Context, message string) models.ChatResponse {
	requestID := uuid.NewString()
	log := s.log.WithField("request_id", requestID)

	in := intent.Classify(message)
	log.WithFields(logrus.Fields{
		"wants_chart":  in.WantsChart,
		"wants_export": in.WantsExport,
		"time_window":  string(in.Window),
	}).Debug("Classified intent")

	translated, err := s.translate(ctx, message, in)
	if err != nil {
		return s.failure(log, nil, err)
	}

	result, err := s.executor.Execute(ctx, translated)
	if err != nil {
		return s.failure(log, translated, err)
	}

	directive := s.selector.Select(in, result)
	text := s.summarizer.Summarize(ctx, message, translated.SQL, result)

	resp, err := composer.Compose(text, translated, result, directive, "")
	if err != nil {
		// Contract violation between selector and result. Fatal to the
		// request; the client still gets a well-formed payload.
		log.WithError(err).Error("Response composition failed")
		resp, _ = composer.Compose(msgInternal, translated, nil, chart.Directive{}, msgInternal)
		return resp
	}

	log.WithFields(logrus.Fields{
		"table":     translated.TargetTable,
		"rows":      len(result.Rows),
		"visualize": resp.ChartConfig.Visualize,
	}).Info("Question answered")

	return resp
}

// translate consults the cache before paying for a model round-trip. Only
// validated statements are ever cached.
func (s *ChatService) translate(ctx context.Context, message string, in intent.Intent) (*models.TranslatedQuery, error) {
	if cached, ok := s.cache.Get(ctx, message); ok {
		return cached, nil
	}

	translated, err := s.translator.Translate(ctx, message, in)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, message, translated)
	return translated, nil
}

// failure maps a pipeline error onto a user-safe payload. Ambiguous intent
// is not an error to the user: the model's clarification is the answer.
func (s *ChatService) failure(log *logrus.Entry, translated *models.TranslatedQuery, err error) models.ChatResponse {
	var ambiguous *models.AmbiguousIntentError
	if errors.As(err, &ambiguous) {
		log.Info("Model asked for clarification")
		resp, _ := composer.Compose(ambiguous.Message, nil, nil, chart.Directive{ShowExport: false}, "")
		return resp
	}

	var unsafe *models.UnsafeQueryError
	var store *models.StoreError

	var msg string
	switch {
	case errors.Is(err, models.ErrModelUnavailable):
		msg = msgModelUnavailable
	case errors.As(err, &unsafe):
		msg = msgUnsafeQuery
	case errors.Is(err, models.ErrQueryTimeout):
		msg = msgQueryTimeout
	case errors.As(err, &store):
		msg = msgStoreError
	default:
		msg = msgInternal
	}

	log.WithError(err).Warn("Pipeline request failed")

	// The constructed query is still included for transparency when one
	// exists; chart and export are forced off by the composer.
	resp, _ := composer.Compose(msg, translated, nil, chart.Directive{}, msg)
	return resp
}

// Package translator turns a user question into a validated, safe-to-execute
// read-only query. The language model proposes; the validator disposes.
package translator

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantdesk/tradechat-go/internal/intent"
	"github.com/quantdesk/tradechat-go/internal/llm"
	"github.com/quantdesk/tradechat-go/internal/models"
	"github.com/quantdesk/tradechat-go/internal/schema"
)

const clarifyPrefix = "CLARIFY:"

// Translator asks the backend for a query and refuses to return anything
// that fails structural validation.
type Translator struct {
	client     llm.Client
	registry   *schema.Registry
	retryDelay time.Duration
	log        *logrus.Entry
}

// New builds a translator over the given backend and registry.
func New(client llm.Client, registry *schema.Registry) *Translator {
	return &Translator{
		client:     client,
		registry:   registry,
		retryDelay: 500 * time.Millisecond,
		log:        logrus.WithField("component", "translator"),
	}
}

// Translate produces a single validated statement for the question.
// Backend failures are retried once with a short backoff, then surfaced as
// ErrModelUnavailable. Validation failures are never retried.
func (t *Translator) Translate(ctx context.Context, raw string, in intent.Intent) (*models.TranslatedQuery, error) {
	system := systemPrompt(t.registry)
	user := userPrompt(raw, in)

	reply, err := t.complete(ctx, system, user)
	if err != nil {
		return nil, err
	}

	cleaned := extractStatement(stripFences(reply))

	if msg, ok := clarification(cleaned); ok {
		return nil, &models.AmbiguousIntentError{Message: msg}
	}

	if err := Validate(cleaned, t.registry); err != nil {
		t.log.WithError(err).Warn("Model output rejected by validation")
		return nil, &models.UnsafeQueryError{Reason: err.Error()}
	}

	target := targetTable(cleaned, t.registry)
	t.log.WithFields(logrus.Fields{
		"target_table": target,
		"sql_len":      len(cleaned),
	}).Debug("Translated question to SQL")

	return &models.TranslatedQuery{
		SQL:         cleaned,
		TargetTable: target,
		Rationale:   "generated from question and schema routing rules",
	}, nil
}

// complete calls the backend, retrying once on failure.
func (t *Translator) complete(ctx context.Context, system, user string) (string, error) {
	reply, err := t.client.Complete(ctx, system, user)
	if err == nil {
		return reply, nil
	}
	t.log.WithError(err).Warn("Model call failed, retrying once")

	select {
	case <-ctx.Done():
		return "", models.ErrModelUnavailable
	case <-time.After(t.retryDelay):
	}

	reply, err = t.client.Complete(ctx, system, user)
	if err != nil {
		t.log.WithError(err).Error("Model call failed after retry")
		return "", models.ErrModelUnavailable
	}
	return reply, nil
}

// clarification detects a model refusal of the form "CLARIFY: ...". The
// model's own raw reply may carry the prefix before fence stripping, so the
// check runs on cleaned text.
func clarification(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(strings.ToUpper(trimmed), clarifyPrefix) {
		msg := strings.TrimSpace(trimmed[len(clarifyPrefix):])
		if msg == "" {
			msg = "Could you rephrase your question?"
		}
		return msg, true
	}
	return "", false
}

var fenceRe = regexp.MustCompile("(?m)^```[a-zA-Z]*\\s*$")

// stripFences removes markdown code fences the model sometimes wraps its
// output in despite instructions.
func stripFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}

// extractStatement pulls the statement out of a reply that may carry leading
// prose: everything from the first SELECT/WITH/CLARIFY line to the first
// terminating semicolon.
func extractStatement(s string) string {
	lines := strings.Split(s, "\n")
	var parts []string
	collecting := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)
		if !collecting && (strings.HasPrefix(upper, "SELECT") ||
			strings.HasPrefix(upper, "WITH") ||
			strings.HasPrefix(upper, clarifyPrefix)) {
			collecting = true
		}
		if collecting {
			parts = append(parts, trimmed)
			if strings.HasSuffix(trimmed, ";") {
				break
			}
		}
	}

	if len(parts) == 0 {
		return strings.TrimSpace(s)
	}
	return strings.Join(parts, " ")
}

// targetTable returns the first registry table the statement reads from.
func targetTable(sqlText string, reg *schema.Registry) string {
	for _, ref := range referencedTables(sqlText) {
		if table, ok := reg.Lookup(ref); ok {
			return table.Name
		}
	}
	return ""
}

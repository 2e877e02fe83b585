package provider

import (
	"context"
	"errors"
	"fmt"

	"sublate/internal/control"
	"sublate/internal/logging"
)

// backend is the transport a variant supplies: one chat call, one text back.
// Transport failures are returned as-is; a response with no usable text is a
// *ParseError so the retry engine treats it like malformed output.
type backend interface {
	name() string
	model() string
	chat(ctx context.Context, system, user string) (string, error)
}

// client layers the shared retry, interruption, and extraction protocol on
// top of a backend. All Provider variants are a client around a different
// backend.
type client struct {
	backend backend
	retries int
	signals *control.Signals
	log     *logging.Logger
}

func (c *client) Name() string { return c.backend.name() }

func (c *client) Model() string { return c.backend.model() }

func (c *client) call(ctx context.Context, system, user string) (string, error) {
	return c.signals.Guard(ctx, func(ctx context.Context) (string, error) {
		return c.backend.chat(ctx, system, user)
	})
}

func (c *client) Translate(
	ctx context.Context,
	units []TranslationUnit,
	sourceLang, targetLang string,
	opts TranslateOptions,
) ([]TranslationUnit, error) {
	if len(units) == 0 {
		return []TranslationUnit{}, nil
	}

	system, user := buildPrompts(units, sourceLang, targetLang, opts)
	c.log.Debugw("built translation prompts",
		"provider", c.Name(),
		"units", len(units),
		"system_len", len(system),
		"user_len", len(user),
	)

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		raw, err := c.call(ctx, system, user)
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				lastErr = err
				c.logAttempt("translate", attempt, err, parseErr.Preview)
				continue
			}
			// control and transport failures are never retried here
			return nil, err
		}

		result, err := ExtractUnits(raw)
		if err != nil {
			lastErr = err
			c.logAttempt("translate", attempt, err, truncate(raw, previewLen))
			continue
		}

		if len(result) != len(units) {
			c.log.Warnw("translated unit count does not match request",
				"provider", c.Name(),
				"requested", len(units),
				"returned", len(result),
			)
		}
		return result, nil
	}

	return nil, &RetryExhaustedError{Attempts: c.retries, Last: lastErr}
}

func (c *client) Identify(
	ctx context.Context,
	sampleText string,
) (LanguageResult, error) {
	user := replacePlaceholders(identifyUserPrompt, map[string]string{
		"sample_text": sampleText,
	})

	var lastErr error
	for attempt := 1; attempt <= identifyRetries; attempt++ {
		raw, err := c.call(ctx, identifySystemPrompt, user)
		if err != nil {
			var parseErr *ParseError
			if errors.As(err, &parseErr) {
				lastErr = err
				c.logAttempt("identify", attempt, err, parseErr.Preview)
				continue
			}
			return LanguageResult{}, err
		}

		result, err := ExtractResult(raw)
		if err != nil {
			lastErr = err
			c.logAttempt("identify", attempt, err, truncate(raw, previewLen))
			continue
		}
		if !result.Valid() {
			lastErr = fmt.Errorf("response carries neither language nor code")
			c.logAttempt("identify", attempt, lastErr, truncate(raw, previewLen))
			continue
		}

		c.log.Infow("detected language", "result", result.String())
		return result, nil
	}

	return LanguageResult{}, &DetectionError{
		Attempts: identifyRetries,
		Last:     lastErr,
	}
}

func (c *client) logAttempt(op string, attempt int, err error, raw string) {
	c.log.Warnw(op+" attempt failed",
		"provider", c.Name(),
		"attempt", attempt,
		"error", err.Error(),
		"response", raw,
	)
}

// RetryExhaustedError reports that no attempt produced parsable output.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf(
		"no valid translation after %d attempts: %v", e.Attempts, e.Last,
	)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

func (e *RetryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

// DetectionError reports that language identification never produced a
// usable result.
type DetectionError struct {
	Attempts int
	Last     error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf(
		"language detection failed after %d attempts: %v (hint: pass the source language explicitly instead of auto-detect)",
		e.Attempts, e.Last,
	)
}

func (e *DetectionError) Unwrap() error { return e.Last }

func (e *DetectionError) Is(target error) bool {
	return target == ErrDetectionFailed
}

// Package session ties one store connection, one target collection and the
// question history together, and exposes the two user actions: ingest and
// ask. Each action runs start-to-finish; a failure in one action never
// corrupts state for the next.
package session

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"

	"shipquery/internal/executor"
	"shipquery/internal/history"
	"shipquery/internal/ingest"
	"shipquery/internal/model"
	"shipquery/internal/render"
	"shipquery/internal/schema"
	"shipquery/internal/store"
	"shipquery/internal/translate"
)

// Session is the explicit context object passed into every action.
type Session struct {
	Collection *store.Collection
	History    *history.DB // nil disables question logging
	Loc        *time.Location
	SampleSize int64
	Log        *zap.SugaredLogger
}

// Answer bundles everything one asked question produced.
type Answer struct {
	Question string        `json:"question"`
	Plan     model.Plan    `json:"plan"`
	Result   *model.Result `json:"result"`
	Rendered string        `json:"rendered"`
	Hint     string        `json:"hint,omitempty"`
	Fields   []model.Field `json:"fields"`
}

// Ingest reads tabular data and bulk-writes it into the session collection.
func (s *Session) Ingest(ctx context.Context, r io.Reader, name string) (*ingest.Summary, error) {
	return ingest.Reader(ctx, s.Collection, r, name, s.Loc, s.Log)
}

// IngestFile ingests a file from disk.
func (s *Session) IngestFile(ctx context.Context, path string) (*ingest.Summary, error) {
	return ingest.File(ctx, s.Collection, path, s.Loc, s.Log)
}

// KnownFields rebuilds the known-field list by sampling the collection.
func (s *Session) KnownFields(ctx context.Context) ([]model.Field, error) {
	docs, err := s.Collection.SampleDocuments(ctx, s.SampleSize)
	if err != nil {
		return nil, err
	}
	return schema.FieldsFromDocuments(docs), nil
}

// Ask translates a question, executes the plan and renders the result. The
// question is logged to history regardless of outcome.
func (s *Session) Ask(ctx context.Context, question string, overrides translate.Overrides) (*Answer, error) {
	fields, err := s.KnownFields(ctx)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errors.New("no data ingested yet; upload a shipment file first")
	}

	tr := translate.New(fields, overrides, translate.WithLocation(s.Loc))
	plan := tr.Translate(question)
	s.Log.Debugw("question translated", "kind", plan.Kind, "unrecognized", plan.Unrecognized)

	res, err := executor.Run(ctx, s.Collection, plan)
	if err != nil {
		s.logQuestion(question, plan, "failed")
		return nil, err
	}

	status := "answered"
	if plan.Unrecognized {
		status = "unrecognized"
	}
	s.logQuestion(question, plan, status)

	return &Answer{
		Question: question,
		Plan:     plan,
		Result:   res,
		Rendered: render.Render(plan, *res),
		Hint:     render.Hint(plan),
		Fields:   fields,
	}, nil
}

func (s *Session) logQuestion(question string, plan model.Plan, status string) {
	if s.History == nil {
		return
	}
	if err := s.History.SaveQuestion(question, plan, status); err != nil {
		s.Log.Warnw("history write failed", "err", err)
	}
}

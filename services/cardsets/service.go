package cardsets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/cardsets")

// ErrEmptySetCode is reported when a caller asks to fetch a set
// without naming one.
var ErrEmptySetCode = errors.New("set code must not be empty")

// Fetcher retrieves the raw card payload for one set.
type Fetcher interface {
	SetCards(ctx context.Context, setID string) ([]byte, error)
}

// Service maintains the set lookup directory: one `<set>.json` file
// per set code, holding the last response body fetched for it.
type Service struct {
	api Fetcher
	dir string
}

// NewService does not create `dir`; it is expected to exist.
func NewService(api Fetcher, dir string) Service {
	return Service{api: api, dir: dir}
}

type Result struct {
	SetID string
	Path  string
	Bytes int
}

// FetchOne fetches the card payload for a single set code and writes
// it verbatim to `<dir>/<setID>.json`, truncating whatever was there
// before. The body is persisted whatever its shape; validation is the
// consumer's problem.
func (s Service) FetchOne(ctx context.Context, setID string) (Result, error) {
	ctx, span := tracer.Start(ctx, "FetchOne")
	defer span.End()

	span.SetAttributes(attribute.String("set", setID))

	if setID == "" {
		span.SetStatus(codes.Error, ErrEmptySetCode.Error())
		return Result{}, ErrEmptySetCode
	}

	body, err := s.api.SetCards(ctx, setID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, fmt.Errorf("fetch set %q: %w", setID, err)
	}

	path := filepath.Join(s.dir, setID+".json")
	err = os.WriteFile(path, body, 0644)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{}, fmt.Errorf("write set %q: %w", setID, err)
	}

	slog.InfoContext(ctx, "set lookup updated", "set", setID, "bytes", len(body))

	return Result{
		SetID: setID,
		Path:  path,
		Bytes: len(body),
	}, nil
}

// RefreshAll re-fetches every set already represented by a
// `<set>.json` file in the lookup directory, one at a time in sorted
// order. A failed set does not stop the remainder; failures are
// joined into the returned error. Zero matching files is a successful
// no-op, not an error.
func (s Service) RefreshAll(ctx context.Context) ([]Result, error) {
	ctx, span := tracer.Start(ctx, "RefreshAll")
	defer span.End()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	setIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		setIDs = append(setIDs, strings.TrimSuffix(filepath.Base(m), ".json"))
	}
	sort.Strings(setIDs)

	span.SetAttributes(attribute.Int("sets", len(setIDs)))

	if len(setIDs) == 0 {
		slog.InfoContext(ctx, "nothing to refresh", "dir", s.dir)
		return nil, nil
	}

	var results []Result
	var errlist []error
	for _, setID := range setIDs {
		res, err := s.FetchOne(ctx, setID)
		if err != nil {
			errlist = append(errlist, err)
			continue
		}
		results = append(results, res)
	}

	err = errors.Join(errlist...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "some sets failed to refresh")
	}
	return results, err
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/podium/internal/app"
	"github.com/okian/podium/internal/adapters/repository"
	"github.com/okian/podium/internal/domain/dataset"
	"github.com/okian/podium/internal/domain/filter"
	"github.com/okian/podium/internal/domain/merge"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrInternal   = errors.New("internal error")
)

// OpError records the handler operation and error kind behind a response.
type OpError struct {
	Op   string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case e.Kind == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewKind returns an error of the given kind raised by op.
func NewKind(op string, kind error) error {
	return &OpError{Op: op, Kind: kind}
}

// WrapKind attaches op and kind to err.
func WrapKind(op string, kind, err error) error {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// Wrap attaches op to err.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Err: err}
}

// classify maps service errors to a status code and response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, filter.ErrInvalidMedal),
		errors.Is(err, service.ErrInvalidPage):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound),
		errors.Is(err, repository.ErrSessionNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrNotReady),
		errors.Is(err, repository.ErrStoreClosed):
		return http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, dataset.ErrLoad),
		errors.Is(err, merge.ErrJoinAmbiguity):
		return http.StatusUnprocessableEntity, "dataset_error"
	}
	return http.StatusInternalServerError, "internal_error"
}

// fail writes err with the status classify picks for it.
func fail(w http.ResponseWriter, op string, err error) {
	status, code := classify(err)
	writeError(w, status, code, Wrap(op, err))
}

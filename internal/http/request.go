package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/warehouse/internal/apperr"
	"github.com/tuanvumaihuynh/warehouse/internal/auth"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
)

const maxBodyBytes = 1 << 20 // 1 MB

// handlerFunc is an HTTP handler that returns its error instead of writing it.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// requestError marks failures to read the request itself, answered with 400.
type requestError struct {
	err error
}

func (e requestError) Error() string { return e.err.Error() }

func (e requestError) Unwrap() error { return e.err }

func (s *Service) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return requestError{err: errors.New("request body is empty")}
		}
		return requestError{err: err}
	}

	return s.validator.Validate(dst)
}

func pathID(r *http.Request, name string) (int64, error) {
	var id int64
	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		}); err != nil {
		return 0, requestError{err: err}
	}

	return id, nil
}

func pageRequest(r *http.Request) (model.PageRequest, error) {
	var (
		page, size        *int
		sortBy, direction *string
	)

	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &page); err != nil {
		return model.PageRequest{}, requestError{err: err}
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", query, &size); err != nil {
		return model.PageRequest{}, requestError{err: err}
	}
	if err := runtime.BindQueryParameter("form", true, false, "sort_by", query, &sortBy); err != nil {
		return model.PageRequest{}, requestError{err: err}
	}
	if err := runtime.BindQueryParameter("form", true, false, "direction", query, &direction); err != nil {
		return model.PageRequest{}, requestError{err: err}
	}

	var req model.PageRequest
	if page != nil {
		req.Page = *page
	}
	if size != nil {
		req.Size = *size
	}
	if sortBy != nil {
		req.SortBy = *sortBy
	}
	if direction != nil {
		req.Direction = model.SortDirection(strings.ToUpper(*direction))
	}

	return req, nil
}

func requestActorID(r *http.Request) (int64, error) {
	principal, ok := auth.FromContext(r.Context())
	if !ok {
		return 0, apperr.UnauthorizedErr
	}
	return principal.UserID, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}

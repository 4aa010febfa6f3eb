package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/pavelanni/cbcassist/internal/llm"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	var found bool
	translator, found = uni.GetTranslator("en")
	if !found {
		panic("backend: english translator not registered")
	}
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(fmt.Sprintf("backend: register validation translations: %v", err))
	}

	// Report JSON field names instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// httpError is an error with the status it should be reported with.
type httpError struct {
	status int
	detail string
	err    error
}

func (e *httpError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.detail, e.err)
	}
	return e.detail
}

func (e *httpError) Unwrap() error { return e.err }

func badRequest(detail string) error {
	return &httpError{status: http.StatusBadRequest, detail: detail}
}

// decode reads a JSON body into v. Callers fill defaults and then check.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &httpError{status: http.StatusBadRequest, detail: "Invalid JSON body", err: err}
	}
	return nil
}

// bind decodes and validates a body that has no defaults.
func bind(r *http.Request, v any) error {
	if err := decode(r, v); err != nil {
		return err
	}
	return check(v)
}

// check validates v's struct tags and joins the translated messages.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &httpError{status: http.StatusBadRequest, detail: "Invalid request", err: err}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	sort.Strings(msgs)
	return badRequest(strings.Join(msgs, "; "))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

type errorBody struct {
	Detail string `json:"detail"`
}

// writeError reports err as {"detail": ...}. Model failures map to 502,
// anything unrecognised to 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		herr        *httpError
		rateErr     *llm.ErrRateLimit
		invalidErr  *llm.ErrInvalidResponse
		unavailable *llm.ErrProviderUnavailable
	)
	switch {
	case errors.As(err, &herr):
		if herr.status >= http.StatusInternalServerError {
			slog.Error("request failed", "path", r.URL.Path, "error", err)
		}
		writeJSON(w, herr.status, errorBody{Detail: herr.detail})
	case errors.As(err, &rateErr):
		slog.Warn("model rate limited", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Detail: "The AI service is busy. Please try again in a moment."})
	case errors.As(err, &invalidErr):
		slog.Error("model returned invalid output", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Detail: "The AI service returned an unexpected answer. Please try again."})
	case errors.As(err, &unavailable):
		slog.Error("model unavailable", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Detail: "The AI service is unavailable. Please try again later."})
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Detail: http.StatusText(http.StatusInternalServerError)})
	}
}

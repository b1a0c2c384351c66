package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/gossipchain/business/sys/validate"
	v1 "github.com/ardanlabs/gossipchain/business/web/v1"
	"github.com/ardanlabs/gossipchain/business/web/v1/mid"
	"github.com/ardanlabs/gossipchain/foundation/web"
	"go.uber.org/zap"
)

func Test_Errors(t *testing.T) {
	log := zap.NewNop().Sugar()

	tt := []struct {
		name    string
		handler web.Handler
		status  int
		message string
	}{
		{
			"request-error",
			func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return v1.NewRequestError(errors.New("bad signature"), http.StatusForbidden)
			},
			http.StatusForbidden,
			"bad signature",
		},
		{
			"field-errors",
			func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return validate.FieldErrors{{Field: "node", Error: "node is a required field"}}
			},
			http.StatusBadRequest,
			"data validation error",
		},
		{
			"untrusted",
			func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return errors.New("disk on fire")
			},
			http.StatusInternalServerError,
			http.StatusText(http.StatusInternalServerError),
		},
		{
			"panic",
			func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				panic("boom")
			},
			http.StatusInternalServerError,
			http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			app := web.NewApp(make(chan os.Signal, 1), mid.Logger(log), mid.Errors(log), mid.Metrics(), mid.Panics())
			app.Handle(http.MethodGet, "", "/test", tst.handler)

			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			if w.Code != tst.status {
				t.Fatalf("Should get status %d, got %d.", tst.status, w.Code)
			}

			var er v1.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&er); err != nil {
				t.Fatalf("Should be able to decode the error response: %s", err)
			}

			if er.Error != tst.message {
				t.Fatalf("Should get message %q, got %q.", tst.message, er.Error)
			}
		}

		t.Run(tst.name, f)
	}
}

package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoIn struct {
	Name string `json:"name"`
}

func newEngine(a Action[echoIn]) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterAction(New(r.Group("")), a)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAction_BindJSON(t *testing.T) {
	r := newEngine(Action[echoIn]{
		Method: http.MethodPost,
		Path:   "/echo",
		Binder: BindJSON,
		Handler: func(c *gin.Context, in *echoIn) (Result, error) {
			return OK(gin.H{"name": in.Name}), nil
		},
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{name: "valid", body: `{"name":"x"}`, wantStatus: http.StatusOK},
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantMsg: "request body is required"},
		{name: "whitespace", body: "  \n", wantStatus: http.StatusBadRequest, wantMsg: "request body is required"},
		{name: "null", body: "null", wantStatus: http.StatusBadRequest, wantMsg: "request body is required"},
		{name: "malformed", body: `{"name":`, wantStatus: http.StatusBadRequest},
		{name: "wrong type", body: `{"name":1}`, wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/echo", tt.body)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "x", body["name"])
				return
			}
			assert.Equal(t, float64(tt.wantStatus), body["code"])
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, body["msg"])
			}
		})
	}
}

func TestRegisterAction_CreatedWritesLocationAndNoBody(t *testing.T) {
	r := newEngine(Action[echoIn]{
		Method: http.MethodPost,
		Path:   "/things",
		Binder: BindNone,
		Handler: func(c *gin.Context, _ *echoIn) (Result, error) {
			return Created(c.Request.URL.Path + "/7"), nil
		},
	})

	w := do(r, http.MethodPost, "/things", "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/things/7", w.Header().Get("Location"))
	assert.Empty(t, w.Body.String())
}

func TestRegisterAction_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "not found", err: NotFound("user not found"), wantStatus: http.StatusNotFound, wantMsg: "user not found"},
		{name: "bad request", err: BadRequest("nope"), wantStatus: http.StatusBadRequest, wantMsg: "nope"},
		{name: "internal hides cause", err: errors.New("db exploded"), wantStatus: http.StatusInternalServerError, wantMsg: "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(Action[echoIn]{
				Method: http.MethodGet,
				Path:   "/fail",
				Binder: BindNone,
				Handler: func(*gin.Context, *echoIn) (Result, error) {
					return Result{}, tt.err
				},
			})

			w := do(r, http.MethodGet, "/fail", "")
			require.Equal(t, tt.wantStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["msg"])
		})
	}
}

func TestAErr_Unwrap(t *testing.T) {
	cause := errors.New("cause")
	err := Internal("wrapped", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "wrapped", err.Error())
	assert.Equal(t, "cause", (&AErr{Err: cause}).Error())
	assert.Equal(t, "action error", (&AErr{}).Error())
}

func TestRegisterAction_UnsupportedMethodPanics(t *testing.T) {
	for _, m := range []string{http.MethodPut, http.MethodDelete, "", "FETCH"} {
		t.Run(m, func(t *testing.T) {
			assert.Panics(t, func() {
				newEngine(Action[echoIn]{
					Method:  m,
					Path:    "/x",
					Binder:  BindNone,
					Handler: func(*gin.Context, *echoIn) (Result, error) { return OK(nil), nil },
				})
			})
		})
	}
}

func TestRegisterAction_MethodIsCaseInsensitive(t *testing.T) {
	r := newEngine(Action[echoIn]{
		Method:  "get",
		Path:    "/lower",
		Binder:  BindNone,
		Handler: func(*gin.Context, *echoIn) (Result, error) { return OK(gin.H{"ok": true}), nil },
	})

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/lower", "").Code)
}

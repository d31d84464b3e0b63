package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_DefaultAndCustomMsg(t *testing.T) {
	assert.Equal(t, Resp{Code: 404, Msg: "Not Found", Data: struct{}{}}, Error(CodeNotFound, ""))
	assert.Equal(t, "user not found", Error(CodeNotFound, "user not found").Msg)
}

func TestAbort_WritesStatusAndEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Abort(c, CodeBadRequest, "bad body")

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, c.IsAborted())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(400), body["code"])
	assert.Equal(t, "bad body", body["msg"])
	assert.Equal(t, map[string]any{}, body["data"])
}

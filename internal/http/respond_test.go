package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRespondJSON_UnencodableBodyKeepsStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusAccepted, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Zero(t, logs.Len(), "responses never log through the global logger")
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, http.StatusConflict, "empty_cart", "your cart is empty")

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"your cart is empty","code":"empty_cart"}`, rec.Body.String())
}

func TestRespondInternal_LogsThroughGivenLogger(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)

	rec := httptest.NewRecorder()
	respondInternal(rec, zap.New(core), "checkout failed", assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error","code":"internal_error"}`, rec.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("checkout failed").Len())
}

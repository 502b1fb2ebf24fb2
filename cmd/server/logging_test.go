package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestWithLogging(t *testing.T) {
	output, formatter := log.StandardLogger().Out, log.StandardLogger().Formatter
	t.Cleanup(func() {
		log.SetOutput(output)
		log.SetFormatter(formatter)
	})

	var buffer bytes.Buffer
	log.SetOutput(&buffer)
	log.SetFormatter(&log.JSONFormatter{})

	handler := withLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/visitors-count", nil))

	assert.Equal(t, http.StatusTeapot, recorder.Code)
	assert.Contains(t, buffer.String(), `"uri":"/visitors-count"`)
	assert.Contains(t, buffer.String(), `"status":418`)
	assert.Contains(t, buffer.String(), `"method":"GET"`)
}

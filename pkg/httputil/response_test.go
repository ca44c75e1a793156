package httputil

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := WriteJSON(rec, 201, map[string]string{"hello": "world"})
	require.NoError(t, err)

	assert.Equal(t, 201, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "world", body["hello"])
}

func TestWriteErrorMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteErrorMessage(rec, 404, "tenant not found")

	assert.Equal(t, 404, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tenant not found", body["error"])
}

func TestWriteInternalError(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteInternalError(rec, errors.New("boom"))

	assert.Equal(t, 500, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestWriteStatus(t *testing.T) {
	t.Run("success omits error", func(t *testing.T) {
		rec := httptest.NewRecorder()

		err := WriteStatus(rec, 200, "billing run completed", nil, map[string]int{"charged": 3})
		require.NoError(t, err)

		assert.Equal(t, 200, rec.Code)

		var body StatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, 200, body.Status)
		assert.Equal(t, "billing run completed", body.Message)
		assert.Empty(t, body.Error)
	})

	t.Run("failure carries error text", func(t *testing.T) {
		rec := httptest.NewRecorder()

		err := WriteStatus(rec, 500, "billing run failed", errors.New("db unreachable"), nil)
		require.NoError(t, err)

		assert.Equal(t, 500, rec.Code)

		var body StatusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "db unreachable", body.Error)
	})
}

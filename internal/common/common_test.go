package common_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/toko-pricing/internal/common"
)

type errorResponse struct {
	Error common.ErrorBody `json:"error"`
}

func TestWriteErrorUsesAppErrorStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	common.WriteError(rec, common.NotFound("BOOK_NOT_FOUND", "book not found", errors.New("missing")))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "BOOK_NOT_FOUND", body.Error.Code)
}

func TestWriteErrorHidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	common.WriteError(rec, errors.New("db password is hunter2"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "hunter2")
}

func TestDecodeJSONValidates(t *testing.T) {
	type payload struct {
		Name string `json:"name" validate:"required"`
		Qty  int    `json:"qty" validate:"gte=0"`
	}

	var ok payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","qty":0}`))
	require.NoError(t, common.DecodeJSON(req, &ok))

	var bad payload
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"qty":-1}`))
	err := common.DecodeJSON(req, &bad)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)
	require.Equal(t, map[string]string{"payload.Name": "required", "payload.Qty": "gte"}, appErr.Details)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":true}`))
	require.True(t, common.IsAppError(common.DecodeJSON(req, &bad)))
}

func TestDecodeJSONTooLarge(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("x", 64)+`"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 16)

	err := common.DecodeJSON(req, &dst)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusRequestEntityTooLarge, appErr.HTTPStatus)
	require.Equal(t, "PAYLOAD_TOO_LARGE", appErr.Code)
}

func TestIdemRejectsReplays(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	calls := 0
	handler := common.Idem{R: client, TTL: time.Minute}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	send := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/quote", nil)
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("abc"))
	require.Equal(t, http.StatusConflict, send("abc"))
	require.Equal(t, http.StatusOK, send(""))
	require.Equal(t, 2, calls)
}

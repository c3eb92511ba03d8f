package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		body string
	}{
		{Wrap(ErrNotFound, "variant not found"), http.StatusNotFound, `{"error":"variant not found"}`},
		{Wrap(ErrDuplicate, "attribute already exists"), http.StatusConflict, `{"error":"attribute already exists"}`},
		{Wrap(ErrValidation, "type must be IN or OUT"), http.StatusBadRequest, `{"error":"type must be IN or OUT"}`},
		{Wrap(ErrInsufficientStock, "insufficient stock"), http.StatusBadRequest, `{"error":"insufficient stock"}`},
		{ErrStoreUnconfigured, http.StatusInternalServerError, `{"error":"storage not configured"}`},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, `{"error":"internal server error"}`},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		RespondError(rec, tc.err)
		require.Equal(t, tc.code, rec.Code, tc.err.Error())
		require.JSONEq(t, tc.body, rec.Body.String())
		require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	}
}

func TestWrapKeepsClassification(t *testing.T) {
	err := Wrap(ErrNotFound, "product not found")
	require.ErrorIs(t, err, ErrNotFound)
	require.NotErrorIs(t, err, ErrDuplicate)
	require.Equal(t, "product not found", err.Error())
}

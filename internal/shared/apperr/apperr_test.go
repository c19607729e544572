package apperr

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWireRoundTrip(t *testing.T) {
	for _, kind := range []Kind{
		KindAuth, KindAuthorization, KindInvalidState, KindConflict,
		KindNotFound, KindValidation, KindInternal,
	} {
		original := New(kind, "something happened")

		raw, err := json.Marshal(original)
		require.NoError(t, err)

		var wire struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(raw, &wire))

		restored := FromStatus(HTTPStatus(original), wire.Code, wire.Message)
		assert.Equal(t, kind, restored.Kind)
		assert.Equal(t, "something happened", restored.Message)
	}
}

func TestFromStatusFallsBackToStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuthorization},
		{http.StatusNotFound, KindNotFound},
		{http.StatusConflict, KindConflict},
		{http.StatusBadRequest, KindValidation},
		{http.StatusBadGateway, KindInternal},
	}
	for _, tc := range cases {
		got := FromStatus(tc.status, "something-unknown", "")
		assert.Equal(t, tc.kind, got.Kind)
		assert.NotEmpty(t, got.Message)
	}
}

func TestConflictAndInvalidStateShareStatus(t *testing.T) {
	assert.Equal(t, http.StatusConflict, HTTPStatus(Conflict("dup")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(InvalidState("late")))
}

func TestIsMatchesByKind(t *testing.T) {
	err := Wrap(KindConflict, "duplicate", errors.New("unique constraint"))

	assert.True(t, errors.Is(err, New(KindConflict, "anything")))
	assert.False(t, errors.Is(err, New(KindNotFound, "anything")))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
}

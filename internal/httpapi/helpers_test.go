package httpapi_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeAttemptID(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message        string `json:"message"`
		LoginAttemptID string `json:"loginAttemptId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "2FA required", body.Message)
	require.NotEmpty(t, body.LoginAttemptID)
	return body.LoginAttemptID
}

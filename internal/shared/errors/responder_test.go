package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

func TestResponder_UsesMappersThenFallsBack(t *testing.T) {
	gin.SetMode(gin.TestMode)
	responder := NewResponder(func(err error) (ProblemDetail, bool) {
		if errors.Is(err, errMissing) {
			return NewNotFoundProblem("product", 9), true
		}
		return ProblemDetail{}, false
	})

	cases := []struct {
		err    error
		status int
		title  string
	}{
		{errMissing, http.StatusNotFound, "Resource Not Found"},
		{ErrValidation.WithDetail("name is required"), http.StatusBadRequest, "Validation Error"},
		{errors.New("db down"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/products/9", nil)

		responder.RespondError(c, tc.err)

		require.Equal(t, tc.status, rec.Code)
		require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
		var body ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, tc.title, body.Title)
		require.Equal(t, "/products/9", body.Instance)
	}
}

func TestProblemDetail_WithExtensionCopies(t *testing.T) {
	base := ErrValidation
	withField := base.WithExtension("fields", map[string]string{"name": "required"})
	require.Nil(t, base.Extensions)
	require.Contains(t, withField.Extensions, "fields")
}

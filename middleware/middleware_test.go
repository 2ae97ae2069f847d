package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"beacon/api/contexts"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
)

func runMiddleware(t *testing.T, mw echo.MiddlewareFunc, target string) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reachedHandler := false
	handler := mw(func(c echo.Context) error {
		reachedHandler = true
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, handler(c))
	return rec, reachedHandler
}

func TestMandateReferenceNameAttribute(t *testing.T) {
	t.Run("numeric chromosomes pass", func(t *testing.T) {
		_, reached := runMiddleware(t, MandateReferenceNameAttribute, "/query?referenceName=20")
		assert.True(t, reached)
	})

	t.Run("sex and mitochondrial chromosomes pass", func(t *testing.T) {
		for _, name := range []string{"X", "Y", "MT"} {
			_, reached := runMiddleware(t, MandateReferenceNameAttribute, "/query?referenceName="+name)
			assert.True(t, reached)
		}
	})

	t.Run("missing chromosome is refused", func(t *testing.T) {
		rec, reached := runMiddleware(t, MandateReferenceNameAttribute, "/query")
		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("out-of-range chromosome is refused", func(t *testing.T) {
		rec, reached := runMiddleware(t, MandateReferenceNameAttribute, "/query?referenceName=23")
		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("garbage chromosome is refused", func(t *testing.T) {
		rec, reached := runMiddleware(t, MandateReferenceNameAttribute, "/query?referenceName=chr20")
		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMandateCalibratedBounds(t *testing.T) {
	t.Run("exact start passes", func(t *testing.T) {
		_, reached := runMiddleware(t, MandateCalibratedBounds, "/query?start=14369")
		assert.True(t, reached)
	})

	t.Run("a min and max pair passes", func(t *testing.T) {
		_, reached := runMiddleware(t, MandateCalibratedBounds, "/query?startMin=14000&startMax=15000")
		assert.True(t, reached)
	})

	t.Run("no positions at all is refused", func(t *testing.T) {
		rec, reached := runMiddleware(t, MandateCalibratedBounds, "/query")
		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("half a range is refused", func(t *testing.T) {
		rec, reached := runMiddleware(t, MandateCalibratedBounds, "/query?startMin=14000")
		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("inverted range is refused", func(t *testing.T) {
		rec, reached := runMiddleware(t, MandateCalibratedBounds, "/query?startMin=15000&startMax=14000")
		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-numeric positions are refused", func(t *testing.T) {
		rec, reached := runMiddleware(t, MandateCalibratedBounds, "/query?start=abc")
		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestValidateOptionalIncludeResponsesAttribute(t *testing.T) {
	t.Run("absent mode passes", func(t *testing.T) {
		_, reached := runMiddleware(t, ValidateOptionalIncludeResponsesAttribute, "/query")
		assert.True(t, reached)
	})

	t.Run("known modes pass", func(t *testing.T) {
		for _, mode := range []string{"ALL", "HIT", "MISS", "NONE", "hit"} {
			_, reached := runMiddleware(t, ValidateOptionalIncludeResponsesAttribute, "/query?includeDatasetResponses="+mode)
			assert.True(t, reached)
		}
	})

	t.Run("unknown modes are refused", func(t *testing.T) {
		rec, reached := runMiddleware(t, ValidateOptionalIncludeResponsesAttribute, "/query?includeDatasetResponses=SOME")
		assert.False(t, reached)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResolveRequesterIdentity(t *testing.T) {
	resolveOn := func(t *testing.T, headers map[string]string) *contexts.BeaconContext {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/query", nil)
		for header, value := range headers {
			req.Header.Set(header, value)
		}
		gc := &contexts.BeaconContext{Context: e.NewContext(req, httptest.NewRecorder())}

		handler := ResolveRequesterIdentity(func(c echo.Context) error {
			return nil
		})
		assert.NoError(t, handler(gc))
		return gc
	}

	t.Run("no headers resolve to anonymous", func(t *testing.T) {
		gc := resolveOn(t, nil)

		assert.False(t, gc.Identity.Authenticated)
		assert.False(t, gc.Identity.BonaFideStatus)
		assert.Empty(t, gc.Identity.Permissions)
	})

	t.Run("gateway claims decode", func(t *testing.T) {
		gc := resolveOn(t, map[string]string{
			"X-Beacon-Authenticated":       "true",
			"X-Beacon-Bona-Fide":           "true",
			"X-Beacon-Dataset-Permissions": "EGAD-A, EGAD-B",
		})

		assert.True(t, gc.Identity.Authenticated)
		assert.True(t, gc.Identity.BonaFideStatus)
		assert.Equal(t, []string{"EGAD-A", "EGAD-B"}, gc.Identity.Permissions)
	})

	t.Run("garbage claim values are ignored", func(t *testing.T) {
		gc := resolveOn(t, map[string]string{
			"X-Beacon-Authenticated": "yes please",
		})

		assert.False(t, gc.Identity.Authenticated)
	})
}

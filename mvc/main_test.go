package mvc

import (
	"net/http"
	"net/http/httptest"
	"testing"

	includeResponse "beacon/api/models/constants/include-response"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
)

func requestContext(target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestRetrieveBeaconRequest(t *testing.T) {
	t.Run("full query string decodes", func(t *testing.T) {
		c := requestContext("/query?referenceName=20&start=14369&referenceBases=G&alternateBases=A" +
			"&assemblyId=GRCh38&datasetIds=EGAD-A,EGAD-B&filters=PATO:0000383,Insilico:coverage%3E=30" +
			"&includeDatasetResponses=HIT")

		parsed := RetrieveBeaconRequest(c)

		assert.Equal(t, "20", parsed.ReferenceName)
		assert.Equal(t, 14369, parsed.Start)
		assert.Equal(t, "G", parsed.ReferenceBases)
		assert.Equal(t, "A", parsed.AlternateBases)
		assert.Equal(t, "GRCh38", parsed.AssemblyId)
		assert.Equal(t, []string{"EGAD-A", "EGAD-B"}, parsed.DatasetIds)
		assert.Equal(t, []string{"PATO:0000383", "Insilico:coverage>=30"}, parsed.Filters)
		assert.Equal(t, includeResponse.Hit, parsed.IncludeDatasetResponses)
	})

	t.Run("region bounds decode", func(t *testing.T) {
		c := requestContext("/query?referenceName=20&startMin=14000&startMax=15000&endMin=14100&endMax=15100")

		parsed := RetrieveBeaconRequest(c)

		assert.Equal(t, 14000, parsed.StartMin)
		assert.Equal(t, 15000, parsed.StartMax)
		assert.Equal(t, 14100, parsed.EndMin)
		assert.Equal(t, 15100, parsed.EndMax)
	})

	t.Run("absent parameters stay at their zero values", func(t *testing.T) {
		c := requestContext("/query?referenceName=20")

		parsed := RetrieveBeaconRequest(c)

		assert.Zero(t, parsed.Start)
		assert.Empty(t, parsed.DatasetIds)
		assert.Empty(t, parsed.Filters)
		assert.Equal(t, includeResponse.Undefined, parsed.IncludeDatasetResponses)
	})

	t.Run("csv parameters drop empty segments", func(t *testing.T) {
		c := requestContext("/query?datasetIds=EGAD-A,,EGAD-B,")

		parsed := RetrieveBeaconRequest(c)

		assert.Equal(t, []string{"EGAD-A", "EGAD-B"}, parsed.DatasetIds)
	})
}

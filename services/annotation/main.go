package annotation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"beacon/api/models"
	"beacon/api/models/dtos"

	"github.com/Jeffail/gabs"
	"github.com/cenkalti/backoff"
)

type (
	// AnnotationService enriches variants with external annotation
	// blobs (CellBase and dbSNP). Lookups are best-effort: any
	// failure degrades to an empty annotation, never an error.
	AnnotationService struct {
		Enabled     bool
		CellBaseUrl string
		DbSnpUrl    string

		client *http.Client
	}
)

func NewAnnotationService(cfg *models.Config) *AnnotationService {
	return &AnnotationService{
		Enabled:     cfg.Annotations.Enabled,
		CellBaseUrl: cfg.Annotations.CellBaseUrl,
		DbSnpUrl:    cfg.Annotations.DbSnpUrl,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Annotate fetches CellBase and dbSNP annotations for one variant.
// The returned rsID is the variant's stored id when present, else the
// id CellBase reports; empty when neither is known.
func (as *AnnotationService) Annotate(ctx context.Context, details dtos.VariantDetails) (string, dtos.VariantAnnotations) {
	annotations := dtos.VariantAnnotations{}

	if !as.Enabled {
		return "", annotations
	}

	// CellBase expects chrom:start:ref:alt with 1-based start and a
	// '-' placeholder for an absent alternate
	alternate := details.AlternateBases
	if alternate == "" {
		alternate = "-"
	}
	variantKey := fmt.Sprintf("%s:%d:%s:%s", details.Chromosome, details.Start+1, details.ReferenceBases, alternate)

	var cellBaseRsId string
	cellBaseUrl := fmt.Sprintf("%s/hsapiens/genomic/variant/%s/annotation", as.CellBaseUrl, variantKey)
	if body, err := as.fetch(ctx, cellBaseUrl); err == nil {
		var cellBase map[string]interface{}
		if umErr := json.Unmarshal(body, &cellBase); umErr == nil {
			annotations.CellBase = cellBase
		}
		cellBaseRsId = parseCellBaseRsId(body)
	} else {
		fmt.Printf("[%s] - CellBase annotation lookup failed : %v\n", time.Now(), err)
	}

	rsId := details.VariantId
	if rsId == "." || rsId == "" {
		rsId = cellBaseRsId
	}

	if rsId != "" && strings.HasPrefix(rsId, "rs") {
		dbSnpUrl := fmt.Sprintf("%s/beta/refsnp/%s", as.DbSnpUrl, rsId[2:])
		if body, err := as.fetch(ctx, dbSnpUrl); err == nil {
			var dbSnp map[string]interface{}
			if umErr := json.Unmarshal(body, &dbSnp); umErr == nil {
				annotations.DbSNP = dbSnp
			}
		} else {
			fmt.Printf("[%s] - dbSNP annotation lookup failed : %v\n", time.Now(), err)
		}
	}

	return rsId, annotations
}

// fetch performs one GET with a short exponential backoff retry.
func (as *AnnotationService) fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		request, reqErr := http.NewRequestWithContext(ctx, "GET", url, nil)
		if reqErr != nil {
			return backoff.Permanent(reqErr)
		}

		response, resErr := as.client.Do(request)
		if resErr != nil {
			return resErr
		}
		defer response.Body.Close()

		if response.StatusCode != 200 {
			return fmt.Errorf("annotation service responded with %d", response.StatusCode)
		}

		var readErr error
		body, readErr = io.ReadAll(response.Body)
		return readErr
	}

	retryBackoff := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2)
	if err := backoff.Retry(operation, backoff.WithContext(retryBackoff, ctx)); err != nil {
		return nil, err
	}

	return body, nil
}

// parseCellBaseRsId digs the first reported id out of a CellBase
// annotation response.
func parseCellBaseRsId(body []byte) string {
	jsonParsed, err := gabs.ParseJSON(body)
	if err != nil {
		return ""
	}

	responses, err := jsonParsed.Path("response").Children()
	if err != nil || len(responses) == 0 {
		return ""
	}

	results, err := responses[0].Path("result").Children()
	if err != nil || len(results) == 0 {
		return ""
	}

	if rsId, ok := results[0].Path("id").Data().(string); ok {
		return rsId
	}
	return ""
}

package http

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

// openAPIDoc hands the embedded document to swag, which echo-swagger reads
// as doc.json.
type openAPIDoc struct {
	json string
}

func (d openAPIDoc) ReadDoc() string {
	return d.json
}

// swag panics on a second registration under the same name.
var registerDocsOnce sync.Once

func registerDocs(swagger *openapi3.T) error {
	raw, err := json.Marshal(swagger)
	if err != nil {
		return fmt.Errorf("marshal openapi document: %w", err)
	}

	registerDocsOnce.Do(func() {
		swag.Register(swag.Name, openAPIDoc{json: string(raw)})
	})
	return nil
}

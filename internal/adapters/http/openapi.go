package httpadapter

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/nbkdev/control-center/internal/core/domain"
)

//go:embed openapi.yaml
var openAPISpec []byte

const maxBodyBytes = 1 << 20

// contract holds the parsed API document used to validate request bodies.
type contract struct {
	doc *openapi3.T
}

func loadContract(ctx context.Context) (*contract, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return &contract{doc: doc}, nil
}

// decode reads the request body, checks it against the named component
// schema and unmarshals it into out.
func (c *contract) decode(r *http.Request, schemaName string, out any) error {
	const op = "decode request body"

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return domain.WrapError(domain.ErrInvalidInput, op, err)
	}
	if len(raw) > maxBodyBytes {
		return domain.WrapError(domain.ErrInvalidInput, op, errors.New("body too large"))
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, op, fmt.Errorf("invalid json: %w", err))
	}

	ref, ok := c.doc.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("%s: unknown schema %q", op, schemaName)
	}
	if err := ref.Value.VisitJSON(generic); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, op, schemaError(err))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, op, err)
	}
	return nil
}

// schemaError trims kin-openapi's multi-line report down to its reason.
func schemaError(err error) error {
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if field := se.JSONPointer(); len(field) > 0 {
			return fmt.Errorf("%s: %s", strings.Join(field, "."), se.Reason)
		}
		return errors.New(se.Reason)
	}
	return err
}

func (rt *Router) openAPIDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openAPISpec)
}

package http

import (
	"fmt"
	"net/http"

	"logistics/internal/generated/servers"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
)

// NewRequestValidator checks every request against the OpenAPI document
// before it reaches a handler. Requests the document does not describe, such
// as /metrics and /swagger/*, pass through untouched.
//
// Example:
//
//	swagger, _ := servers.GetSwagger()
//	validator, err := NewRequestValidator(swagger)
//	if err != nil {
//	    return err
//	}
//	e.Use(validator)
func NewRequestValidator(swagger *openapi3.T) (echo.MiddlewareFunc, error) {
	// Match on paths only; the document is served behind any host.
	swagger.Servers = nil

	router, err := legacy.NewRouter(swagger)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			req := ctx.Request()

			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(ctx)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return ctx.JSON(http.StatusBadRequest, servers.Error{
					Code:    http.StatusBadRequest,
					Message: "Invalid request: " + err.Error(),
				})
			}
			return next(ctx)
		}
	}, nil
}

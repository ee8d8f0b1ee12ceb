// Package runtime adapts the echo handler to the dispatchers it can be invoked by.
package runtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/event-echo-app/internal/handler"
	"github.com/isometry/event-echo-app/internal/helpers"
	"github.com/isometry/event-echo-app/internal/models"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Supported Lambda HTTP payload types.
const (
	PayloadTypeAPIGatewayV1 = "api-gateway-v1"
	PayloadTypeAPIGatewayV2 = "api-gateway-v2"
	PayloadTypeLambdaURL    = "lambda-url"
)

type Option func(*Runtime)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithLambdaPayloadType sets the payload type expected by Lambda when fronted by an HTTP trigger.
func WithLambdaPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.payloadType = payloadType
	}
}

type Runtime struct {
	*handler.Handler
	logger      *slog.Logger
	payloadType string
	rejections  *rate.Sometimes
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler, rejections: helpers.OnceAMinute()}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.payloadType == "" {
		_inst.payloadType = PayloadTypeAPIGatewayV2
	}
	return _inst
}

// PayloadType returns the Lambda HTTP payload type the runtime decodes.
func (r *Runtime) PayloadType() string {
	return r.payloadType
}

// LambdaForEvent is the Lambda handler for raw event invocations, e.g. EventBridge rules.
func (r *Runtime) LambdaForEvent(ctx context.Context, event json.RawMessage) (models.Response, error) {
	r.logger.Debug("received lambda event")
	response, err := r.Handler.Handle(ctx, event)
	if err != nil {
		r.logger.Error("failed to handle event", slog.Any("error", err))
		return response, err
	}
	r.logger.Debug("handled event", slog.Int("statusCode", response.StatusCode), slog.String("body", helpers.Truncate(response.Body, 256)))
	return response, nil
}

// Lambda is the Lambda handler for HTTP-fronted invocations. The HTTP request body is the event.
func (r *Runtime) Lambda(ctx context.Context, payload json.RawMessage) (response any, err error) {
	r.logger.Debug("received lambda HTTP request", slog.String("payloadType", r.payloadType))

	var body string
	var isBase64 bool
	switch r.payloadType {
	case PayloadTypeAPIGatewayV1:
		var req events.APIGatewayProxyRequest
		if err = json.Unmarshal(payload, &req); err != nil {
			return nil, errors.Wrap(err, "failed to decode API Gateway v1 request")
		}
		body, isBase64 = req.Body, req.IsBase64Encoded
	case PayloadTypeAPIGatewayV2:
		var req events.APIGatewayV2HTTPRequest
		if err = json.Unmarshal(payload, &req); err != nil {
			return nil, errors.Wrap(err, "failed to decode API Gateway v2 request")
		}
		body, isBase64 = req.Body, req.IsBase64Encoded
	case PayloadTypeLambdaURL:
		var req events.LambdaFunctionURLRequest
		if err = json.Unmarshal(payload, &req); err != nil {
			return nil, errors.Wrap(err, "failed to decode Lambda function URL request")
		}
		body, isBase64 = req.Body, req.IsBase64Encoded
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.payloadType)
	}

	event := []byte(body)
	if isBase64 {
		if event, err = base64.StdEncoding.DecodeString(body); err != nil {
			return nil, errors.Wrap(err, "failed to decode base64 request body")
		}
	}

	headers := map[string]string{"Content-Type": "application/json"}
	result, err := r.Handler.Handle(ctx, event)
	if err != nil {
		r.logger.Warn("failed to handle event", slog.Any("error", err))
		result = models.Response{StatusCode: http.StatusBadRequest, Body: err.Error()}
		headers["Content-Type"] = "text/plain"
	}

	switch r.payloadType {
	case PayloadTypeAPIGatewayV1:
		return events.APIGatewayProxyResponse{
			Body:       result.Body,
			Headers:    headers,
			StatusCode: result.StatusCode,
		}, nil
	case PayloadTypeAPIGatewayV2:
		return events.APIGatewayV2HTTPResponse{
			Body:       result.Body,
			Headers:    headers,
			StatusCode: result.StatusCode,
		}, nil
	default:
		return events.LambdaFunctionURLResponse{
			Body:       result.Body,
			Headers:    headers,
			StatusCode: result.StatusCode,
		}, nil
	}
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodPost:
		break
	default:
		r.rejections.Do(func() {
			r.logger.Warn("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		})
		resp.Header().Set("Allow", http.MethodPost)
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusMethodNotAllowed}, nil, resp)
		return
	}

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("method", req.Method), slog.Any("path", req.URL.Path))
	body, err := io.ReadAll(req.Body)
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusInternalServerError}, err, resp)
		return
	}

	result, err := r.Handler.Handle(req.Context(), body)
	if err != nil {
		r.logger.Warn("failed to handle event", slog.Any("error", err))
		status := http.StatusInternalServerError
		var invalidErr *handler.InvalidEventError
		if errors.As(err, &invalidErr) {
			status = http.StatusBadRequest
		}
		helpers.RespondHTTP(models.Response{StatusCode: status}, err, resp)
		return
	}
	result.Headers = map[string]string{"Content-Type": "application/json"}
	helpers.RespondHTTP(result, nil, resp)
}

// Package handler implements the event echo contract: log the event, reflect its detail back to the caller.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/isometry/event-echo-app/internal/helpers"
	"github.com/isometry/event-echo-app/internal/models"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	// PoweredByEnv is the environment variable reflected as powered_by.
	PoweredByEnv = "POWERED_BY"
	// PoweredByUnknown is reported when PoweredByEnv is unset.
	PoweredByUnknown = "unknown"
	// EventLinePrefix starts the diagnostic line written for every event.
	EventLinePrefix = "EVENT:"
)

type Option func(*Handler)

type Handler struct {
	logger    *slog.Logger
	output    io.Writer
	outputMu  sync.Mutex
	poweredBy *string
}

// NewEchoHandler creates a Handler. The powered_by value is resolved once, here.
func NewEchoHandler(options ...Option) *Handler {
	_inst := &Handler{}
	for _, opt := range options {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	if _inst.output == nil {
		_inst.output = os.Stdout
	}
	if _inst.poweredBy == nil {
		_inst.poweredBy = helpers.Ptr(PoweredByFromEnv())
	}
	return _inst
}

// PoweredByFromEnv returns the value of POWERED_BY, or "unknown" when the variable is unset.
// A variable set to the empty string is reported as such.
func PoweredByFromEnv() string {
	if v, found := os.LookupEnv(PoweredByEnv); found {
		return v
	}
	return PoweredByUnknown
}

// PoweredBy returns the value reported in every response body.
func (h *Handler) PoweredBy() string {
	return *h.poweredBy
}

// Handle echoes the event back to the dispatcher.
// The context is only used to enrich debug logs with the invocation's request id.
func (h *Handler) Handle(ctx context.Context, event models.Event) (models.Response, error) {
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With(slog.String("requestId", lc.AwsRequestID))
	}

	compacted, err := compactEvent(event)
	if err != nil {
		logger.Warn("rejecting event", slog.Any("error", err))
		return models.Response{}, err
	}

	if err = h.logEvent(compacted); err != nil {
		return models.Response{}, errors.Wrap(err, "failed to write event line")
	}

	detail := extractDetail(compacted)
	logger.Debug("received event",
		slog.String("id", gjson.GetBytes(compacted, "id").String()),
		slog.String("source", gjson.GetBytes(compacted, "source").String()),
		slog.String("detailType", gjson.GetBytes(compacted, "detail-type").String()))

	body, err := marshalMessage(models.Message{
		Received:  true,
		PoweredBy: h.PoweredBy(),
		Detail:    detail,
	})
	if err != nil {
		return models.Response{}, errors.Wrap(err, "failed to serialise response body")
	}

	return models.Response{StatusCode: http.StatusOK, Body: body}, nil
}

// marshalMessage serialises m without HTML escaping, so the detail is echoed as received.
func marshalMessage(m models.Message) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(m); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (h *Handler) logEvent(event []byte) error {
	h.outputMu.Lock()
	defer h.outputMu.Unlock()
	_, err := fmt.Fprintf(h.output, "%s %s\n", EventLinePrefix, event)
	return err
}

// compactEvent validates the payload as a JSON object and strips insignificant whitespace,
// so the event fits on a single line.
func compactEvent(event models.Event) ([]byte, error) {
	if !gjson.ValidBytes(event) {
		return nil, newInvalidEventError("payload is not valid JSON")
	}
	if !gjson.ParseBytes(event).IsObject() {
		return nil, newInvalidEventError("payload is not a JSON object")
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, event); err != nil {
		return nil, &InvalidEventError{Cause: err}
	}
	return buf.Bytes(), nil
}

// extractDetail returns the last "detail" member of the event. Falsy values (null, false, 0, "", [] and {})
// are normalised to an empty object.
func extractDetail(event []byte) json.RawMessage {
	var detail gjson.Result
	gjson.ParseBytes(event).ForEach(func(key, value gjson.Result) bool {
		if key.String() == "detail" {
			detail = value
		}
		return true
	})
	if !detail.Exists() || isFalsy(detail) {
		return models.EmptyDetail
	}
	return json.RawMessage(detail.Raw)
}

func isFalsy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return v.Float() == 0
	case gjson.String:
		return v.Str == ""
	case gjson.JSON:
		return v.Raw == "[]" || v.Raw == "{}"
	default:
		return false
	}
}

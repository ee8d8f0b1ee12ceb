package runtime_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/event-echo-app/internal/handler"
	"github.com/isometry/event-echo-app/internal/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEvent        = `{"detail":{"a":1},"source":"x"}`
	testExpectedBody = `{"received":true,"powered_by":"acme","detail":{"a":1}}`
)

func newTestRuntime(out *bytes.Buffer, opts ...runtime.Option) *runtime.Runtime {
	return runtime.NewRuntime(handler.NewEchoHandler(
		handler.WithOutput(out),
		handler.WithPoweredBy("acme")), opts...)
}

func TestLambdaForEvent(t *testing.T) {
	var out bytes.Buffer
	rt := newTestRuntime(&out)

	response, err := rt.LambdaForEvent(context.Background(), json.RawMessage(testEvent))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, testExpectedBody, response.Body)
	assert.Equal(t, "EVENT: "+testEvent+"\n", out.String())

	encoded, err := json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"statusCode":200,"body":`+string(mustMarshal(t, testExpectedBody))+`}`, string(encoded))
}

func TestLambdaForEventInvalid(t *testing.T) {
	rt := newTestRuntime(&bytes.Buffer{})

	_, err := rt.LambdaForEvent(context.Background(), json.RawMessage(`[1,2]`))
	assert.Error(t, err)
}

func TestLambda(t *testing.T) {
	testCases := []struct {
		Name           string
		PayloadType    string
		Request        any
		ExpectedStatus int
		ExpectedBody   string
		Decode         func(t *testing.T, v any) (int, string)
	}{
		{
			Name:        "api_gateway_v1",
			PayloadType: runtime.PayloadTypeAPIGatewayV1,
			Request:     events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: testEvent},
			Decode: func(t *testing.T, v any) (int, string) {
				r, ok := v.(events.APIGatewayProxyResponse)
				require.True(t, ok, "unexpected response type %T", v)
				return r.StatusCode, r.Body
			},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   testExpectedBody,
		},
		{
			Name:        "api_gateway_v2",
			PayloadType: runtime.PayloadTypeAPIGatewayV2,
			Request:     events.APIGatewayV2HTTPRequest{Body: testEvent},
			Decode: func(t *testing.T, v any) (int, string) {
				r, ok := v.(events.APIGatewayV2HTTPResponse)
				require.True(t, ok, "unexpected response type %T", v)
				return r.StatusCode, r.Body
			},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   testExpectedBody,
		},
		{
			Name:        "lambda_url_base64",
			PayloadType: runtime.PayloadTypeLambdaURL,
			Request: events.LambdaFunctionURLRequest{
				Body:            base64.StdEncoding.EncodeToString([]byte(testEvent)),
				IsBase64Encoded: true,
			},
			Decode: func(t *testing.T, v any) (int, string) {
				r, ok := v.(events.LambdaFunctionURLResponse)
				require.True(t, ok, "unexpected response type %T", v)
				return r.StatusCode, r.Body
			},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   testExpectedBody,
		},
		{
			Name:        "invalid_body",
			PayloadType: runtime.PayloadTypeAPIGatewayV2,
			Request:     events.APIGatewayV2HTTPRequest{Body: `not json`},
			Decode: func(t *testing.T, v any) (int, string) {
				r, ok := v.(events.APIGatewayV2HTTPResponse)
				require.True(t, ok, "unexpected response type %T", v)
				return r.StatusCode, r.Body
			},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   "invalid event: payload is not valid JSON",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			rt := newTestRuntime(&bytes.Buffer{}, runtime.WithLambdaPayloadType(tc.PayloadType))
			assert.Equal(t, tc.PayloadType, rt.PayloadType())

			response, err := rt.Lambda(context.Background(), mustMarshal(t, tc.Request))
			require.NoError(t, err)

			status, body := tc.Decode(t, response)
			assert.Equal(t, tc.ExpectedStatus, status)
			assert.Equal(t, tc.ExpectedBody, body)
		})
	}
}

func TestLambdaUnsupportedPayloadType(t *testing.T) {
	rt := newTestRuntime(&bytes.Buffer{}, runtime.WithLambdaPayloadType("sns"))

	_, err := rt.Lambda(context.Background(), json.RawMessage(`{}`))
	assert.ErrorContains(t, err, "unsupported lambda payload type: sns")
}

func TestNewRuntimeDefaults(t *testing.T) {
	rt := newTestRuntime(&bytes.Buffer{})
	assert.Equal(t, runtime.PayloadTypeAPIGatewayV2, rt.PayloadType())
}

func TestServeHTTP(t *testing.T) {
	testCases := []struct {
		Name           string
		Method         string
		Body           string
		ExpectedStatus int
		ExpectedBody   string
		ExpectedLines  int
	}{
		{
			Name:           "valid_event",
			Method:         http.MethodPost,
			Body:           testEvent,
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   testExpectedBody,
			ExpectedLines:  1,
		},
		{
			Name:           "empty_object",
			Method:         http.MethodPost,
			Body:           `{}`,
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   `{"received":true,"powered_by":"acme","detail":{}}`,
			ExpectedLines:  1,
		},
		{
			Name:           "invalid_event",
			Method:         http.MethodPost,
			Body:           `[]`,
			ExpectedStatus: http.StatusBadRequest,
			ExpectedBody:   `{"error":"invalid event: payload is not a JSON object"}`,
		},
		{
			Name:           "method_not_allowed",
			Method:         http.MethodGet,
			ExpectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			var out bytes.Buffer
			rt := newTestRuntime(&out)

			req := httptest.NewRequest(tc.Method, "/", strings.NewReader(tc.Body))
			rw := httptest.NewRecorder()
			rt.ServeHTTP(rw, req)

			assert.Equal(t, tc.ExpectedStatus, rw.Code)
			assert.Equal(t, tc.ExpectedBody, rw.Body.String())
			assert.Equal(t, tc.ExpectedLines, strings.Count(out.String(), "EVENT: "))
			if tc.ExpectedStatus != http.StatusMethodNotAllowed {
				assert.Equal(t, "application/json", rw.Header().Get("Content-Type"))
			}
		})
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

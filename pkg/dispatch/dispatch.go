// Package dispatch issues requests against the ledger HTTP API and converts
// every result, including failures, into an Outcome.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ipfs/go-log"
	"golang.org/x/time/rate"
)

var logger = log.Logger("dispatch")

// LoadingText is displayed while a request is in flight.
const LoadingText = "Carregando..."

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// Request describes a single call against the ledger API.
type Request struct {
	// Path with an optional query string, e.g. /search?q=abc.
	Endpoint string
	// One of GET, POST, PUT or DELETE.
	Method string
	// Serialized to JSON when not nil.
	Body interface{}
}

// Renderer receives the lifecycle of an asynchronous dispatch. Loading is
// called before the request is sent and returns a token identifying the
// dispatch; Render is called with the same token once the outcome is known.
type Renderer interface {
	Loading() uint64
	Render(token uint64, outcome Outcome)
}

// Dispatcher exposes a native API for calling the ledger HTTP API.
type Dispatcher struct {
	apiURL  string
	client  httpClient
	limiter *rate.Limiter
}

// NewDispatcher is a constructor for Dispatcher.
func NewDispatcher(config *Config) *Dispatcher {
	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}

	return &Dispatcher{
		apiURL:  strings.TrimRight(config.URL, "/"),
		client:  &http.Client{Timeout: config.Timeout.ToDuration()},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (d *Dispatcher) setClient(client httpClient) {
	d.client = client
}

// APIURL returns the base URL requests are resolved against.
func (d *Dispatcher) APIURL() string {
	return d.apiURL
}

// ValidMethod reports whether the dispatcher accepts the HTTP method.
func ValidMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// Dispatch signals loading to the renderer, sends the request on a separate
// goroutine and renders the outcome once it is known. The returned channel
// yields the outcome after it has been rendered and is then closed.
func (d *Dispatcher) Dispatch(
	ctx context.Context,
	request Request,
	renderer Renderer,
) <-chan Outcome {
	token := renderer.Loading()

	done := make(chan Outcome, 1)
	go func() {
		defer close(done)

		outcome := d.Do(ctx, request)
		renderer.Render(token, outcome)
		done <- outcome
	}()

	return done
}

// Do sends the request and waits for the outcome. It always completes with an
// Outcome; failures are reported through the outcome kind and never returned.
func (d *Dispatcher) Do(ctx context.Context, request Request) Outcome {
	if !ValidMethod(request.Method) {
		return d.failure(request, fmt.Errorf("unsupported method [%s]", request.Method))
	}

	var body io.Reader
	if request.Body != nil {
		encoded, err := json.Marshal(request.Body)
		if err != nil {
			return d.failure(
				request,
				fmt.Errorf("failed to encode request body: [%v]", err),
			)
		}
		body = bytes.NewReader(encoded)
	}

	httpRequest, err := http.NewRequestWithContext(
		ctx,
		request.Method,
		d.apiURL+request.Endpoint,
		body,
	)
	if err != nil {
		return d.failure(request, err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")

	if err := d.limiter.Wait(ctx); err != nil {
		return d.failure(request, err)
	}

	logger.Debugf("sending [%s %s]", request.Method, request.Endpoint)

	response, err := d.client.Do(httpRequest)
	if err != nil {
		return d.failure(request, err)
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return d.failure(
			request,
			fmt.Errorf("failed to read response body: [%v]", err),
		)
	}

	var document json.RawMessage
	if err := json.Unmarshal(payload, &document); err != nil {
		return d.failure(
			request,
			fmt.Errorf("failed to decode response body: [%v]", err),
		)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		logger.Warningf(
			"[%s %s] answered with status [%s]",
			request.Method,
			request.Endpoint,
			response.Status,
		)
		return Outcome{
			Kind:    BackendFailure,
			Status:  response.StatusCode,
			Payload: document,
		}
	}

	return Outcome{
		Kind:    Success,
		Status:  response.StatusCode,
		Payload: document,
	}
}

func (d *Dispatcher) failure(request Request, err error) Outcome {
	logger.Errorf(
		"request [%s %s] failed: [%v]",
		request.Method,
		request.Endpoint,
		err,
	)

	return Outcome{Kind: TransportFailure, Message: err.Error()}
}

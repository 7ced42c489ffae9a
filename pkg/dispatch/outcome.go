package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Indent is the indentation used when rendering JSON payloads.
const Indent = "    "

// Kind classifies the result of a single dispatch.
type Kind int

const (
	// Success means the backend answered with a 2xx status and a JSON body.
	Success Kind = iota
	// ValidationFailure means the input was rejected locally and no request
	// was sent.
	ValidationFailure
	// BackendFailure means the backend answered with a non-2xx status.
	BackendFailure
	// TransportFailure means the request could not be completed or the
	// response body was not valid JSON.
	TransportFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ValidationFailure:
		return "validation failure"
	case BackendFailure:
		return "backend failure"
	case TransportFailure:
		return "transport failure"
	default:
		return fmt.Sprintf("unknown kind [%d]", int(k))
	}
}

// Outcome is the result of one dispatch. It is never persisted; it only
// lives until it is rendered.
type Outcome struct {
	Kind Kind

	// HTTP status code, zero when no response was received.
	Status int

	// Response body, set for Success and BackendFailure.
	Payload json.RawMessage

	// Failure detail, set for ValidationFailure and TransportFailure.
	Message string
}

// Rejected builds the outcome of input rejected before any request was sent.
func Rejected(message string) Outcome {
	return Outcome{Kind: ValidationFailure, Message: message}
}

// Failed reports whether the outcome is anything other than a success.
func (o Outcome) Failed() bool {
	return o.Kind != Success
}

// Text renders the outcome as display text.
func (o Outcome) Text() string {
	switch o.Kind {
	case Success:
		return Pretty(o.Payload)
	case BackendFailure:
		return fmt.Sprintf("Erro %d: %s", o.Status, Pretty(o.Payload))
	case TransportFailure:
		return "Erro na requisição: " + o.Message
	default:
		return o.Message
	}
}

// Pretty indents a JSON document with four spaces, keeping object keys in
// the order they were received. String escapes such as \u00e9 or \u0026 are
// shown decoded. Input that is not valid JSON is returned unchanged.
func Pretty(payload []byte) string {
	decoded, err := decodeStrings(payload)
	if err != nil {
		return string(payload)
	}

	var buffer bytes.Buffer
	if err := json.Indent(&buffer, decoded, "", Indent); err != nil {
		return string(payload)
	}

	return buffer.String()
}

// decodeStrings rewrites the document token by token. Strings are encoded
// again without escaping non-ASCII or HTML characters; numbers keep their
// original literal.
func decodeStrings(payload []byte) ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)

	type container struct {
		object bool
		tokens int
	}
	var open []container

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if delim, ok := token.(json.Delim); ok && (delim == '}' || delim == ']') {
			open = open[:len(open)-1]
			buffer.WriteRune(rune(delim))
			continue
		}

		if len(open) > 0 {
			current := &open[len(open)-1]
			switch {
			case current.tokens == 0:
			case current.object && current.tokens%2 == 1:
				buffer.WriteByte(':')
			default:
				buffer.WriteByte(',')
			}
			current.tokens++
		}

		switch value := token.(type) {
		case json.Delim:
			buffer.WriteRune(rune(value))
			open = append(open, container{object: value == '{'})
		case string:
			if err := encoder.Encode(value); err != nil {
				return nil, err
			}
			// Encode terminates every value with a newline
			buffer.Truncate(buffer.Len() - 1)
		case json.Number:
			buffer.WriteString(value.String())
		case bool:
			buffer.WriteString(strconv.FormatBool(value))
		case nil:
			buffer.WriteString("null")
		}
	}

	return buffer.Bytes(), nil
}

package lsp

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"diffscope/internal/errors"
)

// message is a JSON-RPC 2.0 envelope. Requests carry an id, method and
// params; notifications omit the id; responses carry the id plus a
// result or error.
type message struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      *int64          `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  interface{}     `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// call sends a request and blocks until the response with the same id
// arrives. Interleaved server traffic carrying other ids (or none) is
// discarded. An error field in the correlated response is a
// PROTOCOL_FAILURE.
func (c *Client) call(method string, params interface{}) (json.RawMessage, error) {
	c.nextID++
	id := c.nextID

	req := message{Jsonrpc: "2.0", ID: &id, Method: method, Params: params}
	if err := c.writeMessage(&req); err != nil {
		return nil, err
	}

	for {
		msg, err := c.readMessage()
		if err != nil {
			return nil, err
		}
		if msg.ID == nil || *msg.ID != id {
			continue
		}
		if msg.Error != nil {
			return nil, errors.New(errors.ProtocolFailure, "server returned an error").
				WithDetails(map[string]interface{}{
					"method":  method,
					"code":    msg.Error.Code,
					"message": msg.Error.Message,
				})
		}
		return msg.Result, nil
	}
}

// notify sends a request without an id; no response is expected.
func (c *Client) notify(method string, params interface{}) error {
	return c.writeMessage(&message{Jsonrpc: "2.0", Method: method, Params: params})
}

// writeMessage frames one message as Content-Length header plus JSON
// body and writes it to the server's stdin.
func (c *Client) writeMessage(msg *message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(errors.ProtocolFailure, "cannot encode message", err)
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	if _, err := io.WriteString(c.stdin, header); err != nil {
		c.broken = true
		return errors.Wrap(errors.ProtocolFailure, "cannot write frame header", err)
	}
	if _, err := c.stdin.Write(body); err != nil {
		c.broken = true
		return errors.Wrap(errors.ProtocolFailure, "cannot write frame body", err)
	}
	return nil
}

// readMessage reads one framed message: header lines up to the first
// blank line, then exactly Content-Length bytes of JSON. A frame
// without a Content-Length header fails immediately rather than
// blocking on an unknowable body length.
func (c *Client) readMessage() (*message, error) {
	contentLength := -1
	for {
		line, err := c.stdout.ReadString('\n')
		if err != nil {
			c.broken = true
			return nil, errors.Wrap(errors.ProtocolFailure, "server closed the connection", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			break
		}
		if value, ok := strings.CutPrefix(line, "Content-Length:"); ok {
			if n, convErr := strconv.Atoi(strings.TrimSpace(value)); convErr == nil {
				contentLength = n
			}
		}
	}

	if contentLength < 0 {
		c.broken = true
		return nil, errors.New(errors.ProtocolFailure, "frame missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(c.stdout, body); err != nil {
		c.broken = true
		return nil, errors.Wrap(errors.ProtocolFailure, "truncated frame body", err)
	}

	var msg message
	if err := json.Unmarshal(body, &msg); err != nil {
		c.broken = true
		return nil, errors.Wrap(errors.ProtocolFailure, "malformed frame body", err)
	}
	return &msg, nil
}

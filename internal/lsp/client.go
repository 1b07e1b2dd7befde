// Package lsp is a minimal synchronous Language Server Protocol
// client: one spawned server process, one pipe pair, one in-flight
// request at a time. It speaks only the subset needed for symbol
// indexing: initialize/initialized, textDocument/didOpen,
// textDocument/documentSymbol, and the shutdown/exit teardown.
package lsp

import (
	"bufio"
	"io"
	"os"
	"os/exec"

	"github.com/google/shlex"

	"diffscope/internal/errors"
	"diffscope/internal/logging"
	"diffscope/internal/paths"
)

// Client owns the server process and both pipe ends for its whole
// session. Close must run on every exit path so no server process is
// orphaned.
type Client struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	nextID int64
	logger *logging.Logger

	// broken is set once the stream failed; Close then skips the
	// shutdown request and goes straight to exit and kill.
	broken bool
	closed bool
}

// Spawn launches the server command, wires its stdio, and performs the
// initialize handshake. Launch problems carry SPAWN_FAILURE; handshake
// problems carry PROTOCOL_FAILURE with the process already torn down.
func Spawn(command, root string, logger *logging.Logger) (*Client, error) {
	parts, err := shlex.Split(command)
	if err != nil {
		return nil, errors.Wrap(errors.SpawnFailure, "unparsable server command", err).
			WithDetails(map[string]interface{}{"command": command})
	}
	if len(parts) == 0 {
		return nil, errors.New(errors.SpawnFailure, "empty server command")
	}

	rootURI, err := paths.FileURI(root)
	if err != nil {
		return nil, errors.Wrap(errors.SpawnFailure, "cannot resolve workspace root", err)
	}

	cmd := exec.Command(parts[0], parts[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, errors.Wrap(errors.SpawnFailure, "cannot open server stdin", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(errors.SpawnFailure, "cannot open server stdout", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(errors.SpawnFailure, "cannot start language server", err).
			WithDetails(map[string]interface{}{"command": command})
	}

	c := &Client{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		logger: logger,
	}
	c.logger.Debug("language server started", map[string]interface{}{
		"command": command,
		"pid":     cmd.Process.Pid,
	})

	initParams := map[string]interface{}{
		"processId": os.Getpid(),
		"rootUri":   rootURI,
		"capabilities": map[string]interface{}{
			"textDocument": map[string]interface{}{
				"documentSymbol": map[string]interface{}{
					"hierarchicalDocumentSymbolSupport": true,
				},
			},
		},
	}
	if _, err := c.call("initialize", initParams); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.notify("initialized", map[string]interface{}{}); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

// Symbol is a flattened definition reported by the server, with
// 1-based inclusive line numbers.
type Symbol struct {
	Name      string
	StartLine int
	EndLine   int
}

// DocumentSymbols opens one document on the server and returns its
// symbols, flattened from either response shape the protocol allows.
func (c *Client) DocumentSymbols(absPath, languageID, content string) ([]Symbol, error) {
	uri, err := paths.FileURI(absPath)
	if err != nil {
		return nil, errors.Wrap(errors.ProtocolFailure, "cannot build document URI", err)
	}

	err = c.notify("textDocument/didOpen", map[string]interface{}{
		"textDocument": map[string]interface{}{
			"uri":        uri,
			"languageId": languageID,
			"version":    1,
			"text":       content,
		},
	})
	if err != nil {
		return nil, err
	}

	result, err := c.call("textDocument/documentSymbol", map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": uri},
	})
	if err != nil {
		return nil, err
	}
	return flattenSymbols(result), nil
}

// Close runs the teardown sequence: best-effort shutdown request, exit
// notification, then kill. It is safe to call more than once and after
// protocol failures.
func (c *Client) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	if !c.broken {
		_, _ = c.call("shutdown", map[string]interface{}{})
	}
	_ = c.notify("exit", map[string]interface{}{})

	if c.stdin != nil {
		_ = c.stdin.Close()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
		_ = c.cmd.Wait()
	}
	c.logger.Debug("language server stopped", nil)
	return nil
}

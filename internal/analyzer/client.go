package analyzer

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

// StopGrace is how long Stop waits for the subprocess to exit cleanly
// before sending SIGKILL.
var StopGrace = 5 * time.Second

// pendingRequest is a single-shot completion slot for one in-flight request.
type pendingRequest struct {
	command string
	done    chan requestResult
	cancel  <-chan struct{}
}

type requestResult struct {
	body json.RawMessage
	err  error
}

// ErrCancelled is returned from Request when its cancel channel fires
// before a response arrives. The analyzer keeps working; its eventual
// response, if any, is discarded.
var ErrCancelled = errors.New("analyzer: request cancelled")

// ErrClosed is returned from Request/Notify once the client has
// transitioned to the dead state (transport failure or subprocess exit).
var ErrClosed = errors.New("analyzer: client closed")

// EventHandler is invoked for every {type: "event"} message. It runs on
// the reader goroutine and must not block indefinitely — callers should
// hand off to a queue.
type EventHandler func(Event)

// OnFatal is invoked once, at most, when the transport fails or the
// subprocess exits unexpectedly. It is the client's only channel for
// reporting category-4 errors (§7) upward.
type OnFatal func(error)

// Client is a request/response multiplexer over a tsserver-style child
// process speaking line-delimited JSON outbound and Content-Length-framed
// JSON inbound.
type Client struct {
	log commonlog.Logger

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader

	onEvent EventHandler
	onFatal OnFatal

	seq int64 // atomic

	mu      sync.Mutex
	pending map[int64]*pendingRequest
	closed  bool

	writeMu sync.Mutex

	readerDone chan struct{}
}

// New constructs a Client around cmd, which must not yet be started.
// onEvent is invoked for every analyzer event; onFatal is invoked once if
// the transport or subprocess fails.
func New(log commonlog.Logger, cmd *exec.Cmd, onEvent EventHandler, onFatal OnFatal) *Client {
	return &Client{
		log:        log,
		cmd:        cmd,
		onEvent:    onEvent,
		onFatal:    onFatal,
		pending:    make(map[int64]*pendingRequest),
		readerDone: make(chan struct{}),
	}
}

// Start spawns the subprocess, attaches stdio, and starts the reader
// goroutine. It does not send the initial "configure" request; the caller
// (the server core) does that once Start returns, since configure's
// arguments depend on server-level state (the workspace root).
func (c *Client) Start() error {
	stdin, err := c.cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, "analyzer: stdin pipe")
	}
	stdout, err := c.cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "analyzer: stdout pipe")
	}
	if err := c.cmd.Start(); err != nil {
		return errors.Wrap(err, "analyzer: start subprocess")
	}

	c.stdin = stdin
	c.stdout = bufio.NewReader(stdout)

	go c.readLoop()
	return nil
}

// Request sends a command and blocks until a response arrives, cancel
// fires, or the transport fails. cancel may be nil.
func (c *Client) Request(ctx context.Context, command string, args any, cancel <-chan struct{}) (json.RawMessage, error) {
	argBytes, err := json.Marshal(args)
	if err != nil {
		return nil, errors.Wrapf(err, "analyzer: marshal arguments for %s", command)
	}

	seq := atomic.AddInt64(&c.seq, 1)
	pr := &pendingRequest{command: command, done: make(chan requestResult, 1), cancel: cancel}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	c.pending[seq] = pr
	c.mu.Unlock()

	msg := outgoingMessage{Seq: seq, Type: "request", Command: command, Arguments: argBytes}
	if err := c.write(msg); err != nil {
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
		return nil, err
	}

	select {
	case res := <-pr.done:
		return res.body, res.err
	case <-cancelChan(cancel):
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
		return nil, ErrCancelled
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, seq)
		c.mu.Unlock()
		return nil, ctx.Err()
	}
}

func cancelChan(c <-chan struct{}) <-chan struct{} {
	if c == nil {
		return nil
	}
	return c
}

// Notify sends a fire-and-forget command.
func (c *Client) Notify(command string, args any) error {
	argBytes, err := json.Marshal(args)
	if err != nil {
		return errors.Wrapf(err, "analyzer: marshal arguments for %s", command)
	}

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}

	seq := atomic.AddInt64(&c.seq, 1)
	return c.write(outgoingMessage{Seq: seq, Type: "request", Command: command, Arguments: argBytes})
}

func (c *Client) write(msg outgoingMessage) error {
	line, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "analyzer: marshal outgoing message")
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if _, err := c.stdin.Write(append(line, '\n')); err != nil {
		return errors.Wrap(err, "analyzer: write to subprocess")
	}
	return nil
}

// readLoop parses Content-Length-framed JSON messages from stdout and
// routes them: responses complete their pending request, events go to
// onEvent. A read error or EOF is fatal: all pending requests fail and
// onFatal runs once.
func (c *Client) readLoop() {
	defer close(c.readerDone)

	for {
		body, err := readFramedMessage(c.stdout)
		if err != nil {
			c.fail(errors.Wrap(err, "analyzer: transport read failed"))
			return
		}

		var env incomingEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			c.log.Warningf("analyzer: malformed message: %s", err)
			continue
		}

		switch env.Type {
		case "response":
			var resp incomingResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				c.log.Warningf("analyzer: malformed response: %s", err)
				continue
			}
			c.completeResponse(resp)
		case "event":
			var ev incomingEvent
			if err := json.Unmarshal(body, &ev); err != nil {
				c.log.Warningf("analyzer: malformed event: %s", err)
				continue
			}
			if c.onEvent != nil {
				c.onEvent(Event{Name: ev.Event, Body: ev.Body})
			}
		default:
			c.log.Debugf("analyzer: ignoring message of unknown type %q", env.Type)
		}
	}
}

func (c *Client) completeResponse(resp incomingResponse) {
	c.mu.Lock()
	pr, ok := c.pending[resp.RequestSeq]
	if ok {
		delete(c.pending, resp.RequestSeq)
	}
	c.mu.Unlock()

	if !ok {
		return
	}

	if resp.Success {
		pr.done <- requestResult{body: resp.Body}
	} else {
		pr.done <- requestResult{err: errors.Errorf("analyzer: %s failed: %s", pr.command, resp.Message)}
	}
}

// fail drains all pending requests with err and invokes onFatal once.
func (c *Client) fail(err error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	pending := c.pending
	c.pending = make(map[int64]*pendingRequest)
	c.mu.Unlock()

	for _, pr := range pending {
		pr.done <- requestResult{err: err}
	}

	if c.onFatal != nil {
		c.onFatal(err)
	}
}

// Stop sends a close notification for every file in openURIs, then shuts
// the transport down: it signals the subprocess to exit, force-kills it
// after StopGrace if it has not, and fails all pending requests.
func (c *Client) Stop(openURIs []string) error {
	for _, uri := range openURIs {
		_ = c.Notify("close", map[string]string{"file": uri})
	}

	c.mu.Lock()
	already := c.closed
	c.mu.Unlock()
	if !already {
		c.fail(ErrClosed)
	}

	if c.stdin != nil {
		_ = c.stdin.Close()
	}

	done := make(chan error, 1)
	go func() { done <- c.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(StopGrace):
		if c.cmd.Process != nil {
			_ = c.cmd.Process.Kill()
		}
		<-done
	}

	return nil
}

// readFramedMessage reads one Content-Length-framed message: a header
// block terminated by a blank line, followed by exactly the announced
// number of bytes of JSON body.
func readFramedMessage(r *bufio.Reader) ([]byte, error) {
	contentLength := -1

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(strings.ToLower(line), "content-length:") {
			v := strings.TrimSpace(line[len("content-length:"):])
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, errors.Wrapf(err, "analyzer: bad Content-Length header %q", line)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, fmt.Errorf("analyzer: message missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}
	return body, nil
}

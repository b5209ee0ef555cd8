package analyzer

import (
	"bufio"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(body string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func TestReadFramedMessage(t *testing.T) {
	body := `{"type":"response","request_seq":1,"success":true,"command":"open","body":{}}`
	r := bufio.NewReader(strings.NewReader(frame(body)))

	got, err := readFramedMessage(r)
	require.NoError(t, err)
	assert.Equal(t, body, string(got))
}

func TestReadFramedMessageSequence(t *testing.T) {
	first := `{"type":"event","event":"semanticDiag","body":{}}`
	second := `{"type":"response","request_seq":2,"success":true,"command":"quickinfo","body":{}}`
	r := bufio.NewReader(strings.NewReader(frame(first) + frame(second)))

	got1, err := readFramedMessage(r)
	require.NoError(t, err)
	assert.Equal(t, first, string(got1))

	got2, err := readFramedMessage(r)
	require.NoError(t, err)
	assert.Equal(t, second, string(got2))
}

func TestReadFramedMessageMissingContentLength(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("\r\n{}"))
	_, err := readFramedMessage(r)
	assert.Error(t, err)
}

func TestCompleteResponseSuccess(t *testing.T) {
	c := &Client{pending: make(map[int64]*pendingRequest)}
	pr := &pendingRequest{command: "quickinfo", done: make(chan requestResult, 1)}
	c.pending[7] = pr

	c.completeResponse(incomingResponse{RequestSeq: 7, Success: true, Body: []byte(`{"kind":"var"}`)})

	res := <-pr.done
	require.NoError(t, res.err)
	assert.JSONEq(t, `{"kind":"var"}`, string(res.body))
}

func TestCompleteResponseFailure(t *testing.T) {
	c := &Client{pending: make(map[int64]*pendingRequest)}
	pr := &pendingRequest{command: "rename", done: make(chan requestResult, 1)}
	c.pending[3] = pr

	c.completeResponse(incomingResponse{RequestSeq: 3, Success: false, Message: "no rename information"})

	res := <-pr.done
	assert.ErrorContains(t, res.err, "no rename information")
}

func TestFailDrainsPendingOnce(t *testing.T) {
	c := &Client{pending: make(map[int64]*pendingRequest)}
	pr := &pendingRequest{command: "open", done: make(chan requestResult, 1)}
	c.pending[1] = pr

	fatalCalls := 0
	c.onFatal = func(err error) { fatalCalls++ }

	c.fail(assert.AnError)
	c.fail(assert.AnError) // second call must be a no-op

	res := <-pr.done
	assert.ErrorIs(t, res.err, assert.AnError)
	assert.Equal(t, 1, fatalCalls)
	assert.True(t, c.closed)
}

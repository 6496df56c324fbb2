package spinner

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a bytes.Buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStart_NonTerminalIsSilent(t *testing.T) {
	var buf syncBuffer
	stop := Start(&buf, "Rendering charts")
	time.Sleep(3 * Interval)
	stop()
	assert.Empty(t, buf.String())
	assert.False(t, IsTerminal(&buf))
}

func TestRun_DrawsAndClears(t *testing.T) {
	var buf syncBuffer
	stop := run(&buf, "Rendering charts", time.Millisecond)
	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "Rendering charts")
	}, time.Second, time.Millisecond)
	stop()

	out := buf.String()
	assert.Contains(t, out, frames[0]+" Rendering charts")
	assert.True(t, strings.HasSuffix(out, "\r"+strings.Repeat(" ", len("Rendering charts")+2)+"\r"))
}

func TestRun_StopIsIdempotent(t *testing.T) {
	var buf syncBuffer
	stop := run(&buf, "x", time.Millisecond)
	stop()
	stop()
}

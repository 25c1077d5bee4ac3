package profiler

import (
	"bytes"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfiler_Mark(t *testing.T) {
	var buf bytes.Buffer
	p := NewProfiler(log.New(&buf, "", 0))

	time.Sleep(time.Millisecond)
	d := p.Mark("load")
	assert.GreaterOrEqual(t, d, time.Millisecond)
	assert.Contains(t, buf.String(), "[Profiler] load: ")
	assert.Contains(t, buf.String(), "| Heap: ")

	buf.Reset()
	p.Mark("resolve")
	assert.Contains(t, buf.String(), "[Profiler] resolve: ")
	assert.GreaterOrEqual(t, p.Total(), d)
}

func TestNewProfiler_NilLogger(t *testing.T) {
	p := NewProfiler(nil)
	assert.NotNil(t, p.logger)
}

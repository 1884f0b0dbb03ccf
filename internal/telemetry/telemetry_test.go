package telemetry

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWarn_IncludesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Warn("capture", "A.java", "java", errors.New("anonymous struct without a name"))

	out := buf.String()
	assert.Contains(t, out, `"component":"capture"`)
	assert.Contains(t, out, `"file":"A.java"`)
	assert.Contains(t, out, `"language":"java"`)
	assert.Contains(t, out, "anonymous struct without a name")
}

func TestConfigure_InvalidLevelFallsBackToInfo(t *testing.T) {
	Configure("not-a-level")
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Warn("test", "", "", errors.New("x"))
	assert.Contains(t, buf.String(), "warn")
}

func TestError_LogsComponentAndErr(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Error("stateio", errors.New("corrupt file"))
	out := buf.String()
	assert.Contains(t, out, `"component":"stateio"`)
	assert.Contains(t, out, "corrupt file")
}

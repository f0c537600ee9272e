package output_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
	"github.com/richyo-codes/pulse-scan-cpp/internal/output"
)

func TestPortResult_TextMarksChanges(t *testing.T) {
	var buf bytes.Buffer
	rec := model.ScanRecord{Host: "h", Addr: "1.2.3.4", Result: model.ScanResult{Port: 80, State: model.StateOpen, Detail: ""}}

	output.PortResult(&buf, rec, nil, true, model.ModeTCPConnect, model.OutputText)
	assert.Contains(t, buf.String(), "CHANGE h 1.2.3.4:80 -> open ()")
}

func TestPortResult_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	rec := model.ScanRecord{Host: "h", Addr: "1.2.3.4", Result: model.ScanResult{Port: 80, State: model.StateOpen, Detail: "d"}}

	output.PortResult(&buf, rec, nil, false, model.ModeTCPConnect, model.OutputJSON)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "result", decoded["event"])
	assert.Equal(t, "h", decoded["host"])
	assert.Equal(t, float64(80), decoded["port"])
	assert.Equal(t, "open", decoded["state"])
}

func TestUnavailable_ParsesPortKeyIntoFields(t *testing.T) {
	var buf bytes.Buffer
	key := model.PortKey("h", "1.2.3.4", 80)

	output.Unavailable(&buf, key, true, "connect", model.OutputJSON)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "unavailable", decoded["event"])
	assert.Equal(t, "h", decoded["host"])
	assert.Equal(t, "1.2.3.4", decoded["address"])
	assert.Equal(t, float64(80), decoded["port"])
	assert.Nil(t, decoded["key"])
}

func TestUnavailable_FallsBackToRawKeyForICMP(t *testing.T) {
	var buf bytes.Buffer
	key := model.ICMPKey("h", "1.2.3.4")

	output.Unavailable(&buf, key, false, "icmp", model.OutputJSON)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "h|1.2.3.4", decoded["key"])
	assert.Nil(t, decoded["host"])
	assert.Nil(t, decoded["port"])
}

func TestUnavailable_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	key := model.ICMPKey("h", "1.2.3.4")

	output.Unavailable(&buf, key, true, "icmp", model.OutputText)
	assert.Equal(t, "CHANGE h|1.2.3.4 -> unavailable (no longer resolved)\n", buf.String())
}

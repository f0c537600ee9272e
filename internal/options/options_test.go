package options_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
	"github.com/richyo-codes/pulse-scan-cpp/internal/options"
)

func validOpts() *model.ScanOptions {
	return &model.ScanOptions{
		Ports:     []int{80},
		ICMPCount: 1,
		Mode:      model.ModeTCPConnect,
	}
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, options.Validate(validOpts()))
}

func TestValidate_RejectsIPv4AndIPv6Together(t *testing.T) {
	o := validOpts()
	o.IPv4Only = true
	o.IPv6Only = true
	assert.Error(t, options.Validate(o))
}

func TestValidate_RejectsZeroICMPCount(t *testing.T) {
	o := validOpts()
	o.ICMPCount = 0
	assert.Error(t, options.Validate(o))
}

func TestValidate_RejectsICMPPingWithPorts(t *testing.T) {
	o := validOpts()
	o.ICMPPing = true
	assert.Error(t, options.Validate(o))
}

func TestValidate_RejectsICMPPingWithNonDefaultMode(t *testing.T) {
	o := validOpts()
	o.ICMPPing = true
	o.Ports = nil
	o.Mode = model.ModeUDP
	assert.Error(t, options.Validate(o))
}

func TestValidate_AcceptsICMPPingWithNoPortsAndDefaultMode(t *testing.T) {
	o := validOpts()
	o.ICMPPing = true
	o.Ports = nil
	assert.NoError(t, options.Validate(o))
}

func TestValidateConfig_IgnoresNonValidatorTypes(t *testing.T) {
	assert.NoError(t, options.ValidateConfig("not a validator"))
}

func TestValidateConfig_CallsValidatorImplementation(t *testing.T) {
	o := validOpts()
	o.IPv4Only = true
	o.IPv6Only = true
	assert.Error(t, options.ValidateConfig(o))
}

//go:build linux

package sandbox

import (
	"fmt"
	"syscall"
	"unsafe"
)

// Linux syscall numbers and access bits for Landlock (x86_64 and arm64
// share these numbers on current kernels), invoked directly through the
// standard syscall package as in the Landlock sandbox this package is
// grounded on.
const (
	sysLandlockCreateRuleset  = 444
	sysLandlockAddRule        = 445
	sysLandlockRestrictSelf   = 446
	landlockRuleTypePathBeneath = 1
	landlockAccessFSReadFile  = 1 << 2
	landlockAccessFSReadDir   = 1 << 3
	prSetNoNewPrivs           = 38
	oPath                     = 0x200000 // O_PATH; the syscall package does not define it
)

type rulesetAttr struct {
	handledAccessFS uint64
}

type pathBeneathAttr struct {
	allowedAccess uint64
	parentFD      int32
}

// Apply restricts filesystem access to DNS-resolution paths using
// Landlock, following the same allow-list as the original tool's
// Landlock sandbox: /etc (and its resolver config files) and the
// systemd-resolved runtime directory.
func Apply(hosts []string) Result {
	ruleset := rulesetAttr{handledAccessFS: landlockAccessFSReadFile | landlockAccessFSReadDir}

	fd, _, errno := syscall.Syscall(sysLandlockCreateRuleset, uintptr(unsafe.Pointer(&ruleset)), unsafe.Sizeof(ruleset), 0)
	if errno != 0 {
		if errno == syscall.ENOSYS {
			return Result{Status: Skipped, Message: "Landlock not supported by kernel"}
		}
		return Result{Status: Failed, Message: fmt.Sprintf("Landlock create_ruleset failed: %v", errno)}
	}
	ruleFD := int(fd)
	defer syscall.Close(ruleFD)

	for _, rule := range []struct {
		path   string
		access uint64
	}{
		{"/etc", landlockAccessFSReadDir},
		{"/etc/resolv.conf", landlockAccessFSReadFile},
		{"/etc/hosts", landlockAccessFSReadFile},
		{"/etc/nsswitch.conf", landlockAccessFSReadFile},
		{"/run", landlockAccessFSReadDir},
		{"/run/systemd", landlockAccessFSReadDir},
		{"/run/systemd/resolve", landlockAccessFSReadDir},
		{"/run/systemd/resolve/stub-resolv.conf", landlockAccessFSReadFile},
		{"/run/systemd/resolve/resolv.conf", landlockAccessFSReadFile},
	} {
		addPathRule(ruleFD, rule.path, rule.access)
	}

	if _, _, errno := syscall.Syscall6(syscall.SYS_PRCTL, prSetNoNewPrivs, 1, 0, 0, 0, 0); errno != 0 {
		return Result{Status: Failed, Message: fmt.Sprintf("Landlock failed to set no_new_privs: %v", errno)}
	}

	if _, _, errno := syscall.Syscall(sysLandlockRestrictSelf, uintptr(ruleFD), 0, 0); errno != 0 {
		return Result{Status: Failed, Message: fmt.Sprintf("Landlock restrict_self failed: %v", errno)}
	}

	return Result{Status: Applied, Message: "Landlock sandbox enabled"}
}

func addPathRule(rulesetFD int, path string, access uint64) {
	fd, err := syscall.Open(path, oPath|syscall.O_CLOEXEC, 0)
	if err != nil {
		return
	}
	defer syscall.Close(fd)

	attr := pathBeneathAttr{allowedAccess: access, parentFD: int32(fd)}
	syscall.Syscall6(sysLandlockAddRule, uintptr(rulesetFD), landlockRuleTypePathBeneath,
		uintptr(unsafe.Pointer(&attr)), 0, 0, 0)
}

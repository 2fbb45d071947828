package tpm2

import (
	"fmt"
)

const (
	TPMRCSuccess TPMRC = 0x00000000

	rcVer1 TPMRC = 0x00000100
	rcFmt1 TPMRC = 0x00000080
	rcWarn TPMRC = 0x00000900
	rcP    TPMRC = 0x00000040
	rcS    TPMRC = 0x00000800
)

// 6.6.3
const (
	TPMRCInitialize      TPMRC = rcVer1 + 0x000
	TPMRCFailure         TPMRC = rcVer1 + 0x001
	TPMRCSequence        TPMRC = rcVer1 + 0x003
	TPMRCDisabled        TPMRC = rcVer1 + 0x020
	TPMRCAuthMissing     TPMRC = rcVer1 + 0x025
	TPMRCPolicy          TPMRC = rcVer1 + 0x026
	TPMRCCommandSize     TPMRC = rcVer1 + 0x042
	TPMRCCommandCode     TPMRC = rcVer1 + 0x043
	TPMRCAuthSize        TPMRC = rcVer1 + 0x044
	TPMRCNVUninitialized TPMRC = rcVer1 + 0x04A
	TPMRCNVDefined       TPMRC = rcVer1 + 0x04C
	TPMRCNoResult        TPMRC = rcVer1 + 0x054

	TPMRCAsymmetric TPMRC = rcFmt1 + 0x001
	TPMRCAttributes TPMRC = rcFmt1 + 0x002
	TPMRCHash       TPMRC = rcFmt1 + 0x003
	TPMRCValue      TPMRC = rcFmt1 + 0x004
	TPMRCHierarchy  TPMRC = rcFmt1 + 0x005
	TPMRCKeySize    TPMRC = rcFmt1 + 0x007
	TPMRCMode       TPMRC = rcFmt1 + 0x009
	TPMRCType       TPMRC = rcFmt1 + 0x00A
	TPMRCHandle     TPMRC = rcFmt1 + 0x00B
	TPMRCRange      TPMRC = rcFmt1 + 0x00D
	TPMRCAuthFail   TPMRC = rcFmt1 + 0x00E
	TPMRCScheme     TPMRC = rcFmt1 + 0x012
	TPMRCSize       TPMRC = rcFmt1 + 0x015
	TPMRCSymmetric  TPMRC = rcFmt1 + 0x016
	TPMRCTag        TPMRC = rcFmt1 + 0x017
	TPMRCSelector   TPMRC = rcFmt1 + 0x018
	TPMRCBadAuth    TPMRC = rcFmt1 + 0x022
	TPMRCCurve      TPMRC = rcFmt1 + 0x026

	TPMRCContextGap   TPMRC = rcWarn + 0x001
	TPMRCObjectMemory TPMRC = rcWarn + 0x002
	TPMRCYielded      TPMRC = rcWarn + 0x008
	TPMRCCanceled     TPMRC = rcWarn + 0x009
	TPMRCTesting      TPMRC = rcWarn + 0x00A
	TPMRCLockout      TPMRC = rcWarn + 0x021
	TPMRCRetry        TPMRC = rcWarn + 0x022
)

var rcNames = map[TPMRC]string{
	TPMRCInitialize:      "INITIALIZE",
	TPMRCFailure:         "FAILURE",
	TPMRCSequence:        "SEQUENCE",
	TPMRCDisabled:        "DISABLED",
	TPMRCAuthMissing:     "AUTH_MISSING",
	TPMRCPolicy:          "POLICY",
	TPMRCCommandSize:     "COMMAND_SIZE",
	TPMRCCommandCode:     "COMMAND_CODE",
	TPMRCAuthSize:        "AUTHSIZE",
	TPMRCNVUninitialized: "NV_UNINITIALIZED",
	TPMRCNVDefined:       "NV_DEFINED",
	TPMRCNoResult:        "NO_RESULT",
	TPMRCAsymmetric:      "ASYMMETRIC",
	TPMRCAttributes:      "ATTRIBUTES",
	TPMRCHash:            "HASH",
	TPMRCValue:           "VALUE",
	TPMRCHierarchy:       "HIERARCHY",
	TPMRCKeySize:         "KEY_SIZE",
	TPMRCMode:            "MODE",
	TPMRCType:            "TYPE",
	TPMRCHandle:          "HANDLE",
	TPMRCRange:           "RANGE",
	TPMRCAuthFail:        "AUTH_FAIL",
	TPMRCScheme:          "SCHEME",
	TPMRCSize:            "SIZE",
	TPMRCSymmetric:       "SYMMETRIC",
	TPMRCTag:             "TAG",
	TPMRCSelector:        "SELECTOR",
	TPMRCBadAuth:         "BAD_AUTH",
	TPMRCCurve:           "CURVE",
	TPMRCContextGap:      "CONTEXT_GAP",
	TPMRCObjectMemory:    "OBJECT_MEMORY",
	TPMRCYielded:         "YIELDED",
	TPMRCCanceled:        "CANCELED",
	TPMRCTesting:         "TESTING",
	TPMRCLockout:         "LOCKOUT",
	TPMRCRetry:           "RETRY",
}

// IsWarning reports whether r is a format-zero warning.
func (r TPMRC) IsWarning() bool {
	return r&rcFmt1 == 0 && r&rcVer1 != 0 && r&rcWarn == rcWarn
}

// Base strips the parameter, handle and session number from a format-one
// code.
func (r TPMRC) Base() TPMRC {
	if r&rcFmt1 != 0 {
		return r & (rcFmt1 | 0x3f)
	}
	return r
}

func (r TPMRC) Error() string {
	base := r.Base()
	name, ok := rcNames[base]
	if !ok {
		return fmt.Sprintf("TPM error code: 0x%08x", uint32(r))
	}
	msg := "TPM_RC_" + name
	if r&rcFmt1 == 0 {
		return msg
	}
	n := (uint32(r) >> 8) & 0xf
	switch {
	case r&rcP != 0:
		return fmt.Sprintf("%s (parameter %d)", msg, n)
	case r&rcS != 0:
		return fmt.Sprintf("%s (session %d)", msg, n&0x7)
	case n != 0:
		return fmt.Sprintf("%s (handle %d)", msg, n)
	}
	return msg
}

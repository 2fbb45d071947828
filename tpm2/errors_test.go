package tpm2

import "testing"

func TestTPMRCError(t *testing.T) {
	tests := []struct {
		rc   TPMRC
		want string
	}{
		{TPMRCInitialize, "TPM_RC_INITIALIZE"},
		{TPMRCCommandCode, "TPM_RC_COMMAND_CODE"},
		{TPMRCValue, "TPM_RC_VALUE"},
		{0x1c4, "TPM_RC_VALUE (parameter 1)"},
		{0x2d5, "TPM_RC_SIZE (parameter 2)"},
		{0x98e, "TPM_RC_AUTH_FAIL (session 1)"},
		{0x18b, "TPM_RC_HANDLE (handle 1)"},
		{TPMRCRetry, "TPM_RC_RETRY"},
		{0x7ff, "TPM error code: 0x000007ff"},
	}
	for _, tc := range tests {
		if got := tc.rc.Error(); got != tc.want {
			t.Errorf("TPMRC(%#x).Error() = %q, want %q", uint32(tc.rc), got, tc.want)
		}
	}
	if !TPMRCRetry.IsWarning() || TPMRCValue.IsWarning() || TPMRCInitialize.IsWarning() {
		t.Errorf("IsWarning() misclassifies codes")
	}
}

package tpm2

import (
	"fmt"

	"github.com/chrisfenner/tpmwire/mu"
)

// PasswordAuth returns the authorization area entry of a password session
// with the given auth value.
func PasswordAuth(auth []byte) *mu.StructValue {
	return mu.NewStruct(TPMSAuthCommand,
		uint32(TPMRSPW),
		mu.NewSeq(TPM2BNonce),
		uint8(0),
		mu.Bytes(TPM2BAuth, auth),
	)
}

// ValidatePasswordResponse checks the response authorization a TPM returns
// for a password session: no nonce, no HMAC, and only continueSession set.
func ValidatePasswordResponse(auth *mu.StructValue) error {
	if auth.Type != TPMSAuthResponse {
		return fmt.Errorf("expected %s, got %s", TPMSAuthResponse.TypeName, auth.Type.TypeName)
	}
	nonce, err := bufferField(auth, "nonce")
	if err != nil {
		return err
	}
	if len(nonce) != 0 {
		return fmt.Errorf("expected empty nonce in response auth to PW session, got %x", nonce)
	}
	attrs, _ := auth.Field("sessionAttributes")
	if attrs != SessionContinue {
		return fmt.Errorf("expected only continueSession in response auth to PW session, got %v", attrs)
	}
	hmac, err := bufferField(auth, "hmac")
	if err != nil {
		return err
	}
	if len(hmac) != 0 {
		return fmt.Errorf("expected empty HMAC in response auth to PW session, got %x", hmac)
	}
	return nil
}

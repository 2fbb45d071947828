package tpm2

import (
	"sort"

	"github.com/chrisfenner/tpmwire/mu"
)

var registry = map[string]mu.Type{}

func register(ts ...mu.Type) {
	for _, t := range ts {
		registry[t.Name()] = t
	}
}

func init() {
	register(
		CommandHeader, ResponseHeader,
		TPM2BDigest, TPM2BData, TPM2BNonce, TPM2BAuth, TPM2BName, TPM2BPrivate,
		TPM2BMaxBuffer, TPM2BMaxNVBuffer, TPM2BSensitiveData, TPM2BPublicKeyRSA,
		TPM2BECCParameter, TPM2BEncryptedSecret,
		TPMSPCRSelection, TPMLPCRSelection, TPMLDigest, TPMLCC, TPMLCCA, TPMLHandle,
		TPMLECCCurve, TPMLAlgProperty, TPMLTaggedTPMProperty,
		TPMTTKCreation, TPMSCapabilityData,
		TPMSClockInfo, TPMSTimeInfo, TPMSAttest, TPM2BAttest,
		TPMSAuthCommand, TPMSAuthResponse,
		TPMTSymDefObject, TPMSSensitiveCreate, TPM2BSensitiveCreate,
		TPMTKeyedHashScheme, TPMTKDFScheme, TPMTRSAScheme, TPMTECCScheme,
		TPMSECCPoint, TPM2BECCPoint,
		TPMSRSAParms, TPMSECCParms, TPMTPublic, TPM2BPublic,
		TPMSCreationData, TPM2BCreationData,
		TPMTSigScheme, TPMTSignature,
	)
	for _, spec := range commands {
		register(spec.Params, spec.Response)
	}
}

// Lookup returns the catalog type with the given TPM name, such as
// "TPM2B_PUBLIC" or "TPM2_GetRandom_Out".
func Lookup(name string) (mu.Type, bool) {
	t, ok := registry[name]
	return t, ok
}

// TypeNames lists the catalog in sorted order.
func TypeNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

package tpm2

import "github.com/chrisfenner/tpmwire/mu"

// srkAttributes are the object attributes the provisioning guidance gives
// storage root keys.
const srkAttributes = AttrFixedTPM | AttrFixedParent | AttrSensitiveDataOrigin |
	AttrUserWithAuth | AttrNoDA | AttrRestricted | AttrDecrypt

// AES128CFB returns the symmetric definition parent keys use.
func AES128CFB() *mu.StructValue {
	a := uint64(TPMAlgAES)
	return mu.NewStruct(TPMTSymDefObject,
		uint16(TPMAlgAES),
		mu.NewUnion(TPMUSymKeyBits, a, uint16(128)),
		mu.NewUnion(TPMUSymMode, a, uint16(TPMAlgCFB)),
		mu.NewUnion(TPMUSymDetails, a, nil),
	)
}

// NullSymmetric returns a TPM_ALG_NULL symmetric definition.
func NullSymmetric() *mu.StructValue {
	n := uint64(TPMAlgNull)
	return mu.NewStruct(TPMTSymDefObject,
		uint16(TPMAlgNull),
		mu.NewUnion(TPMUSymKeyBits, n, nil),
		mu.NewUnion(TPMUSymMode, n, nil),
		mu.NewUnion(TPMUSymDetails, n, nil),
	)
}

// RSASRKTemplate returns the public area of the RSA 2048 storage root key
// from the TCG provisioning guidance:
// https://trustedcomputinggroup.org/wp-content/uploads/TCG-TPM-v2.0-Provisioning-Guidance-Published-v1r1.pdf
func RSASRKTemplate() *mu.StructValue {
	parms := mu.NewStruct(TPMSRSAParms,
		AES128CFB(),
		mu.NewStruct(TPMTRSAScheme, uint16(TPMAlgNull), mu.NewUnion(TPMUAsymScheme, uint64(TPMAlgNull), nil)),
		uint16(2048),
		uint32(0),
	)
	return mu.NewStruct(TPMTPublic,
		uint16(TPMAlgRSA),
		uint16(TPMAlgSHA256),
		srkAttributes,
		mu.NewSeq(TPM2BDigest),
		mu.NewUnion(TPMUPublicParms, uint64(TPMAlgRSA), parms),
		mu.NewUnion(TPMUPublicID, uint64(TPMAlgRSA), mu.Bytes(TPM2BPublicKeyRSA, make([]byte, 256))),
	)
}

// ECCSRKTemplate returns the public area of the NIST P-256 storage root
// key from the same guidance.
func ECCSRKTemplate() *mu.StructValue {
	parms := mu.NewStruct(TPMSECCParms,
		AES128CFB(),
		mu.NewStruct(TPMTECCScheme, uint16(TPMAlgNull), mu.NewUnion(TPMUAsymScheme, uint64(TPMAlgNull), nil)),
		uint16(TPMECCNistP256),
		mu.NewStruct(TPMTKDFScheme, uint16(TPMAlgNull), mu.NewUnion(TPMUKDFScheme, uint64(TPMAlgNull), nil)),
	)
	point := mu.NewStruct(TPMSECCPoint,
		mu.Bytes(TPM2BECCParameter, make([]byte, 32)),
		mu.Bytes(TPM2BECCParameter, make([]byte, 32)),
	)
	return mu.NewStruct(TPMTPublic,
		uint16(TPMAlgECC),
		uint16(TPMAlgSHA256),
		srkAttributes,
		mu.NewSeq(TPM2BDigest),
		mu.NewUnion(TPMUPublicParms, uint64(TPMAlgECC), parms),
		mu.NewUnion(TPMUPublicID, uint64(TPMAlgECC), point),
	)
}

// SealedDataTemplate returns a keyed-hash public area for sealing data
// under a storage key.
func SealedDataTemplate(nameAlg TPMAlgID) *mu.StructValue {
	parms := mu.NewStruct(TPMSKeyedHashParms,
		mu.NewStruct(TPMTKeyedHashScheme, uint16(TPMAlgNull), mu.NewUnion(TPMUSchemeKeyedHash, uint64(TPMAlgNull), nil)),
	)
	return mu.NewStruct(TPMTPublic,
		uint16(TPMAlgKeyedHash),
		uint16(nameAlg),
		AttrFixedTPM|AttrFixedParent|AttrUserWithAuth|AttrNoDA,
		mu.NewSeq(TPM2BDigest),
		mu.NewUnion(TPMUPublicParms, uint64(TPMAlgKeyedHash), parms),
		mu.NewUnion(TPMUPublicID, uint64(TPMAlgKeyedHash), mu.NewSeq(TPM2BDigest)),
	)
}

// Templates names the built-in public area templates.
var Templates = map[string]func() *mu.StructValue{
	"rsa-srk": RSASRKTemplate,
	"ecc-srk": ECCSRKTemplate,
	"sealed":  func() *mu.StructValue { return SealedDataTemplate(TPMAlgSHA256) },
}

// PublicOf wraps a public area in a TPM2B_PUBLIC.
func PublicOf(area *mu.StructValue) *mu.SizedValue {
	return mu.NewSized(TPM2BPublic, area)
}

package tpm2

import "github.com/chrisfenner/tpmwire/mu"

func field(name string, t mu.Type) mu.Field { return mu.Field{Name: name, Type: t} }

func fieldBy(name string, t mu.Type, sel mu.Selector) mu.Field {
	return mu.Field{Name: name, Type: t, Selector: sel}
}

func alg(name string, a TPMAlgID, payload mu.Type) mu.Variant {
	return mu.Variant{Name: name, Selector: uint64(a), Payload: payload}
}

// algNull is the empty TPM_ALG_NULL arm most algorithm unions carry.
var algNull = alg("null", TPMAlgNull, nil)

func buffer(name string) *mu.SeqType { return mu.Seq(name, mu.U8) }

// list is a TPML: a u32 count followed by that many elements.
func list(name string, elem mu.Type, member string) *mu.StructType {
	return mu.Struct(name,
		field("count", mu.U32),
		field(member, mu.ExternalSeq(member, elem)),
	)
}

// Scalar types.
var (
	Generated         = mu.Alias("TPM_GENERATED", mu.U32)
	AlgID             = mu.Alias("TPM_ALG_ID", mu.U16)
	AlgHash           = mu.Alias("TPMI_ALG_HASH", mu.U16)
	AlgPublic         = mu.Alias("TPMI_ALG_PUBLIC", mu.U16)
	AlgSymObject      = mu.Alias("TPMI_ALG_SYM_OBJECT", mu.U16)
	AlgSymMode        = mu.Alias("TPMI_ALG_SYM_MODE", mu.U16)
	AlgKDF            = mu.Alias("TPMI_ALG_KDF", mu.U16)
	AlgRSAScheme      = mu.Alias("TPMI_ALG_RSA_SCHEME", mu.U16)
	AlgECCScheme      = mu.Alias("TPMI_ALG_ECC_SCHEME", mu.U16)
	AlgKeyedHashSch   = mu.Alias("TPMI_ALG_KEYEDHASH_SCHEME", mu.U16)
	ECCCurve          = mu.Alias("TPMI_ECC_CURVE", mu.U16)
	KeyBits           = mu.Alias("TPM_KEY_BITS", mu.U16)
	ST                = mu.Alias("TPM_ST", mu.U16)
	SU                = mu.Alias("TPM_SU", mu.U16)
	CC                = mu.Alias("TPM_CC", mu.U32)
	RC                = mu.Alias("TPM_RC", mu.U32)
	Cap               = mu.Alias("TPM_CAP", mu.U32)
	PT                = mu.Alias("TPM_PT", mu.U32)
	Handle            = mu.Alias("TPM_HANDLE", mu.U32)
	ObjectAttributes  = mu.Alias("TPMA_OBJECT", mu.U32)
	SessionAttributes = mu.Alias("TPMA_SESSION", mu.U8)
	Locality          = mu.Alias("TPMA_LOCALITY", mu.U8)
	AlgProperties     = mu.Alias("TPMA_ALGORITHM", mu.U32)
	CCAttributes      = mu.Alias("TPMA_CC", mu.U32)
	YesNo             = mu.Alias("TPMI_YES_NO", mu.Bool)
)

// Part 1 command and response headers.
var (
	CommandHeader = mu.Struct("TPM_CMD_HEADER",
		field("tag", ST),
		field("commandSize", mu.U32),
		field("commandCode", CC),
	)
	ResponseHeader = mu.Struct("TPM_RSP_HEADER",
		field("tag", ST),
		field("responseSize", mu.U32),
		field("responseCode", RC),
	)
)

// 10.4
var (
	TPM2BDigest          = buffer("TPM2B_DIGEST")
	TPM2BData            = buffer("TPM2B_DATA")
	TPM2BNonce           = buffer("TPM2B_NONCE")
	TPM2BAuth            = buffer("TPM2B_AUTH")
	TPM2BMaxBuffer       = buffer("TPM2B_MAX_BUFFER")
	TPM2BMaxNVBuffer     = buffer("TPM2B_MAX_NV_BUFFER")
	TPM2BName            = buffer("TPM2B_NAME")
	TPM2BSensitiveData   = buffer("TPM2B_SENSITIVE_DATA")
	TPM2BPublicKeyRSA    = buffer("TPM2B_PUBLIC_KEY_RSA")
	TPM2BECCParameter    = buffer("TPM2B_ECC_PARAMETER")
	TPM2BPrivate         = buffer("TPM2B_PRIVATE")
	TPM2BEncryptedSecret = buffer("TPM2B_ENCRYPTED_SECRET")
)

// 10.6 and 10.9
var (
	TPMSPCRSelection = mu.Struct("TPMS_PCR_SELECTION",
		field("hash", AlgHash),
		field("sizeofSelect", mu.U8),
		field("pcrSelect", mu.ExternalSeq("pcrSelect", mu.U8)),
	)
	TPMLPCRSelection = list("TPML_PCR_SELECTION", TPMSPCRSelection, "pcrSelections")
	TPMLDigest       = list("TPML_DIGEST", TPM2BDigest, "digests")
	TPMLCC           = list("TPML_CC", CC, "commandCodes")
	TPMLCCA          = list("TPML_CCA", CCAttributes, "commandAttributes")
	TPMLHandle       = list("TPML_HANDLE", Handle, "handle")
	TPMLECCCurve     = list("TPML_ECC_CURVE", ECCCurve, "eccCurves")

	TPMSAlgProperty = mu.Struct("TPMS_ALG_PROPERTY",
		field("alg", AlgID),
		field("algProperties", AlgProperties),
	)
	TPMLAlgProperty = list("TPML_ALG_PROPERTY", TPMSAlgProperty, "algProperties")

	TPMSTaggedProperty = mu.Struct("TPMS_TAGGED_PROPERTY",
		field("property", PT),
		field("value", mu.U32),
	)
	TPMLTaggedTPMProperty = list("TPML_TAGGED_TPM_PROPERTY", TPMSTaggedProperty, "tpmProperty")
)

// 10.7
var TPMTTKCreation = mu.Struct("TPMT_TK_CREATION",
	field("tag", ST),
	field("hierarchy", Handle),
	field("digest", TPM2BDigest),
)

// 10.10 capabilities. The discriminant is the capability field, which
// precedes the union directly.
var (
	TPMUCapabilities = mu.Union("TPMU_CAPABILITIES",
		mu.Variant{Name: "algorithms", Selector: uint64(TPMCapAlgs), Payload: TPMLAlgProperty},
		mu.Variant{Name: "handles", Selector: uint64(TPMCapHandles), Payload: TPMLHandle},
		mu.Variant{Name: "command", Selector: uint64(TPMCapCommands), Payload: TPMLCCA},
		mu.Variant{Name: "ppCommands", Selector: uint64(TPMCapPPCommands), Payload: TPMLCC},
		mu.Variant{Name: "auditCommands", Selector: uint64(TPMCapAuditCommands), Payload: TPMLCC},
		mu.Variant{Name: "assignedPCR", Selector: uint64(TPMCapPCRs), Payload: TPMLPCRSelection},
		mu.Variant{Name: "tpmProperties", Selector: uint64(TPMCapTPMProperties), Payload: TPMLTaggedTPMProperty},
		mu.Variant{Name: "eccCurves", Selector: uint64(TPMCapECCCurves), Payload: TPMLECCCurve},
	)
	TPMSCapabilityData = mu.Struct("TPMS_CAPABILITY_DATA",
		field("capability", Cap),
		fieldBy("data", TPMUCapabilities, mu.ByPrevious),
	)
)

// 10.11 and 10.12 attestation.
var (
	TPMSClockInfo = mu.Struct("TPMS_CLOCK_INFO",
		field("clock", mu.U64),
		field("resetCount", mu.U32),
		field("restartCount", mu.U32),
		field("safe", YesNo),
	)
	TPMSTimeInfo = mu.Struct("TPMS_TIME_INFO",
		field("time", mu.U64),
		field("clockInfo", TPMSClockInfo),
	)
	TPMSCertifyInfo = mu.Struct("TPMS_CERTIFY_INFO",
		field("name", TPM2BName),
		field("qualifiedName", TPM2BName),
	)
	TPMSQuoteInfo = mu.Struct("TPMS_QUOTE_INFO",
		field("pcrSelect", TPMLPCRSelection),
		field("pcrDigest", TPM2BDigest),
	)
	TPMSCommandAuditInfo = mu.Struct("TPMS_COMMAND_AUDIT_INFO",
		field("auditCounter", mu.U64),
		field("digestAlg", AlgID),
		field("auditDigest", TPM2BDigest),
		field("commandDigest", TPM2BDigest),
	)
	TPMSSessionAuditInfo = mu.Struct("TPMS_SESSION_AUDIT_INFO",
		field("exclusiveSession", YesNo),
		field("sessionDigest", TPM2BDigest),
	)
	TPMSCreationInfo = mu.Struct("TPMS_CREATION_INFO",
		field("objectName", TPM2BName),
		field("creationHash", TPM2BDigest),
	)
	TPMSNVCertifyInfo = mu.Struct("TPMS_NV_CERTIFY_INFO",
		field("indexName", TPM2BName),
		field("offset", mu.U16),
		field("nvContents", TPM2BMaxNVBuffer),
	)
	TPMSNVDigestCertifyInfo = mu.Struct("TPMS_NV_DIGEST_CERTIFY_INFO",
		field("indexName", TPM2BName),
		field("nvDigest", TPM2BDigest),
	)
	TPMSTimeAttestInfo = mu.Struct("TPMS_TIME_ATTEST_INFO",
		field("time", TPMSTimeInfo),
		field("firmwareVersion", mu.U64),
	)
	TPMUAttest = mu.Union("TPMU_ATTEST",
		mu.Variant{Name: "certify", Selector: uint64(TPMSTAttestCertify), Payload: TPMSCertifyInfo},
		mu.Variant{Name: "creation", Selector: uint64(TPMSTAttestCreation), Payload: TPMSCreationInfo},
		mu.Variant{Name: "quote", Selector: uint64(TPMSTAttestQuote), Payload: TPMSQuoteInfo},
		mu.Variant{Name: "commandAudit", Selector: uint64(TPMSTAttestCommandAudit), Payload: TPMSCommandAuditInfo},
		mu.Variant{Name: "sessionAudit", Selector: uint64(TPMSTAttestSessionAudit), Payload: TPMSSessionAuditInfo},
		mu.Variant{Name: "time", Selector: uint64(TPMSTAttestTime), Payload: TPMSTimeAttestInfo},
		mu.Variant{Name: "nv", Selector: uint64(TPMSTAttestNV), Payload: TPMSNVCertifyInfo},
		mu.Variant{Name: "nvDigest", Selector: uint64(TPMSTAttestNVDigest), Payload: TPMSNVDigestCertifyInfo},
	)
	// The magic value comes first, so attested names its discriminant.
	TPMSAttest = mu.Struct("TPMS_ATTEST",
		field("magic", Generated),
		field("type", ST),
		field("qualifiedSigner", TPM2BName),
		field("extraData", TPM2BData),
		field("clockInfo", TPMSClockInfo),
		field("firmwareVersion", mu.U64),
		fieldBy("attested", TPMUAttest, mu.SelectField("type")),
	)
	TPM2BAttest = mu.Sized("TPM2B_ATTEST", TPMSAttest)
)

// 10.13 authorization areas.
var (
	TPMSAuthCommand = mu.Struct("TPMS_AUTH_COMMAND",
		field("sessionHandle", Handle),
		field("nonce", TPM2BNonce),
		field("sessionAttributes", SessionAttributes),
		field("hmac", TPM2BAuth),
	)
	TPMSAuthResponse = mu.Struct("TPMS_AUTH_RESPONSE",
		field("nonce", TPM2BNonce),
		field("sessionAttributes", SessionAttributes),
		field("hmac", TPM2BAuth),
	)
)

// 11.1 symmetric definitions.
var (
	TPMUSymKeyBits = mu.Union("TPMU_SYM_KEY_BITS",
		alg("aes", TPMAlgAES, KeyBits),
		alg("sm4", TPMAlgSM4, KeyBits),
		alg("camellia", TPMAlgCamellia, KeyBits),
		alg("xor", TPMAlgXOR, AlgHash),
		algNull,
	)
	TPMUSymMode = mu.Union("TPMU_SYM_MODE",
		alg("aes", TPMAlgAES, AlgSymMode),
		alg("sm4", TPMAlgSM4, AlgSymMode),
		alg("camellia", TPMAlgCamellia, AlgSymMode),
		alg("xor", TPMAlgXOR, nil),
		algNull,
	)
	TPMUSymDetails = mu.Union("TPMU_SYM_DETAILS",
		alg("aes", TPMAlgAES, nil),
		alg("sm4", TPMAlgSM4, nil),
		alg("camellia", TPMAlgCamellia, nil),
		alg("xor", TPMAlgXOR, nil),
		algNull,
	)
	TPMTSymDefObject = mu.Struct("TPMT_SYM_DEF_OBJECT",
		field("algorithm", AlgSymObject),
		field("keyBits", TPMUSymKeyBits),
		field("mode", TPMUSymMode),
		field("details", TPMUSymDetails),
	)
	TPMSSymCipherParms = mu.Struct("TPMS_SYMCIPHER_PARMS",
		field("sym", TPMTSymDefObject),
	)
	TPMSSensitiveCreate = mu.Struct("TPMS_SENSITIVE_CREATE",
		field("userAuth", TPM2BAuth),
		field("data", TPM2BSensitiveData),
	)
	TPM2BSensitiveCreate = mu.Sized("TPM2B_SENSITIVE_CREATE", TPMSSensitiveCreate)
)

// 11.1 and 11.2 schemes.
var (
	TPMSSchemeHash = mu.Struct("TPMS_SCHEME_HASH",
		field("hashAlg", AlgHash),
	)
	TPMSSchemeECDAA = mu.Struct("TPMS_SCHEME_ECDAA",
		field("hashAlg", AlgHash),
		field("count", mu.U16),
	)
	TPMSSchemeXOR = mu.Struct("TPMS_SCHEME_XOR",
		field("hashAlg", AlgHash),
		field("kdf", AlgKDF),
	)
	TPMUSchemeKeyedHash = mu.Union("TPMU_SCHEME_KEYEDHASH",
		alg("hmac", TPMAlgHMAC, TPMSSchemeHash),
		alg("xor", TPMAlgXOR, TPMSSchemeXOR),
		algNull,
	)
	TPMTKeyedHashScheme = mu.Struct("TPMT_KEYEDHASH_SCHEME",
		field("scheme", AlgKeyedHashSch),
		field("details", TPMUSchemeKeyedHash),
	)
	TPMUKDFScheme = mu.Union("TPMU_KDF_SCHEME",
		alg("mgf1", TPMAlgMGF1, TPMSSchemeHash),
		alg("kdf1_sp800_56a", TPMAlgKDF1SP80056A, TPMSSchemeHash),
		alg("kdf2", TPMAlgKDF2, TPMSSchemeHash),
		alg("kdf1_sp800_108", TPMAlgKDF1SP800108, TPMSSchemeHash),
		algNull,
	)
	TPMTKDFScheme = mu.Struct("TPMT_KDF_SCHEME",
		field("scheme", AlgKDF),
		field("details", TPMUKDFScheme),
	)
	TPMUAsymScheme = mu.Union("TPMU_ASYM_SCHEME",
		alg("ecdh", TPMAlgECDH, TPMSSchemeHash),
		alg("ecmqv", TPMAlgECMQV, TPMSSchemeHash),
		alg("rsassa", TPMAlgRSASSA, TPMSSchemeHash),
		alg("rsapss", TPMAlgRSAPSS, TPMSSchemeHash),
		alg("ecdsa", TPMAlgECDSA, TPMSSchemeHash),
		alg("ecdaa", TPMAlgECDAA, TPMSSchemeECDAA),
		alg("sm2", TPMAlgSM2, TPMSSchemeHash),
		alg("ecschnorr", TPMAlgECSchnorr, TPMSSchemeHash),
		alg("rsaes", TPMAlgRSAES, nil),
		alg("oaep", TPMAlgOAEP, TPMSSchemeHash),
		algNull,
	)
	TPMTRSAScheme = mu.Struct("TPMT_RSA_SCHEME",
		field("scheme", AlgRSAScheme),
		field("details", TPMUAsymScheme),
	)
	TPMTECCScheme = mu.Struct("TPMT_ECC_SCHEME",
		field("scheme", AlgECCScheme),
		field("details", TPMUAsymScheme),
	)
)

// 11.2.5
var (
	TPMSECCPoint = mu.Struct("TPMS_ECC_POINT",
		field("x", TPM2BECCParameter),
		field("y", TPM2BECCParameter),
	)
	TPM2BECCPoint = mu.Sized("TPM2B_ECC_POINT", TPMSECCPoint)
)

// 12.2 public area.
var (
	TPMUPublicID = mu.Union("TPMU_PUBLIC_ID",
		alg("keyedHash", TPMAlgKeyedHash, TPM2BDigest),
		alg("sym", TPMAlgSymCipher, TPM2BDigest),
		alg("rsa", TPMAlgRSA, TPM2BPublicKeyRSA),
		alg("ecc", TPMAlgECC, TPMSECCPoint),
	)
	TPMSKeyedHashParms = mu.Struct("TPMS_KEYEDHASH_PARMS",
		field("scheme", TPMTKeyedHashScheme),
	)
	TPMSRSAParms = mu.Struct("TPMS_RSA_PARMS",
		field("symmetric", TPMTSymDefObject),
		field("scheme", TPMTRSAScheme),
		field("keyBits", KeyBits),
		field("exponent", mu.U32),
	)
	TPMSECCParms = mu.Struct("TPMS_ECC_PARMS",
		field("symmetric", TPMTSymDefObject),
		field("scheme", TPMTECCScheme),
		field("curveID", ECCCurve),
		field("kdf", TPMTKDFScheme),
	)
	TPMUPublicParms = mu.Union("TPMU_PUBLIC_PARMS",
		alg("keyedHashDetail", TPMAlgKeyedHash, TPMSKeyedHashParms),
		alg("symDetail", TPMAlgSymCipher, TPMSSymCipherParms),
		alg("rsaDetail", TPMAlgRSA, TPMSRSAParms),
		alg("eccDetail", TPMAlgECC, TPMSECCParms),
	)
	TPMTPublic = mu.Struct("TPMT_PUBLIC",
		field("type", AlgPublic),
		field("nameAlg", AlgHash),
		field("objectAttributes", ObjectAttributes),
		field("authPolicy", TPM2BDigest),
		field("parameters", TPMUPublicParms),
		field("unique", TPMUPublicID),
	)
	TPM2BPublic = mu.Sized("TPM2B_PUBLIC", TPMTPublic)
)

// 15 creation data.
var (
	TPMSCreationData = mu.Struct("TPMS_CREATION_DATA",
		field("pcrSelect", TPMLPCRSelection),
		field("pcrDigest", TPM2BDigest),
		field("locality", Locality),
		field("parentNameAlg", AlgID),
		field("parentName", TPM2BName),
		field("parentQualifiedName", TPM2BName),
		field("outsideInfo", TPM2BData),
	)
	TPM2BCreationData = mu.Sized("TPM2B_CREATION_DATA", TPMSCreationData)
)

// 11.2.1 and 11.3 signatures.
var (
	TPMUSigScheme = mu.Union("TPMU_SIG_SCHEME",
		alg("rsassa", TPMAlgRSASSA, TPMSSchemeHash),
		alg("rsapss", TPMAlgRSAPSS, TPMSSchemeHash),
		alg("ecdsa", TPMAlgECDSA, TPMSSchemeHash),
		alg("ecdaa", TPMAlgECDAA, TPMSSchemeECDAA),
		alg("sm2", TPMAlgSM2, TPMSSchemeHash),
		alg("ecschnorr", TPMAlgECSchnorr, TPMSSchemeHash),
		alg("hmac", TPMAlgHMAC, TPMSSchemeHash),
		algNull,
	)
	TPMTSigScheme = mu.Struct("TPMT_SIG_SCHEME",
		field("scheme", AlgID),
		field("details", TPMUSigScheme),
	)
	TPMSSignatureRSA = mu.Struct("TPMS_SIGNATURE_RSA",
		field("hash", AlgHash),
		field("sig", TPM2BPublicKeyRSA),
	)
	TPMSSignatureECC = mu.Struct("TPMS_SIGNATURE_ECC",
		field("hash", AlgHash),
		field("signatureR", TPM2BECCParameter),
		field("signatureS", TPM2BECCParameter),
	)
	TPMUSignature = mu.Union("TPMU_SIGNATURE",
		alg("rsassa", TPMAlgRSASSA, TPMSSignatureRSA),
		alg("rsapss", TPMAlgRSAPSS, TPMSSignatureRSA),
		alg("ecdsa", TPMAlgECDSA, TPMSSignatureECC),
		alg("ecdaa", TPMAlgECDAA, TPMSSignatureECC),
		alg("sm2", TPMAlgSM2, TPMSSignatureECC),
		alg("ecschnorr", TPMAlgECSchnorr, TPMSSignatureECC),
		algNull,
	)
	TPMTSignature = mu.Struct("TPMT_SIGNATURE",
		field("sigAlg", AlgID),
		field("signature", TPMUSignature),
	)
)

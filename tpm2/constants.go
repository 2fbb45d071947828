package tpm2

import (
	"crypto"
	"crypto/elliptic"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Numeric types from Part 2. Their values are what union selectors and
// scalar fields carry on the wire.
type (
	TPMGenerated uint32
	TPMAlgID     uint16
	TPMECCCurve  uint16
	TPMCC        uint32
	TPMRC        uint32
	TPMST        uint16
	TPMSU        uint16
	TPMCap       uint32
	TPMHandle    uint32
	TPMKeyBits   uint16
)

// 6.2
const (
	TPMGeneratedValue TPMGenerated = 0xff544347
)

// 6.3
const (
	TPMAlgRSA          TPMAlgID = 0x0001
	TPMAlgTDES         TPMAlgID = 0x0003
	TPMAlgSHA1         TPMAlgID = 0x0004
	TPMAlgHMAC         TPMAlgID = 0x0005
	TPMAlgAES          TPMAlgID = 0x0006
	TPMAlgMGF1         TPMAlgID = 0x0007
	TPMAlgKeyedHash    TPMAlgID = 0x0008
	TPMAlgXOR          TPMAlgID = 0x000A
	TPMAlgSHA256       TPMAlgID = 0x000B
	TPMAlgSHA384       TPMAlgID = 0x000C
	TPMAlgSHA512       TPMAlgID = 0x000D
	TPMAlgNull         TPMAlgID = 0x0010
	TPMAlgSM3256       TPMAlgID = 0x0012
	TPMAlgSM4          TPMAlgID = 0x0013
	TPMAlgRSASSA       TPMAlgID = 0x0014
	TPMAlgRSAES        TPMAlgID = 0x0015
	TPMAlgRSAPSS       TPMAlgID = 0x0016
	TPMAlgOAEP         TPMAlgID = 0x0017
	TPMAlgECDSA        TPMAlgID = 0x0018
	TPMAlgECDH         TPMAlgID = 0x0019
	TPMAlgECDAA        TPMAlgID = 0x001A
	TPMAlgSM2          TPMAlgID = 0x001B
	TPMAlgECSchnorr    TPMAlgID = 0x001C
	TPMAlgECMQV        TPMAlgID = 0x001D
	TPMAlgKDF1SP80056A TPMAlgID = 0x0020
	TPMAlgKDF2         TPMAlgID = 0x0021
	TPMAlgKDF1SP800108 TPMAlgID = 0x0022
	TPMAlgECC          TPMAlgID = 0x0023
	TPMAlgSymCipher    TPMAlgID = 0x0025
	TPMAlgCamellia     TPMAlgID = 0x0026
	TPMAlgSHA3256      TPMAlgID = 0x0027
	TPMAlgSHA3384      TPMAlgID = 0x0028
	TPMAlgSHA3512      TPMAlgID = 0x0029
	TPMAlgCTR          TPMAlgID = 0x0040
	TPMAlgOFB          TPMAlgID = 0x0041
	TPMAlgCBC          TPMAlgID = 0x0042
	TPMAlgCFB          TPMAlgID = 0x0043
	TPMAlgECB          TPMAlgID = 0x0044
)

var algNames = map[TPMAlgID]string{
	TPMAlgRSA:          "RSA",
	TPMAlgTDES:         "TDES",
	TPMAlgSHA1:         "SHA1",
	TPMAlgHMAC:         "HMAC",
	TPMAlgAES:          "AES",
	TPMAlgMGF1:         "MGF1",
	TPMAlgKeyedHash:    "KEYEDHASH",
	TPMAlgXOR:          "XOR",
	TPMAlgSHA256:       "SHA256",
	TPMAlgSHA384:       "SHA384",
	TPMAlgSHA512:       "SHA512",
	TPMAlgNull:         "NULL",
	TPMAlgSM3256:       "SM3_256",
	TPMAlgSM4:          "SM4",
	TPMAlgRSASSA:       "RSASSA",
	TPMAlgRSAES:        "RSAES",
	TPMAlgRSAPSS:       "RSAPSS",
	TPMAlgOAEP:         "OAEP",
	TPMAlgECDSA:        "ECDSA",
	TPMAlgECDH:         "ECDH",
	TPMAlgECDAA:        "ECDAA",
	TPMAlgSM2:          "SM2",
	TPMAlgECSchnorr:    "ECSCHNORR",
	TPMAlgECMQV:        "ECMQV",
	TPMAlgKDF1SP80056A: "KDF1_SP800_56A",
	TPMAlgKDF2:         "KDF2",
	TPMAlgKDF1SP800108: "KDF1_SP800_108",
	TPMAlgECC:          "ECC",
	TPMAlgSymCipher:    "SYMCIPHER",
	TPMAlgCamellia:     "CAMELLIA",
	TPMAlgSHA3256:      "SHA3_256",
	TPMAlgSHA3384:      "SHA3_384",
	TPMAlgSHA3512:      "SHA3_512",
	TPMAlgCTR:          "CTR",
	TPMAlgOFB:          "OFB",
	TPMAlgCBC:          "CBC",
	TPMAlgCFB:          "CFB",
	TPMAlgECB:          "ECB",
}

func (a TPMAlgID) String() string {
	if s, ok := algNames[a]; ok {
		return "TPM_ALG_" + s
	}
	return fmt.Sprintf("TPM_ALG_ID(0x%04x)", uint16(a))
}

// Hash returns a new hash for a hash algorithm.
func (a TPMAlgID) Hash() (hash.Hash, error) {
	switch a {
	case TPMAlgSHA1:
		return sha1.New(), nil
	case TPMAlgSHA256:
		return sha256.New(), nil
	case TPMAlgSHA384:
		return sha512.New384(), nil
	case TPMAlgSHA512:
		return sha512.New(), nil
	case TPMAlgSHA3256:
		return sha3.New256(), nil
	case TPMAlgSHA3384:
		return sha3.New384(), nil
	case TPMAlgSHA3512:
		return sha3.New512(), nil
	}
	return nil, fmt.Errorf("unsupported hash algorithm: %v", a)
}

// CryptoHash maps a hash algorithm to its crypto.Hash.
func (a TPMAlgID) CryptoHash() (crypto.Hash, error) {
	switch a {
	case TPMAlgSHA1:
		return crypto.SHA1, nil
	case TPMAlgSHA256:
		return crypto.SHA256, nil
	case TPMAlgSHA384:
		return crypto.SHA384, nil
	case TPMAlgSHA512:
		return crypto.SHA512, nil
	case TPMAlgSHA3256:
		return crypto.SHA3_256, nil
	case TPMAlgSHA3384:
		return crypto.SHA3_384, nil
	case TPMAlgSHA3512:
		return crypto.SHA3_512, nil
	}
	return 0, fmt.Errorf("unsupported hash algorithm: %v", a)
}

// 6.4
const (
	TPMECCNone     TPMECCCurve = 0x0000
	TPMECCNistP192 TPMECCCurve = 0x0001
	TPMECCNistP224 TPMECCCurve = 0x0002
	TPMECCNistP256 TPMECCCurve = 0x0003
	TPMECCNistP384 TPMECCCurve = 0x0004
	TPMECCNistP521 TPMECCCurve = 0x0005
	TPMECCBNP256   TPMECCCurve = 0x0010
	TPMECCBNP638   TPMECCCurve = 0x0011
	TPMECCSM2P256  TPMECCCurve = 0x0020
)

// Curve returns the Go curve for c.
func (c TPMECCCurve) Curve() (elliptic.Curve, error) {
	switch c {
	case TPMECCNistP224:
		return elliptic.P224(), nil
	case TPMECCNistP256:
		return elliptic.P256(), nil
	case TPMECCNistP384:
		return elliptic.P384(), nil
	case TPMECCNistP521:
		return elliptic.P521(), nil
	}
	return nil, fmt.Errorf("unsupported ECC curve: 0x%04x", uint16(c))
}

// 6.5.2
const (
	TPMCCEvictControl     TPMCC = 0x00000120
	TPMCCClear            TPMCC = 0x00000126
	TPMCCCreatePrimary    TPMCC = 0x00000131
	TPMCCNVDefineSpace    TPMCC = 0x0000012A
	TPMCCNVWrite          TPMCC = 0x00000137
	TPMCCSelfTest         TPMCC = 0x00000143
	TPMCCStartup          TPMCC = 0x00000144
	TPMCCShutdown         TPMCC = 0x00000145
	TPMCCStirRandom       TPMCC = 0x00000146
	TPMCCCertify          TPMCC = 0x00000148
	TPMCCNVRead           TPMCC = 0x0000014E
	TPMCCCreate           TPMCC = 0x00000153
	TPMCCLoad             TPMCC = 0x00000157
	TPMCCQuote            TPMCC = 0x00000158
	TPMCCSign             TPMCC = 0x0000015D
	TPMCCUnseal           TPMCC = 0x0000015E
	TPMCCContextLoad      TPMCC = 0x00000161
	TPMCCContextSave      TPMCC = 0x00000162
	TPMCCFlushContext     TPMCC = 0x00000165
	TPMCCLoadExternal     TPMCC = 0x00000167
	TPMCCNVReadPublic     TPMCC = 0x00000169
	TPMCCReadPublic       TPMCC = 0x00000173
	TPMCCStartAuthSession TPMCC = 0x00000176
	TPMCCGetCapability    TPMCC = 0x0000017A
	TPMCCGetRandom        TPMCC = 0x0000017B
	TPMCCGetTestResult    TPMCC = 0x0000017C
	TPMCCHash             TPMCC = 0x0000017D
	TPMCCPCRRead          TPMCC = 0x0000017E
	TPMCCReadClock        TPMCC = 0x00000181
	TPMCCPCRExtend        TPMCC = 0x00000182
	TPMCCCreateLoaded     TPMCC = 0x00000191
)

var ccNames = map[TPMCC]string{
	TPMCCEvictControl:     "EvictControl",
	TPMCCClear:            "Clear",
	TPMCCCreatePrimary:    "CreatePrimary",
	TPMCCNVDefineSpace:    "NV_DefineSpace",
	TPMCCNVWrite:          "NV_Write",
	TPMCCSelfTest:         "SelfTest",
	TPMCCStartup:          "Startup",
	TPMCCShutdown:         "Shutdown",
	TPMCCStirRandom:       "StirRandom",
	TPMCCCertify:          "Certify",
	TPMCCNVRead:           "NV_Read",
	TPMCCCreate:           "Create",
	TPMCCLoad:             "Load",
	TPMCCQuote:            "Quote",
	TPMCCSign:             "Sign",
	TPMCCUnseal:           "Unseal",
	TPMCCContextLoad:      "ContextLoad",
	TPMCCContextSave:      "ContextSave",
	TPMCCFlushContext:     "FlushContext",
	TPMCCLoadExternal:     "LoadExternal",
	TPMCCNVReadPublic:     "NV_ReadPublic",
	TPMCCReadPublic:       "ReadPublic",
	TPMCCStartAuthSession: "StartAuthSession",
	TPMCCGetCapability:    "GetCapability",
	TPMCCGetRandom:        "GetRandom",
	TPMCCGetTestResult:    "GetTestResult",
	TPMCCHash:             "Hash",
	TPMCCPCRRead:          "PCR_Read",
	TPMCCReadClock:        "ReadClock",
	TPMCCPCRExtend:        "PCR_Extend",
	TPMCCCreateLoaded:     "CreateLoaded",
}

func (c TPMCC) String() string {
	if s, ok := ccNames[c]; ok {
		return "TPM2_" + s
	}
	return fmt.Sprintf("TPM_CC(0x%08x)", uint32(c))
}

// 6.9
const (
	TPMSTRspCommand         TPMST = 0x00C4
	TPMSTNull               TPMST = 0x8000
	TPMSTNoSessions         TPMST = 0x8001
	TPMSTSessions           TPMST = 0x8002
	TPMSTAttestNV           TPMST = 0x8014
	TPMSTAttestCommandAudit TPMST = 0x8015
	TPMSTAttestSessionAudit TPMST = 0x8016
	TPMSTAttestCertify      TPMST = 0x8017
	TPMSTAttestQuote        TPMST = 0x8018
	TPMSTAttestTime         TPMST = 0x8019
	TPMSTAttestCreation     TPMST = 0x801A
	TPMSTAttestNVDigest     TPMST = 0x801C
	TPMSTCreation           TPMST = 0x8021
	TPMSTVerified           TPMST = 0x8022
	TPMSTAuthSecret         TPMST = 0x8023
	TPMSTHashCheck          TPMST = 0x8024
	TPMSTAuthSigned         TPMST = 0x8025
)

// 6.10
const (
	TPMSUClear TPMSU = 0x0000
	TPMSUState TPMSU = 0x0001
)

// 6.12
const (
	TPMCapAlgs          TPMCap = 0x00000000
	TPMCapHandles       TPMCap = 0x00000001
	TPMCapCommands      TPMCap = 0x00000002
	TPMCapPPCommands    TPMCap = 0x00000003
	TPMCapAuditCommands TPMCap = 0x00000004
	TPMCapPCRs          TPMCap = 0x00000005
	TPMCapTPMProperties TPMCap = 0x00000006
	TPMCapPCRProperties TPMCap = 0x00000007
	TPMCapECCCurves     TPMCap = 0x00000008
)

// 7.4
const (
	TPMRHOwner       TPMHandle = 0x40000001
	TPMRHNull        TPMHandle = 0x40000007
	TPMRSPW          TPMHandle = 0x40000009
	TPMRHLockout     TPMHandle = 0x4000000A
	TPMRHEndorsement TPMHandle = 0x4000000B
	TPMRHPlatform    TPMHandle = 0x4000000C
	TPMRHPlatformNV  TPMHandle = 0x4000000D
)

// 8.3 TPMA_OBJECT bits.
const (
	AttrFixedTPM             uint32 = 1 << 1
	AttrSTClear              uint32 = 1 << 2
	AttrFixedParent          uint32 = 1 << 4
	AttrSensitiveDataOrigin  uint32 = 1 << 5
	AttrUserWithAuth         uint32 = 1 << 6
	AttrAdminWithPolicy      uint32 = 1 << 7
	AttrNoDA                 uint32 = 1 << 10
	AttrEncryptedDuplication uint32 = 1 << 11
	AttrRestricted           uint32 = 1 << 16
	AttrDecrypt              uint32 = 1 << 17
	AttrSignEncrypt          uint32 = 1 << 18
	AttrX509Sign             uint32 = 1 << 19
)

// 8.4 TPMA_SESSION bits.
const (
	SessionContinue       uint8 = 1 << 0
	SessionAuditExclusive uint8 = 1 << 1
	SessionAuditReset     uint8 = 1 << 2
	SessionDecrypt        uint8 = 1 << 5
	SessionEncrypt        uint8 = 1 << 6
	SessionAudit          uint8 = 1 << 7
)

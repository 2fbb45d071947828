package tpm2

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rsa"
	"fmt"
	"math/big"

	"github.com/chrisfenner/tpmwire/mu"
)

// PublicKey extracts the Go public key from an RSA or ECC TPMT_PUBLIC.
func PublicKey(public *mu.StructValue) (crypto.PublicKey, error) {
	parms, err := unionField(public, "parameters")
	if err != nil {
		return nil, err
	}
	unique, err := unionField(public, "unique")
	if err != nil {
		return nil, err
	}
	detail, ok := parms.Payload.(*mu.StructValue)
	if !ok {
		return nil, fmt.Errorf("parameters hold %T", parms.Payload)
	}
	switch TPMAlgID(parms.Selector) {
	case TPMAlgRSA:
		modulus, ok := unique.Payload.(*mu.SeqValue)
		if !ok {
			return nil, fmt.Errorf("RSA unique holds %T", unique.Payload)
		}
		return rsaPub(detail, modulus)
	case TPMAlgECC:
		point, ok := unique.Payload.(*mu.StructValue)
		if !ok {
			return nil, fmt.Errorf("ECC unique holds %T", unique.Payload)
		}
		return eccPub(detail, point)
	}
	return nil, fmt.Errorf("no public key for object type %v", TPMAlgID(parms.Selector))
}

func unionField(s *mu.StructValue, name string) (*mu.UnionValue, error) {
	v, ok := s.Field(name)
	if !ok {
		return nil, fmt.Errorf("%s has no field %s", s.Type.TypeName, name)
	}
	u, ok := v.(*mu.UnionValue)
	if !ok || u.Payload == nil {
		return nil, fmt.Errorf("%s.%s is not a populated union", s.Type.TypeName, name)
	}
	return u, nil
}

func bufferField(s *mu.StructValue, name string) ([]byte, error) {
	v, _ := s.Field(name)
	seq, ok := v.(*mu.SeqValue)
	if !ok {
		return nil, fmt.Errorf("%s.%s is %T", s.Type.TypeName, name, v)
	}
	b, ok := seq.Bytes()
	if !ok {
		return nil, fmt.Errorf("%s.%s is not a byte buffer", s.Type.TypeName, name)
	}
	return b, nil
}

func rsaPub(parms *mu.StructValue, modulus *mu.SeqValue) (*rsa.PublicKey, error) {
	n, ok := modulus.Bytes()
	if !ok {
		return nil, fmt.Errorf("RSA modulus is not a byte buffer")
	}
	exp, _ := parms.Field("exponent")
	e, _ := exp.(uint32)
	result := rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(e),
	}
	// An exponent of 0 means the TPM default, 65537.
	if result.E == 0 {
		result.E = 65537
	}
	return &result, nil
}

func eccPub(parms, point *mu.StructValue) (*ecdsa.PublicKey, error) {
	id, _ := parms.Field("curveID")
	curveID, ok := id.(uint16)
	if !ok {
		return nil, fmt.Errorf("curveID is %T", id)
	}
	curve, err := TPMECCCurve(curveID).Curve()
	if err != nil {
		return nil, err
	}
	x, err := bufferField(point, "x")
	if err != nil {
		return nil, err
	}
	y, err := bufferField(point, "y")
	if err != nil {
		return nil, err
	}
	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}, nil
}

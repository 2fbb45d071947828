package tpm2

import (
	"encoding/binary"
	"fmt"

	"github.com/chrisfenner/tpmwire/mu"
)

// HandleName returns the Name of a permanent or PCR handle, which is the
// handle itself.
func HandleName(h TPMHandle) []byte {
	var name [4]byte
	binary.BigEndian.PutUint32(name[:], uint32(h))
	return name[:]
}

// ObjectName computes the Name of an object from its TPMT_PUBLIC: nameAlg
// followed by the nameAlg digest of the encoded public area.
func ObjectName(public *mu.StructValue) ([]byte, error) {
	if public.Type != TPMTPublic {
		return nil, fmt.Errorf("object name of %s, want %s", public.Type.TypeName, TPMTPublic.TypeName)
	}
	v, _ := public.Field("nameAlg")
	nameAlg, ok := v.(uint16)
	if !ok {
		return nil, fmt.Errorf("nameAlg is %T", v)
	}
	h, err := TPMAlgID(nameAlg).Hash()
	if err != nil {
		return nil, err
	}
	area, err := mu.Encode(public)
	if err != nil {
		return nil, fmt.Errorf("encoding public area: %w", err)
	}
	h.Write(area)
	name := make([]byte, 2, 2+h.Size())
	binary.BigEndian.PutUint16(name, nameAlg)
	return h.Sum(name), nil
}

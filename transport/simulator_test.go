package transport

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/chrisfenner/tpmwire/mu"
	"github.com/chrisfenner/tpmwire/tpm2"
)

// openTestSimulator connects to a local reference simulator, skipping the
// test when none is running.
func openTestSimulator(t *testing.T) Transport {
	t.Helper()
	log, _ := nullEntry(logrus.InfoLevel)
	sim, err := OpenSimulator(DefaultSimulatorConfig, log)
	if err != nil {
		t.Skipf("no simulator: %v", err)
	}
	tpm := NewDebug(sim, DebugOptions{Logger: log})
	t.Cleanup(func() { tpm.Close() })

	rsp, err := execute(tpm, &tpm2.Command{
		Code:   tpm2.TPMCCStartup,
		Params: mu.NewStruct(tpm2.StartupCommand, uint16(tpm2.TPMSUClear)),
	})
	var rc tpm2.TPMRC
	if err != nil && !(errors.As(err, &rc) && rc == tpm2.TPMRCInitialize) {
		t.Fatalf("Startup: %v (%+v)", err, rsp)
	}
	return tpm
}

func execute(tpm Transport, cmd *tpm2.Command) (*tpm2.Response, error) {
	spec, ok := tpm2.LookupCommand(cmd.Code)
	if !ok {
		return nil, tpm2.ErrUnknownCommand
	}
	b, err := cmd.Marshal()
	if err != nil {
		return nil, err
	}
	rsp, err := tpm.Send(b)
	if err != nil {
		return nil, err
	}
	return tpm2.ParseResponse(spec, rsp)
}

func TestSimulatorGetRandom(t *testing.T) {
	tpm := openTestSimulator(t)
	rsp, err := execute(tpm, &tpm2.Command{
		Code:   tpm2.TPMCCGetRandom,
		Params: mu.NewStruct(tpm2.GetRandomCommand, uint16(16)),
	})
	if err != nil {
		t.Fatalf("GetRandom: %v", err)
	}
	v, _ := rsp.Params.Field("randomBytes")
	b, _ := v.(*mu.SeqValue).Bytes()
	if len(b) != 16 {
		t.Errorf("got %d random bytes, want 16", len(b))
	}
}

func TestSimulatorCreatePrimary(t *testing.T) {
	tpm := openTestSimulator(t)
	selection := tpm2.TPMLPCRSelection.Fields[1].Type.(*mu.SeqType)
	rsp, err := execute(tpm, &tpm2.Command{
		Code:    tpm2.TPMCCCreatePrimary,
		Handles: []tpm2.TPMHandle{tpm2.TPMRHOwner},
		Auths:   []*mu.StructValue{tpm2.PasswordAuth(nil)},
		Params: mu.NewStruct(tpm2.CreateCommand,
			mu.NewSized(tpm2.TPM2BSensitiveCreate, mu.NewStruct(tpm2.TPMSSensitiveCreate,
				mu.NewSeq(tpm2.TPM2BAuth), mu.NewSeq(tpm2.TPM2BSensitiveData))),
			tpm2.PublicOf(tpm2.ECCSRKTemplate()),
			mu.NewSeq(tpm2.TPM2BData),
			mu.NewStruct(tpm2.TPMLPCRSelection, uint32(0), mu.NewSeq(selection)),
		),
	})
	if err != nil {
		t.Fatalf("CreatePrimary: %v", err)
	}
	if len(rsp.Handles) != 1 {
		t.Fatalf("got %d handles, want 1", len(rsp.Handles))
	}
	defer execute(tpm, &tpm2.Command{
		Code:   tpm2.TPMCCFlushContext,
		Params: mu.NewStruct(tpm2.FlushContextCommand, uint32(rsp.Handles[0])),
	})
	for _, auth := range rsp.Auths {
		if err := tpm2.ValidatePasswordResponse(auth); err != nil {
			t.Errorf("ValidatePasswordResponse() = %v", err)
		}
	}

	out, _ := rsp.Params.Field("outPublic")
	area, ok := out.(*mu.SizedValue).Inner.(*mu.StructValue)
	if !ok {
		t.Fatalf("outPublic is empty")
	}
	want, err := tpm2.ObjectName(area)
	if err != nil {
		t.Fatalf("ObjectName() = %v", err)
	}
	nv, _ := rsp.Params.Field("name")
	got, _ := nv.(*mu.SeqValue).Bytes()
	if !bytes.Equal(got, want) {
		t.Errorf("name = %x, computed %x", got, want)
	}
	pub, err := tpm2.PublicKey(area)
	if err != nil {
		t.Fatalf("PublicKey() = %v", err)
	}
	if _, ok := pub.(*ecdsa.PublicKey); !ok {
		t.Errorf("PublicKey() = %T, want *ecdsa.PublicKey", pub)
	}
}

package tpm2

import (
	"errors"
	"fmt"

	"github.com/chrisfenner/tpmwire/mu"
)

// CommandSpec describes the wire layout of a command and its response.
type CommandSpec struct {
	Code TPMCC
	// CommandHandles and ResponseHandles count the handles that precede
	// the authorization and parameter areas.
	CommandHandles  int
	ResponseHandles int
	Params          *mu.StructType
	Response        *mu.StructType
}

var noParams = mu.Struct("TPMS_EMPTY")

// Parameter areas.
var (
	StartupCommand = mu.Struct("TPM2_Startup_In",
		field("startupType", SU),
	)
	ShutdownCommand = mu.Struct("TPM2_Shutdown_In",
		field("shutdownType", SU),
	)
	GetRandomCommand = mu.Struct("TPM2_GetRandom_In",
		field("bytesRequested", mu.U16),
	)
	GetRandomResponse = mu.Struct("TPM2_GetRandom_Out",
		field("randomBytes", TPM2BDigest),
	)
	StirRandomCommand = mu.Struct("TPM2_StirRandom_In",
		field("inData", TPM2BSensitiveData),
	)
	GetCapabilityCommand = mu.Struct("TPM2_GetCapability_In",
		field("capability", Cap),
		field("property", mu.U32),
		field("propertyCount", mu.U32),
	)
	GetCapabilityResponse = mu.Struct("TPM2_GetCapability_Out",
		field("moreData", YesNo),
		field("capabilityData", TPMSCapabilityData),
	)
	ReadPublicResponse = mu.Struct("TPM2_ReadPublic_Out",
		field("outPublic", TPM2BPublic),
		field("name", TPM2BName),
		field("qualifiedName", TPM2BName),
	)
	// CreateCommand is shared by TPM2_Create and TPM2_CreatePrimary.
	CreateCommand = mu.Struct("TPM2_Create_In",
		field("inSensitive", TPM2BSensitiveCreate),
		field("inPublic", TPM2BPublic),
		field("outsideInfo", TPM2BData),
		field("creationPCR", TPMLPCRSelection),
	)
	CreateResponse = mu.Struct("TPM2_Create_Out",
		field("outPrivate", TPM2BPrivate),
		field("outPublic", TPM2BPublic),
		field("creationData", TPM2BCreationData),
		field("creationHash", TPM2BDigest),
		field("creationTicket", TPMTTKCreation),
	)
	CreatePrimaryResponse = mu.Struct("TPM2_CreatePrimary_Out",
		field("outPublic", TPM2BPublic),
		field("creationData", TPM2BCreationData),
		field("creationHash", TPM2BDigest),
		field("creationTicket", TPMTTKCreation),
		field("name", TPM2BName),
	)
	FlushContextCommand = mu.Struct("TPM2_FlushContext_In",
		field("flushHandle", Handle),
	)
	PCRReadCommand = mu.Struct("TPM2_PCR_Read_In",
		field("pcrSelectionIn", TPMLPCRSelection),
	)
	PCRReadResponse = mu.Struct("TPM2_PCR_Read_Out",
		field("pcrUpdateCounter", mu.U32),
		field("pcrSelectionOut", TPMLPCRSelection),
		field("pcrValues", TPMLDigest),
	)
	QuoteCommand = mu.Struct("TPM2_Quote_In",
		field("qualifyingData", TPM2BData),
		field("inScheme", TPMTSigScheme),
		field("PCRselect", TPMLPCRSelection),
	)
	QuoteResponse = mu.Struct("TPM2_Quote_Out",
		field("quoted", TPM2BAttest),
		field("signature", TPMTSignature),
	)
	ReadClockResponse = mu.Struct("TPM2_ReadClock_Out",
		field("currentTime", TPMSTimeInfo),
	)
)

var commands = map[TPMCC]CommandSpec{
	TPMCCStartup:       {Code: TPMCCStartup, Params: StartupCommand, Response: noParams},
	TPMCCShutdown:      {Code: TPMCCShutdown, Params: ShutdownCommand, Response: noParams},
	TPMCCGetRandom:     {Code: TPMCCGetRandom, Params: GetRandomCommand, Response: GetRandomResponse},
	TPMCCStirRandom:    {Code: TPMCCStirRandom, Params: StirRandomCommand, Response: noParams},
	TPMCCGetCapability: {Code: TPMCCGetCapability, Params: GetCapabilityCommand, Response: GetCapabilityResponse},
	TPMCCReadPublic:    {Code: TPMCCReadPublic, CommandHandles: 1, Params: noParams, Response: ReadPublicResponse},
	TPMCCCreate:        {Code: TPMCCCreate, CommandHandles: 1, Params: CreateCommand, Response: CreateResponse},
	TPMCCCreatePrimary: {Code: TPMCCCreatePrimary, CommandHandles: 1, ResponseHandles: 1, Params: CreateCommand, Response: CreatePrimaryResponse},
	TPMCCFlushContext:  {Code: TPMCCFlushContext, Params: FlushContextCommand, Response: noParams},
	TPMCCPCRRead:       {Code: TPMCCPCRRead, Params: PCRReadCommand, Response: PCRReadResponse},
	TPMCCQuote:         {Code: TPMCCQuote, CommandHandles: 1, Params: QuoteCommand, Response: QuoteResponse},
	TPMCCReadClock:     {Code: TPMCCReadClock, Params: noParams, Response: ReadClockResponse},
}

// ErrUnknownCommand is returned for command codes with no CommandSpec.
var ErrUnknownCommand = errors.New("unknown command code")

// LookupCommand returns the layout of cc.
func LookupCommand(cc TPMCC) (CommandSpec, bool) {
	spec, ok := commands[cc]
	return spec, ok
}

// Command is a framed TPM command.
type Command struct {
	Code    TPMCC
	Handles []TPMHandle
	// Auths are TPMS_AUTH_COMMAND values. Any entry makes the command a
	// TPM_ST_SESSIONS command.
	Auths  []*mu.StructValue
	Params *mu.StructValue
}

// Marshal frames c: header, handles, authorization area and parameters.
func (c *Command) Marshal() ([]byte, error) {
	var body []byte
	for _, h := range c.Handles {
		b, err := mu.EncodeAs(Handle, uint32(h), mu.Options{})
		if err != nil {
			return nil, err
		}
		body = append(body, b...)
	}
	tag := TPMSTNoSessions
	if len(c.Auths) > 0 {
		tag = TPMSTSessions
		var area []byte
		for _, a := range c.Auths {
			b, err := mu.Encode(a)
			if err != nil {
				return nil, fmt.Errorf("authorization area: %w", err)
			}
			area = append(area, b...)
		}
		size, err := mu.Encode(uint32(len(area)))
		if err != nil {
			return nil, err
		}
		body = append(body, size...)
		body = append(body, area...)
	}
	if c.Params != nil {
		b, err := mu.Encode(c.Params)
		if err != nil {
			return nil, fmt.Errorf("%v parameters: %w", c.Code, err)
		}
		body = append(body, b...)
	}
	hdr, err := mu.Encode(mu.NewStruct(CommandHeader, uint16(tag), uint32(10+len(body)), uint32(c.Code)))
	if err != nil {
		return nil, err
	}
	return append(hdr, body...), nil
}

// Response is a parsed TPM response.
type Response struct {
	Tag     TPMST
	Code    TPMRC
	Handles []TPMHandle
	Params  *mu.StructValue
	// Auths are TPMS_AUTH_RESPONSE values.
	Auths []*mu.StructValue
}

type header struct {
	tag  TPMST
	size uint32
	code uint32
}

func parseHeader(t *mu.StructType, b []byte) (header, []byte, error) {
	v, rest, err := mu.DecodePrefix(b, t)
	if err != nil {
		return header{}, nil, err
	}
	s := v.(*mu.StructValue)
	h := header{
		tag:  TPMST(s.Fields[0].(uint16)),
		size: s.Fields[1].(uint32),
		code: s.Fields[2].(uint32),
	}
	if int(h.size) != len(b) {
		return header{}, nil, fmt.Errorf("size field is %d, got %d bytes", h.size, len(b))
	}
	return h, rest, nil
}

func parseHandles(b []byte, n int) ([]TPMHandle, []byte, error) {
	var hs []TPMHandle
	for i := 0; i < n; i++ {
		v, rest, err := mu.DecodePrefix(b, Handle)
		if err != nil {
			return nil, nil, fmt.Errorf("handle %d: %w", i, err)
		}
		hs = append(hs, TPMHandle(v.(uint32)))
		b = rest
	}
	return hs, b, nil
}

// splitArea splits a u32-size-prefixed area off the front of b.
func splitArea(b []byte) (area, rest []byte, err error) {
	v, rest, err := mu.DecodePrefix(b, mu.U32)
	if err != nil {
		return nil, nil, err
	}
	n := v.(uint32)
	if uint64(n) > uint64(len(rest)) {
		return nil, nil, fmt.Errorf("area size %d exceeds %d remaining bytes", n, len(rest))
	}
	return rest[:n], rest[n:], nil
}

func parseAuths(area []byte, t *mu.StructType) ([]*mu.StructValue, error) {
	var auths []*mu.StructValue
	for len(area) > 0 {
		v, rest, err := mu.DecodePrefix(area, t)
		if err != nil {
			return nil, fmt.Errorf("authorization %d: %w", len(auths), err)
		}
		auths = append(auths, v.(*mu.StructValue))
		area = rest
	}
	return auths, nil
}

// ParseCommand unframes a command whose code has a CommandSpec.
func ParseCommand(b []byte) (*Command, error) {
	h, rest, err := parseHeader(CommandHeader, b)
	if err != nil {
		return nil, fmt.Errorf("command header: %w", err)
	}
	cmd := &Command{Code: TPMCC(h.code)}
	spec, ok := LookupCommand(cmd.Code)
	if !ok {
		return cmd, fmt.Errorf("%w: %v", ErrUnknownCommand, cmd.Code)
	}
	if cmd.Handles, rest, err = parseHandles(rest, spec.CommandHandles); err != nil {
		return nil, err
	}
	if h.tag == TPMSTSessions {
		var area []byte
		if area, rest, err = splitArea(rest); err != nil {
			return nil, fmt.Errorf("authorization area: %w", err)
		}
		if cmd.Auths, err = parseAuths(area, TPMSAuthCommand); err != nil {
			return nil, err
		}
	}
	v, err := mu.Decode(rest, spec.Params)
	if err != nil {
		return nil, fmt.Errorf("%v parameters: %w", cmd.Code, err)
	}
	cmd.Params = v.(*mu.StructValue)
	return cmd, nil
}

// ParseResponse unframes a response to the command spec describes. A TPM
// error code is returned as a TPMRC error along with the header fields.
func ParseResponse(spec CommandSpec, b []byte) (*Response, error) {
	h, rest, err := parseHeader(ResponseHeader, b)
	if err != nil {
		return nil, fmt.Errorf("response header: %w", err)
	}
	rsp := &Response{Tag: h.tag, Code: TPMRC(h.code)}
	if rsp.Code != TPMRCSuccess {
		return rsp, rsp.Code
	}
	if rsp.Handles, rest, err = parseHandles(rest, spec.ResponseHandles); err != nil {
		return nil, err
	}
	params := rest
	if h.tag == TPMSTSessions {
		var auths []byte
		if params, auths, err = splitArea(rest); err != nil {
			return nil, fmt.Errorf("parameter area: %w", err)
		}
		if rsp.Auths, err = parseAuths(auths, TPMSAuthResponse); err != nil {
			return nil, err
		}
	}
	v, err := mu.Decode(params, spec.Response)
	if err != nil {
		return nil, fmt.Errorf("%v response parameters: %w", spec.Code, err)
	}
	rsp.Params = v.(*mu.StructValue)
	return rsp, nil
}

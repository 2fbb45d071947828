package transport

import (
	"encoding/hex"
	"fmt"

	"github.com/chrisfenner/tpmwire/mu"
	"github.com/chrisfenner/tpmwire/tpm2"
	"github.com/sirupsen/logrus"
)

// DebugOptions configures NewDebug.
type DebugOptions struct {
	// Logger receives the traffic. Hex dumps and headers are logged at
	// Debug, decoded parameter trees at Trace.
	Logger *logrus.Entry
	// Pcap, if set, captures every command and response.
	Pcap *PcapWriter
}

// Debug is a Transport that logs and captures the traffic of another.
type Debug struct {
	inner Transport
	log   *logrus.Entry
	pcap  *PcapWriter
}

// NewDebug wraps inner.
func NewDebug(inner Transport, opts DebugOptions) *Debug {
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Debug{inner: inner, log: log, pcap: opts.Pcap}
}

func (d *Debug) Send(command []byte) ([]byte, error) {
	log := d.log.WithField("direction", HostToTPM.String())
	spec, known := d.logCommand(log, command)
	if d.pcap != nil {
		if err := d.pcap.WriteSegment(HostToTPM, command); err != nil {
			log.WithError(err).Warn("pcap capture failed")
		}
	}

	rsp, err := d.inner.Send(command)
	if err != nil {
		log.WithError(err).Debug("send failed")
		return nil, err
	}

	log = d.log.WithField("direction", TPMToHost.String())
	d.logResponse(log, spec, known, rsp)
	if d.pcap != nil {
		if err := d.pcap.WriteSegment(TPMToHost, rsp); err != nil {
			log.WithError(err).Warn("pcap capture failed")
		}
	}
	return rsp, nil
}

func (d *Debug) logCommand(log *logrus.Entry, command []byte) (tpm2.CommandSpec, bool) {
	log.Debugf("command: %s", hex.EncodeToString(command))
	hdr, err := headerFields(command, tpm2.CommandHeader)
	if err != nil {
		log.WithError(err).Debug("undecodable command header")
		return tpm2.CommandSpec{}, false
	}
	cc := tpm2.TPMCC(hdr.code)
	log.WithFields(logrus.Fields{
		"tag":  fmt.Sprintf("%#04x", hdr.tag),
		"size": hdr.size,
		"cc":   cc.String(),
	}).Debug("command header")
	spec, ok := tpm2.LookupCommand(cc)
	if ok && d.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		if cmd, err := tpm2.ParseCommand(command); err != nil {
			log.WithError(err).Trace("undecodable command")
		} else {
			log.Tracef("%v parameters:\n%s", cc, mu.Format(cmd.Params))
		}
	}
	return spec, ok
}

func (d *Debug) logResponse(log *logrus.Entry, spec tpm2.CommandSpec, known bool, rsp []byte) {
	log.Debugf("response: %s", hex.EncodeToString(rsp))
	hdr, err := headerFields(rsp, tpm2.ResponseHeader)
	if err != nil {
		log.WithError(err).Debug("undecodable response header")
		return
	}
	rc := tpm2.TPMRC(hdr.code)
	fields := logrus.Fields{
		"tag":  fmt.Sprintf("%#04x", hdr.tag),
		"size": hdr.size,
		"rc":   fmt.Sprintf("%#x", hdr.code),
	}
	if rc != tpm2.TPMRCSuccess {
		fields["error"] = rc.Error()
	}
	log.WithFields(fields).Debug("response header")
	if !known || rc != tpm2.TPMRCSuccess || !d.log.Logger.IsLevelEnabled(logrus.TraceLevel) {
		return
	}
	parsed, err := tpm2.ParseResponse(spec, rsp)
	if err != nil {
		log.WithError(err).Trace("undecodable response")
		return
	}
	log.Tracef("%v response parameters:\n%s", spec.Code, mu.Format(parsed.Params))
}

type headerValues struct {
	tag  uint16
	size uint32
	code uint32
}

func headerFields(b []byte, t *mu.StructType) (headerValues, error) {
	v, _, err := mu.DecodePrefix(b, t)
	if err != nil {
		return headerValues{}, err
	}
	s := v.(*mu.StructValue)
	return headerValues{
		tag:  s.Fields[0].(uint16),
		size: s.Fields[1].(uint32),
		code: s.Fields[2].(uint32),
	}, nil
}

// Close flushes the capture and closes the wrapped transport.
func (d *Debug) Close() error {
	var flushErr error
	if d.pcap != nil {
		flushErr = d.pcap.Flush()
	}
	if err := d.inner.Close(); err != nil {
		return err
	}
	return flushErr
}

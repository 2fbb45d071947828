package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/chrisfenner/tpmwire/mu"
	"github.com/chrisfenner/tpmwire/tpm2"
	"github.com/chrisfenner/tpmwire/transport"
)

var openTransport = func(cfg transport.SimulatorConfig, log *logrus.Entry) (transport.Transport, error) {
	s, err := transport.OpenSimulator(cfg, log)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func NewSendCmd(root *cobra.Command, cfg config) *cobra.Command {
	c := &cobra.Command{
		Use:     "send HEX",
		Args:    cobra.ExactArgs(1),
		Short:   "Send a raw command to the TPM simulator and print the response",
		Example: "  tpm2wire send 80010000000c0000017b0010 --pcap tpm.pcapng",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			command, err := parseHex(args[0])
			if err != nil {
				return err
			}
			log := cfg.logger(cmd.ErrOrStderr())
			tpm, err := openTransport(cfg.simulator(), log)
			if err != nil {
				return err
			}
			opts := transport.DebugOptions{Logger: log}
			if path, _ := cmd.Flags().GetString("pcap"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					tpm.Close()
					return err
				}
				defer f.Close()
				if opts.Pcap, err = transport.NewPcapWriter(f); err != nil {
					tpm.Close()
					return err
				}
			}
			tpm = transport.NewDebug(tpm, opts)
			defer func() {
				if cerr := tpm.Close(); err == nil {
					err = cerr
				}
			}()

			rsp, err := tpm.Send(command)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, hex.EncodeToString(rsp))
			hdr, _, err := mu.DecodePrefix(rsp, tpm2.ResponseHeader)
			if err != nil {
				return fmt.Errorf("response header: %w", err)
			}
			fmt.Fprint(out, mu.Format(hdr))
			if rc := tpm2.TPMRC(hdr.(*mu.StructValue).Fields[2].(uint32)); rc != tpm2.TPMRCSuccess {
				fmt.Fprintf(out, "error: %v\n", rc)
			}
			return nil
		},
	}
	c.Flags().String("pcap", "", "Capture the exchange to this pcapng file")
	root.AddCommand(c)
	return c
}

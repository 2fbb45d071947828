package main

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chrisfenner/tpmwire/transport"
)

// config holds the settings shared by every subcommand. Values come from
// persistent flags, overridden by TPM2WIRE_* environment variables when the
// flag is not set.
type config struct {
	v *viper.Viper
}

func (c config) logger(w io.Writer) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(w)
	switch {
	case c.v.GetBool("trace"):
		logger.SetLevel(logrus.TraceLevel)
	case c.v.GetBool("debug"):
		logger.SetLevel(logrus.DebugLevel)
	default:
		logger.SetLevel(logrus.WarnLevel)
	}
	return logrus.NewEntry(logger)
}

func (c config) simulator() transport.SimulatorConfig {
	return transport.SimulatorConfig{
		Address:      c.v.GetString("simulator-address"),
		TPMPort:      c.v.GetInt("simulator-port"),
		PlatformPort: c.v.GetInt("platform-port"),
	}
}

func NewRootCmd() (*cobra.Command, config) {
	cfg := config{v: viper.New()}
	cmd := &cobra.Command{
		Use:           "tpm2wire",
		Short:         "Decode, encode and exchange TPM 2.0 wire structures",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := cmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("trace", false, "Trace every field the codec reads or writes")
	flags.String("simulator-address", transport.DefaultSimulatorConfig.Address, "Simulator host")
	flags.Int("simulator-port", transport.DefaultSimulatorConfig.TPMPort, "Simulator TPM command port")
	flags.Int("platform-port", transport.DefaultSimulatorConfig.PlatformPort, "Simulator platform port")
	flags.VisitAll(func(f *pflag.Flag) {
		_ = cfg.v.BindPFlag(f.Name, f)
	})
	cfg.v.SetEnvPrefix("TPM2WIRE")
	cfg.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cfg.v.AutomaticEnv()

	NewDecodeCmd(cmd, cfg)
	NewEncodeCmd(cmd, cfg)
	NewTypesCmd(cmd)
	NewSendCmd(cmd, cfg)
	return cmd, cfg
}

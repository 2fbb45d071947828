package transport

import (
	"fmt"
	"io"

	sim "github.com/chrisfenner/go-tpm-sim"
	"github.com/sirupsen/logrus"
)

// SimulatorConfig locates a TPM reference simulator listening on TCP.
type SimulatorConfig struct {
	Address      string
	TPMPort      int
	PlatformPort int
}

// DefaultSimulatorConfig is the simulator's usual local setup.
var DefaultSimulatorConfig = SimulatorConfig{
	Address:      "127.0.0.1",
	TPMPort:      2321,
	PlatformPort: 2322,
}

// Simulator is a Transport over the simulator's TCP command port.
type Simulator struct {
	t   io.ReadWriteCloser
	log *logrus.Entry
}

// OpenSimulator connects to the simulator described by cfg. Zero fields take
// their value from DefaultSimulatorConfig.
func OpenSimulator(cfg SimulatorConfig, log *logrus.Entry) (*Simulator, error) {
	if cfg.Address == "" {
		cfg.Address = DefaultSimulatorConfig.Address
	}
	if cfg.TPMPort == 0 {
		cfg.TPMPort = DefaultSimulatorConfig.TPMPort
	}
	if cfg.PlatformPort == 0 {
		cfg.PlatformPort = DefaultSimulatorConfig.PlatformPort
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	log = log.WithField("simulator", fmt.Sprintf("%s:%d", cfg.Address, cfg.TPMPort))
	tpm, err := sim.OpenTcpTpm(sim.TcpConfig{
		Address:      cfg.Address,
		TPMPort:      cfg.TPMPort,
		PlatformPort: cfg.PlatformPort,
	})
	if err != nil {
		return nil, fmt.Errorf("opening simulator: %w", err)
	}
	log.Debug("connected")
	return newSimulator(tpm, log), nil
}

func newSimulator(rwc io.ReadWriteCloser, log *logrus.Entry) *Simulator {
	return &Simulator{t: rwc, log: log}
}

func (s *Simulator) Send(command []byte) ([]byte, error) {
	n, err := s.t.Write(command)
	if err != nil {
		return nil, err
	} else if n != len(command) {
		return nil, fmt.Errorf("partial TPM write: only %d of %d bytes", n, len(command))
	}
	rsp := make([]byte, maxResponse)
	n, err = s.t.Read(rsp)
	// An io.EOF after reading some data is OK.
	// Any other type of error after reading some data, or io.EOF after reading no data, is an error.
	if err != nil && !(n > 0 && err == io.EOF) {
		return nil, err
	}
	s.log.Tracef("exchanged %d command bytes for %d response bytes", len(command), n)
	return rsp[:n], nil
}

func (s *Simulator) Close() error {
	s.log.Debug("closing")
	return s.t.Close()
}

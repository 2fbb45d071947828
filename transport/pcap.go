package transport

import (
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Ports of the synthetic TCP connection. Wireshark's TPM 2.0 dissector
// recognizes the simulator port.
const (
	HostPort = 50000
	TPMPort  = 2321
)

// Direction says which way a captured TPM byte stream travels.
type Direction int

const (
	HostToTPM Direction = iota
	TPMToHost
)

func (d Direction) String() string {
	if d == HostToTPM {
		return "host->tpm"
	}
	return "tpm->host"
}

func (d Direction) peer() Direction {
	if d == HostToTPM {
		return TPMToHost
	}
	return HostToTPM
}

// PcapWriter writes TPM traffic into a pcapng stream, wrapping every command
// and response in an Ethernet/IPv4/TCP frame of one fake connection between
// HostPort and TPMPort. It is safe for concurrent use.
type PcapWriter struct {
	mu  sync.Mutex
	w   *pcapgo.NgWriter
	seq [2]uint32
	now func() time.Time
}

// NewPcapWriter writes the pcapng section and interface headers to w.
func NewPcapWriter(w io.Writer) (*PcapWriter, error) {
	ng, err := pcapgo.NewNgWriter(w, layers.LinkTypeEthernet)
	if err != nil {
		return nil, fmt.Errorf("pcapng header: %w", err)
	}
	return &PcapWriter{w: ng, now: time.Now}, nil
}

// frame builds the Ethernet frame carrying payload in direction dir.
func (p *PcapWriter) frame(dir Direction, payload []byte) ([]byte, error) {
	eth := layers.Ethernet{
		SrcMAC:       make(net.HardwareAddr, 6),
		DstMAC:       make(net.HardwareAddr, 6),
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := layers.IPv4{
		Version:  4,
		Flags:    layers.IPv4DontFragment,
		TTL:      0xff,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.IPv4zero.To4(),
		DstIP:    net.IPv4zero.To4(),
	}
	tcp := layers.TCP{
		SrcPort: HostPort,
		DstPort: TPMPort,
		Seq:     p.seq[dir],
		Ack:     p.seq[dir.peer()],
		ACK:     true,
		Window:  0xaaaa,
	}
	if dir == TPMToHost {
		tcp.SrcPort, tcp.DstPort = TPMPort, HostPort
	}
	if err := tcp.SetNetworkLayerForChecksum(&ip); err != nil {
		return nil, err
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{
		ComputeChecksums: true,
		FixLengths:       true,
	}
	if err := gopacket.SerializeLayers(buf, opts, &eth, &ip, &tcp, gopacket.Payload(payload)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSegment appends payload to the stream in direction dir.
func (p *PcapWriter) WriteSegment(dir Direction, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	data, err := p.frame(dir, payload)
	if err != nil {
		return fmt.Errorf("framing %v segment: %w", dir, err)
	}
	ci := gopacket.CaptureInfo{
		Timestamp:     p.now(),
		CaptureLength: len(data),
		Length:        len(data),
	}
	if err := p.w.WritePacket(ci, data); err != nil {
		return fmt.Errorf("writing %v segment: %w", dir, err)
	}
	p.seq[dir] += uint32(len(payload))
	return nil
}

// Flush writes buffered packets to the underlying writer.
func (p *PcapWriter) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w.Flush()
}

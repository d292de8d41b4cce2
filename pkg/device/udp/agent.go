/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/


package udp

import (
	"context"
	"net"

	"github.com/google/gopacket"

	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/layers"
	"jinr.ru/greenlab/go-marx/pkg/log"
)

// Agent applies write frames received over UDP to a local backend.
type Agent struct {
	conn   *net.UDPConn
	writer deviceifc.RegWriter
}

// NewAgent starts listening on addr, e.g. "0.0.0.0:33310".
func NewAgent(addr string, writer deviceifc.RegWriter) (*Agent, error) {
	uaddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", uaddr)
	if err != nil {
		return nil, err
	}
	log.Info("Register agent listening on %s", conn.LocalAddr())
	return &Agent{conn: conn, writer: writer}, nil
}

func (a *Agent) Addr() net.Addr {
	return a.conn.LocalAddr()
}

// Run serves requests until ctx is done or reading from the socket fails.
func (a *Agent) Run(ctx context.Context) error {
	defer a.conn.Close()

	errChan := make(chan error, 1)

	go func() {
		buffer := make([]byte, 65536)
		for {
			length, addr, err := a.conn.ReadFromUDP(buffer)
			if err != nil {
				errChan <- err
				return
			}
			reply := a.handle(buffer[:length])
			if reply == nil {
				continue
			}
			if _, err := a.conn.WriteToUDP(reply, addr); err != nil {
				log.Error("Error while sending ack to %s: %s", addr, err)
			}
		}
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// handle returns the ack for a request, nil if the frame itself is unusable.
func (a *Agent) handle(data []byte) []byte {
	packet := gopacket.NewPacket(data, layers.FrameLayerType, gopacket.Default)
	frame, ok := packet.Layer(layers.FrameLayerType).(*layers.FrameLayer)
	if !ok {
		log.Debug("Drop packet. Broken frame")
		return nil
	}
	ack := &layers.AckLayer{Status: layers.AckOK}
	write, ok := packet.Layer(layers.WriteLayerType).(*layers.WriteLayer)
	if !ok || packet.ErrorLayer() != nil {
		ack.Status = layers.AckDecodeError
	} else {
		ack.Count, ack.Status = a.apply(write.Ops)
	}
	reply, err := layers.Serialize(layers.NewFrame(layers.FrameTypeAck, frame.Seq, frame.Dst, frame.Src), ack)
	if err != nil {
		log.Error("Error while serializing ack: %s", err)
		return nil
	}
	return reply
}

func (a *Agent) apply(ops []layers.WriteOp) (uint32, layers.AckStatus) {
	for i, op := range ops {
		log.Debug("Writing 0x%08x to 0x%02x", op.Value, op.Addr)
		if err := a.writer.WriteReg(op.Addr, op.Value); err != nil {
			log.Error("Write to 0x%02x failed: %s", op.Addr, err)
			return uint32(i), layers.AckWriteError
		}
	}
	return uint32(len(ops)), layers.AckOK
}

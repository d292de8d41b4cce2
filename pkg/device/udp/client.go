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


// Package udp writes registers of a remote peripheral over UDP.
// A Client sends write frames to an Agent running next to the hardware,
// the Agent applies them to its local backend and answers with an ack.
package udp

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/gopacket"

	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/layers"
	"jinr.ru/greenlab/go-marx/pkg/log"
)

const (
	DefaultPort    = 33310
	DefaultTimeout = time.Second
)

// ErrNack returned when the agent did not apply the whole batch
type ErrNack struct {
	Seq    uint16
	Status layers.AckStatus
	Count  uint32
}

func (e ErrNack) Error() string {
	return fmt.Sprintf("Write request %d failed: %s after %d writes", e.Seq, e.Status, e.Count)
}

type Client struct {
	mu      sync.Mutex
	conn    *net.UDPConn
	seq     uint16
	timeout time.Duration
}

var _ deviceifc.BatchWriter = &Client{}

// Dial connects to an agent, timeout <= 0 means DefaultTimeout.
func Dial(addr string, timeout time.Duration) (*Client, error) {
	uaddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, uaddr)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log.Debug("Register client connected to %s", uaddr)
	return &Client{conn: conn, timeout: timeout}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) nextSeq() uint16 {
	seq := c.seq
	c.seq++
	return seq
}

func (c *Client) WriteReg(addr uint32, value uint32) error {
	return c.WriteBatch([]deviceifc.Op{{Addr: addr, Value: value}})
}

// WriteBatch sends ops in frames of at most layers.WriteMaxOps and waits
// for every frame to be acknowledged before sending the next one.
func (c *Client) WriteBatch(ops []deviceifc.Op) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(ops) > 0 {
		n := len(ops)
		if n > layers.WriteMaxOps {
			n = layers.WriteMaxOps
		}
		if err := c.request(ops[:n]); err != nil {
			return err
		}
		ops = ops[n:]
	}
	return nil
}

func (c *Client) request(ops []deviceifc.Op) error {
	seq := c.nextSeq()
	write := &layers.WriteLayer{Ops: make([]layers.WriteOp, len(ops))}
	for i, op := range ops {
		write.Ops[i] = layers.WriteOp{Addr: op.Addr, Value: op.Value}
	}
	data, err := layers.Serialize(layers.NewFrame(layers.FrameTypeWriteRequest, seq, layers.HostAddr, layers.DeviceAddr), write)
	if err != nil {
		return err
	}
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return err
	}
	if _, err := c.conn.Write(data); err != nil {
		return err
	}

	buffer := make([]byte, layers.FrameMaxSize)
	for {
		length, err := c.conn.Read(buffer)
		if err != nil {
			return err
		}
		packet := gopacket.NewPacket(buffer[:length], layers.FrameLayerType, gopacket.Default)
		frame, ok := packet.Layer(layers.FrameLayerType).(*layers.FrameLayer)
		ack, ackOk := packet.Layer(layers.AckLayerType).(*layers.AckLayer)
		if !ok || !ackOk {
			log.Debug("Drop packet. Not an ack")
			continue
		}
		if frame.Seq != seq {
			log.Debug("Drop ack %d while waiting for %d", frame.Seq, seq)
			continue
		}
		if ack.Status != layers.AckOK || int(ack.Count) != len(ops) {
			return ErrNack{Seq: seq, Status: ack.Status, Count: ack.Count}
		}
		return nil
	}
}

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


package layers

import (
	"reflect"
	"testing"

	"github.com/google/gopacket"
)

func TestWriteFrame(t *testing.T) {
	ops := []WriteOp{{Addr: 0xa0, Value: 0x3ff}, {Addr: 0xa4, Value: 250}}
	data, err := Serialize(NewFrame(FrameTypeWriteRequest, 7, HostAddr, DeviceAddr), &WriteLayer{Ops: ops})
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != FrameHeaderSize+len(ops)*WriteOpSize+4 {
		t.Fatalf("frame is %d bytes", len(data))
	}

	packet := gopacket.NewPacket(data, FrameLayerType, gopacket.Default)
	if errLayer := packet.ErrorLayer(); errLayer != nil {
		t.Fatal(errLayer.Error())
	}
	frame := packet.Layer(FrameLayerType).(*FrameLayer)
	if frame.Seq != 7 || frame.Src != HostAddr || frame.Dst != DeviceAddr {
		t.Errorf("frame header = %+v", frame.FrameHeader)
	}
	if int(frame.Len)*4 != len(data) {
		t.Errorf("frame len = %d words", frame.Len)
	}
	write := packet.Layer(WriteLayerType)
	if write == nil {
		t.Fatal("no write layer")
	}
	if got := write.(*WriteLayer).Ops; !reflect.DeepEqual(got, ops) {
		t.Errorf("ops = %+v", got)
	}
}

func TestAckFrame(t *testing.T) {
	data, err := Serialize(NewFrame(FrameTypeAck, 3, DeviceAddr, HostAddr), &AckLayer{Status: AckWriteError, Count: 5})
	if err != nil {
		t.Fatal(err)
	}
	packet := gopacket.NewPacket(data, FrameLayerType, gopacket.Default)
	ack := packet.Layer(AckLayerType)
	if ack == nil {
		t.Fatal("no ack layer")
	}
	if a := ack.(*AckLayer); a.Status != AckWriteError || a.Count != 5 {
		t.Errorf("ack = %s %d", a.Status, a.Count)
	}
}

func TestFrameErrors(t *testing.T) {
	good, err := Serialize(NewFrame(FrameTypeWriteRequest, 1, HostAddr, DeviceAddr), &WriteLayer{Ops: []WriteOp{{Addr: 4, Value: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	corrupt := func(i int) []byte {
		data := append([]byte{}, good...)
		data[i] ^= 0xff
		return data
	}
	unknown, err := Serialize(NewFrame(0x7777, 1, HostAddr, DeviceAddr), &AckLayer{})
	if err != nil {
		t.Fatal(err)
	}

	for name, data := range map[string][]byte{
		"short":   good[:10],
		"sync":    corrupt(2),
		"crc":     corrupt(len(good) - 1),
		"payload": corrupt(FrameHeaderSize),
		"length":  append(append([]byte{}, good...), 0, 0, 0, 0),
		"type":    unknown,
	} {
		packet := gopacket.NewPacket(data, FrameLayerType, gopacket.Default)
		if packet.ErrorLayer() == nil {
			t.Errorf("%s: expected decode error", name)
		}
	}
}

func TestWriteLayerTooManyOps(t *testing.T) {
	ops := make([]WriteOp, WriteMaxOps+1)
	if _, err := Serialize(NewFrame(FrameTypeWriteRequest, 1, HostAddr, DeviceAddr), &WriteLayer{Ops: ops}); err == nil {
		t.Error("expected error")
	}
}

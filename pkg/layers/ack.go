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
	"encoding/binary"
	"fmt"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

const (
	// AckLayerNum identifies the layer
	AckLayerNum = 2098
	AckSize     = 8
)

type AckStatus uint32

const (
	AckOK AckStatus = iota
	AckDecodeError
	AckWriteError
)

func (s AckStatus) String() string {
	switch s {
	case AckOK:
		return "ok"
	case AckDecodeError:
		return "decode error"
	case AckWriteError:
		return "write error"
	}
	return fmt.Sprintf("unknown status %d", uint32(s))
}

// AckLayer answers a write request with the same sequence number.
// Count is the number of ops applied before the status was determined.
type AckLayer struct {
	layers.BaseLayer
	Status AckStatus
	Count  uint32
}

var AckLayerType = gopacket.RegisterLayerType(AckLayerNum,
	gopacket.LayerTypeMetadata{Name: "AckLayerType", Decoder: gopacket.DecodeFunc(DecodeAckLayer)})

func (a *AckLayer) LayerType() gopacket.LayerType {
	return AckLayerType
}

func (a *AckLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	bytes, err := b.AppendBytes(AckSize)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(bytes[0:4], uint32(a.Status))
	binary.LittleEndian.PutUint32(bytes[4:8], a.Count)
	return nil
}

func (a *AckLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < AckSize {
		df.SetTruncated()
		return fmt.Errorf("Ack too short: %d bytes", len(data))
	}
	a.BaseLayer = layers.BaseLayer{
		Contents: data[:AckSize],
		Payload:  data[AckSize:],
	}
	a.Status = AckStatus(binary.LittleEndian.Uint32(data[0:4]))
	a.Count = binary.LittleEndian.Uint32(data[4:8])
	return nil
}

func (a *AckLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

func DecodeAckLayer(data []byte, p gopacket.PacketBuilder) error {
	a := &AckLayer{}
	err := a.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(a)
	return nil
}

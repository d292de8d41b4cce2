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
	// WriteLayerNum identifies the layer
	WriteLayerNum = 2097
	// WriteOpSize is the size of one op in bytes: address and value words
	WriteOpSize = 8
	// WriteMaxOps is the max number of ops fitting one frame
	WriteMaxOps = FrameMaxPayloadSize / WriteOpSize
)

// WriteOp is a single register write.
type WriteOp struct {
	Addr  uint32
	Value uint32
}

// WriteLayer is a batch of register writes applied in order.
type WriteLayer struct {
	layers.BaseLayer
	Ops []WriteOp
}

var WriteLayerType = gopacket.RegisterLayerType(WriteLayerNum,
	gopacket.LayerTypeMetadata{Name: "WriteLayerType", Decoder: gopacket.DecodeFunc(DecodeWriteLayer)})

func (w *WriteLayer) LayerType() gopacket.LayerType {
	return WriteLayerType
}

// Serialize serializes the ops to a buffer of len(Ops) * WriteOpSize bytes
func (w *WriteLayer) Serialize(buf []byte) {
	for i, op := range w.Ops {
		binary.LittleEndian.PutUint32(buf[i*WriteOpSize:i*WriteOpSize+4], op.Addr)
		binary.LittleEndian.PutUint32(buf[i*WriteOpSize+4:i*WriteOpSize+8], op.Value)
	}
}

func (w *WriteLayer) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if len(w.Ops) > WriteMaxOps {
		return fmt.Errorf("Too many write ops for one frame: %d > %d", len(w.Ops), WriteMaxOps)
	}
	bytes, err := b.AppendBytes(len(w.Ops) * WriteOpSize)
	if err != nil {
		return err
	}
	w.Serialize(bytes)
	return nil
}

func (w *WriteLayer) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data)%WriteOpSize != 0 {
		df.SetTruncated()
		return fmt.Errorf("Write payload of %d bytes is not a whole number of ops", len(data))
	}
	w.BaseLayer = layers.BaseLayer{
		Contents: data,
		Payload:  []byte{},
	}
	w.Ops = make([]WriteOp, len(data)/WriteOpSize)
	for i := range w.Ops {
		w.Ops[i].Addr = binary.LittleEndian.Uint32(data[i*WriteOpSize : i*WriteOpSize+4])
		w.Ops[i].Value = binary.LittleEndian.Uint32(data[i*WriteOpSize+4 : i*WriteOpSize+8])
	}
	return nil
}

func (w *WriteLayer) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypeZero
}

func DecodeWriteLayer(data []byte, p gopacket.PacketBuilder) error {
	w := &WriteLayer{}
	err := w.DecodeFromBytes(data, p)
	if err != nil {
		return err
	}
	p.AddLayer(w)
	return nil
}

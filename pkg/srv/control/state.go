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


package control

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"go.etcd.io/bbolt"

	"jinr.ru/greenlab/go-marx/pkg/clock"
	"jinr.ru/greenlab/go-marx/pkg/config"
	devicepkg "jinr.ru/greenlab/go-marx/pkg/device"
	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/log"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

const (
	BucketNamePrefix = "reg_"
	// how long to wait for another process holding the database
	DBLockTimeout = time.Second
)

// RegState mirrors the last value written to every register of every device.
// Registers of the peripheral are write only, the mirror is the only way to
// read them back and to restore the latched repetition rate after a restart.
type RegState struct {
	context.Context
	DB *bbolt.DB
}

func NewRegState(ctx context.Context, cfg *config.Config) (*RegState, error) {
	// open register database
	db, err := bbolt.Open(cfg.DBPath, 0600, &bbolt.Options{Timeout: DBLockTimeout})
	if err != nil {
		return nil, err
	}
	// create buckets in the register database for all devices
	if err = db.Update(func(tx *bbolt.Tx) error {
		for _, device := range cfg.Devices {
			_, err = tx.CreateBucketIfNotExists([]byte(bucketName(device.Name)))
			if err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &RegState{
		Context: ctx,
		DB:      db,
	}, nil
}

func uint16ToByte(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func uint32ToByte(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func bucketName(deviceName string) string {
	return fmt.Sprintf("%s%s", BucketNamePrefix, deviceName)
}

// Close ...
func (s *RegState) Close() {
	s.DB.Close()
}

func (s *RegState) bucket(tx *bbolt.Tx, deviceName string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(bucketName(deviceName)))
	if b == nil {
		return nil, ErrUnknownDevice{Name: deviceName}
	}
	return b, nil
}

// SetRegs records writes of a device in one transaction.
func (s *RegState) SetRegs(deviceName string, writes []reg.Write) error {
	return s.DB.Update(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx, deviceName)
		if err != nil {
			return err
		}
		for _, w := range writes {
			log.Debug("Setting register: device: %s index: %d value: 0x%x", deviceName, w.Index, w.Value)
			if err := b.Put(uint16ToByte(uint16(w.Index)), uint32ToByte(w.Value)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetReg returns the last value written to a register, ok is false if it was never written.
func (s *RegState) GetReg(deviceName string, index int) (value uint32, ok bool, err error) {
	if _, err := reg.Address(index); err != nil {
		return 0, false, err
	}
	err = s.DB.View(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx, deviceName)
		if err != nil {
			return err
		}
		valueBytes := b.Get(uint16ToByte(uint16(index)))
		if valueBytes == nil {
			return nil
		}
		value, ok = binary.BigEndian.Uint32(valueBytes), true
		return nil
	})
	return value, ok, err
}

// GetRegAll returns all registers of a device that were ever written, ordered by index.
func (s *RegState) GetRegAll(deviceName string) ([]reg.Write, error) {
	var regs []reg.Write
	err := s.DB.View(func(tx *bbolt.Tx) error {
		b, err := s.bucket(tx, deviceName)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, v []byte) error {
			regs = append(regs, reg.Write{
				Index: int(binary.BigEndian.Uint16(k)),
				Value: binary.BigEndian.Uint32(v),
			})
			return nil
		})
	})
	return regs, err
}

// Mirror wraps the backend of a device so that successful writes land in the state.
func (s *RegState) Mirror(deviceName string, writer deviceifc.RegWriter) *MirrorWriter {
	return &MirrorWriter{state: s, device: deviceName, writer: writer}
}

type MirrorWriter struct {
	state  *RegState
	device string
	writer deviceifc.RegWriter
}

var _ deviceifc.BatchWriter = &MirrorWriter{}

func (m *MirrorWriter) WriteReg(addr uint32, value uint32) error {
	return m.WriteBatch([]deviceifc.Op{{Addr: addr, Value: value}})
}

// WriteBatch passes ops to the backend and records them. When the backend
// fails halfway nothing is recorded since it is unknown which writes landed.
func (m *MirrorWriter) WriteBatch(ops []deviceifc.Op) error {
	writes := make([]reg.Write, 0, len(ops))
	for _, op := range ops {
		index, err := reg.Index(op.Addr)
		if err != nil {
			return err
		}
		writes = append(writes, reg.Write{Index: index, Value: op.Value})
	}
	var err error
	if batch, ok := m.writer.(deviceifc.BatchWriter); ok {
		err = batch.WriteBatch(ops)
	} else {
		for _, op := range ops {
			if err = m.writer.WriteReg(op.Addr, op.Value); err != nil {
				break
			}
		}
	}
	if err != nil {
		return err
	}
	return m.state.SetRegs(m.device, writes)
}

// OpenDevice opens the backend of a device, routes its writes through the
// mirror and restores the latched repetition rate.
func (s *RegState) OpenDevice(cfg *config.DeviceConfig, c *clock.Clock) (*devicepkg.Device, io.Closer, error) {
	writer, closer, err := devicepkg.OpenBackend(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	d := devicepkg.NewDevice(cfg.Name, c, s.Mirror(cfg.Name, writer))

	repRate, ok, err := s.GetReg(cfg.Name, reg.RegRepRate)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	if ok {
		log.Info("Device %s: restoring rep rate %d cycles", cfg.Name, repRate)
		d.Restore(clock.Cycles(repRate))
	}
	return d, closer, nil
}

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
	"errors"
	"testing"
	"time"

	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/device/mem"
	"jinr.ru/greenlab/go-marx/pkg/layers"
)

func startAgent(t *testing.T, r *mem.Recorder) *Client {
	t.Helper()
	agent, err := NewAgent("127.0.0.1:0", r)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = agent.Run(ctx)
		close(done)
	}()
	client, err := Dial(agent.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		client.Close()
		cancel()
		<-done
	})
	return client
}

func TestClientWriteBatch(t *testing.T) {
	r := mem.NewRecorder()
	client := startAgent(t, r)

	// more than one frame
	ops := make([]deviceifc.Op, 0, layers.WriteMaxOps+10)
	for i := 0; i < cap(ops); i++ {
		ops = append(ops, deviceifc.Op{Addr: uint32(i%42) * 4, Value: uint32(i)})
	}
	if err := client.WriteBatch(ops); err != nil {
		t.Fatal(err)
	}
	got := r.Writes()
	if len(got) != len(ops) {
		t.Fatalf("agent applied %d writes, want %d", len(got), len(ops))
	}
	for i := range ops {
		if got[i] != ops[i] {
			t.Fatalf("write %d = %+v, want %+v", i, got[i], ops[i])
		}
	}
	if err := client.WriteReg(0xa4, 250); err != nil {
		t.Fatal(err)
	}
	if v, _ := r.ReadReg(0xa4); v != 250 {
		t.Errorf("register = %d", v)
	}
}

func TestClientNack(t *testing.T) {
	r := mem.NewRecorder()
	r.FailAt = 2
	client := startAgent(t, r)
	err := client.WriteBatch([]deviceifc.Op{{Addr: 0, Value: 1}, {Addr: 4, Value: 2}, {Addr: 8, Value: 3}})
	var nack ErrNack
	if !errors.As(err, &nack) {
		t.Fatalf("got %v", err)
	}
	if nack.Status != layers.AckWriteError || nack.Count != 1 {
		t.Errorf("nack = %+v", nack)
	}
}

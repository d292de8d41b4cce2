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


package ifc

import (
	"net/http"

	deviceifc "jinr.ru/greenlab/go-marx/pkg/device/ifc"
	"jinr.ru/greenlab/go-marx/pkg/reg"
)

type ControlServer interface {
	Run() error

	GetDeviceByName(deviceName string) (deviceifc.Device, error)
	GetAllDevices() map[string]deviceifc.Device
	DeadTime() float64

	// register mirror
	RegRead(deviceName string, index int) (uint32, bool, error)
	RegReadAll(deviceName string) ([]reg.Write, error)
}

type ApiServer interface {
	Run() error
	Handler() http.Handler
}

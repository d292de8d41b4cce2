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


package command

import (
	"fmt"
	"io/ioutil"

	"jinr.ru/greenlab/go-marx/pkg/marx"
)

func exportFormat(path, format string) (marx.Format, error) {
	if format == "" {
		return marx.FormatFromPath(path), nil
	}
	return marx.ParseFormat(format)
}

// WriteExport saves a program for replay, empty format means guess from the path
func WriteExport(p *marx.Program, path, format string) error {
	f, err := exportFormat(path, format)
	if err != nil {
		return err
	}
	data, err := marx.Encode(p, f)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(path, data, 0644)
}

// ReadExport loads and checks a saved program
func ReadExport(path, format string) (*marx.Export, error) {
	f, err := exportFormat(path, format)
	if err != nil {
		return nil, err
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	e, err := marx.Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", path, err)
	}
	return e, nil
}

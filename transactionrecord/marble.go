// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2019 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bitmark-inc/marbled/fault"
)

// Marble - the attributes of a single tracked marble
//
// the state value is the comma separated form: name,color,size,owner
type Marble struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Size  int    `json:"size"`
	Owner string `json:"owner"`
}

// NewMarble - create a marble from its attribute strings
//
// applies the family rules: name length, positive integer size,
// colour and owner are lower cased
func NewMarble(name string, color string, size string, owner string) (*Marble, error) {

	if utf8.RuneCountInString(name) < minNameLength ||
		utf8.RuneCountInString(name) > maxNameLength ||
		unusableField(name) {
		return nil, fault.InvalidMarbleName
	}

	if 0 == len(color) || unusableField(color) {
		return nil, fault.InvalidMarbleColor
	}

	n, err := strconv.Atoi(size)
	if nil != err || n <= 0 {
		return nil, fault.InvalidMarbleSize
	}

	if 0 == len(owner) || unusableField(owner) {
		return nil, fault.InvalidMarbleOwner
	}

	marble := &Marble{
		Name:  name,
		Color: strings.ToLower(color),
		Size:  n,
		Owner: strings.ToLower(owner),
	}
	return marble, nil
}

// MarbleFromBytes - decode a state value back into a marble
func MarbleFromBytes(state []byte) (*Marble, error) {

	fields := strings.Split(string(state), ",")
	if 4 != len(fields) {
		return nil, fault.InvalidNumberOfArgs
	}

	size, err := strconv.Atoi(fields[2])
	if nil != err {
		return nil, fault.InvalidMarbleSize
	}

	marble := &Marble{
		Name:  fields[0],
		Color: fields[1],
		Size:  size,
		Owner: fields[3],
	}
	return marble, nil
}

// a comma would break the CSV state value and a control character
// would break the owner and colour index keys
func unusableField(s string) bool {
	if strings.Contains(s, ",") {
		return true
	}
	for _, r := range s {
		if r < ' ' {
			return true
		}
	}
	return false
}

// TransferTo - rewrite the owner applying the family rules
func (marble *Marble) TransferTo(owner string) error {
	if 0 == len(owner) || unusableField(owner) {
		return fault.InvalidMarbleOwner
	}
	marble.Owner = strings.ToLower(owner)
	return nil
}

// String - the comma separated state value
func (marble Marble) String() string {
	return strings.Join([]string{
		marble.Name,
		marble.Color,
		strconv.Itoa(marble.Size),
		marble.Owner,
	}, ",")
}

// Pack - the state value as stored
func (marble Marble) Pack() []byte {
	return []byte(marble.String())
}

// Address - the state address of this marble
func (marble Marble) Address() string {
	return StateAddress(marble.Name)
}

// Copyright 2022-2024 the nvmectl authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nvme

import (
	"fmt"
	"io"
	"math/big"
	"strings"
)

// le128ToBigInt takes a little-endian 16-byte array and returns a *big.Int
// representing it. Lifetime counters such as data units written exceed the
// 64-bit range.
func le128ToBigInt(buf [16]byte) *big.Int {
	// Int.SetBytes() expects big-endian input, so reverse the bytes locally first
	rev := make([]byte, 16)
	for x := 0; x < 16; x++ {
		rev[x] = buf[16-x-1]
	}

	return new(big.Int).SetBytes(rev)
}

// Le128String renders a little-endian 128-bit counter as a decimal string.
func Le128String(buf [16]byte) string {
	return le128ToBigInt(buf).String()
}

func formatBigBytes(v *big.Int) string {
	var i int

	suffixes := [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"}
	d := big.NewInt(1)

	for i = 0; i < len(suffixes)-1; i++ {
		if v.Cmp(new(big.Int).Mul(d, big.NewInt(1000))) == 1 {
			d.Mul(d, big.NewInt(1000))
		} else {
			break
		}
	}

	if i == 0 {
		return fmt.Sprintf("%d %s", v, suffixes[i])
	}

	// Print 3 significant digits
	return fmt.Sprintf("%.3g %s", new(big.Float).SetInt(v.Div(v, d)), suffixes[i])
}

// FormatBytes renders a byte count with a decimal unit suffix.
func FormatBytes(v uint64) string {
	return formatBigBytes(new(big.Int).SetUint64(v))
}

// printableByte maps a byte to itself when in the printable ASCII range,
// else to '.'.
func printableByte(b byte) byte {
	if b >= '!' && b <= '~' {
		return b
	}
	return '.'
}

// printableString renders a fixed-width binary field with non-printable
// bytes replaced by '.'.
func printableString(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = printableByte(c)
	}
	return string(out)
}

// trimmedString drops trailing space and NUL padding from a fixed-width
// ASCII field such as the identify serial number.
func trimmedString(b []byte) string {
	return strings.TrimRight(string(b), " \x00")
}

// Dump writes a hex+ASCII table with an offset column, width bytes per line
// grouped every group bytes. Unrecognized or vendor-specific payloads are
// rendered only through this.
func Dump(w io.Writer, buf []byte, width, group int) {
	if width <= 0 {
		width = 16
	}
	if group <= 0 {
		group = 1
	}

	fmt.Fprintf(w, "     ")
	for i := 0; i < 16; i++ {
		fmt.Fprintf(w, "%3x", i)
	}

	ascii := make([]byte, 0, width)
	for off := 0; off < len(buf); off += width {
		end := off + width
		if end > len(buf) {
			end = len(buf)
		}
		line := buf[off:end]

		fmt.Fprintf(w, "\n%04x:", off)
		ascii = ascii[:0]
		for i, b := range line {
			if i%group == 0 {
				fmt.Fprintf(w, " %02x", b)
			} else {
				fmt.Fprintf(w, "%02x", b)
			}
			ascii = append(ascii, printableByte(b))
		}
		if pad := width - len(line); pad > 0 {
			spaces := 2*pad + pad/group
			if pad%group != 0 {
				spaces++
			}
			fmt.Fprintf(w, "%*s", spaces, "")
		}
		fmt.Fprintf(w, " \"%s\"", ascii)
	}
	fmt.Fprintln(w)
}

// DumpRaw writes the payload bytes verbatim, for machine consumption.
func DumpRaw(w io.Writer, buf []byte) {
	w.Write(buf)
}

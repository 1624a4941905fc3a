// seehuhn.de/go/pigment - colour spaces and pixel transformations
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package float

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		x    float64
		prec int
		want string
	}{
		{0, 2, "0"},
		{0.5, 2, "0.5"},
		{1.25, 1, "1.2"},
		{-0.0001, 2, "0"},
		{100, 3, "100"},
		{12.3456, 2, "12.35"},
		{-3.10, 4, "-3.1"},
	}
	for _, c := range cases {
		if got := Format(c.x, c.prec); got != c.want {
			t.Errorf("Format(%g, %d) = %q, want %q", c.x, c.prec, got, c.want)
		}
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(128.0/255, 1); got != "50.2" {
		t.Errorf("Percent = %q", got)
	}
}

// Copyright (C) 2019 Tim Waugh
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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package urlvendor

import (
	"testing"

	"github.com/pkg/errors"
)

func TestTransition(t *testing.T) {
	type tcase struct {
		from, to State
		ok       bool
	}
	tcases := []tcase{
		tcase{StateCheck, StateSkip, true},
		tcase{StateCheck, StateInvoke, true},
		tcase{StateCheck, StateAbort, true},
		tcase{StateCheck, StateDone, false},
		tcase{StateSkip, StateDone, true},
		tcase{StateSkip, StateInvoke, false},
		tcase{StateSkip, StateAbort, false},
		tcase{StateInvoke, StateDone, true},
		tcase{StateInvoke, StateAbort, true},
		tcase{StateInvoke, StateSkip, false},
		tcase{StateAbort, StateCheck, false},
		tcase{StateDone, StateCheck, false},
	}
	for _, tc := range tcases {
		got, err := transition(tc.from, tc.to)
		if tc.ok {
			if err != nil || got != tc.to {
				t.Errorf("%s -> %s: got %s, %v", tc.from, tc.to, got, err)
			}
			continue
		}
		if errors.Cause(err) != ErrorInvalidTransition {
			t.Errorf("%s -> %s: got error %v", tc.from, tc.to, err)
		}
		if got != tc.from {
			t.Errorf("%s -> %s: state changed to %s", tc.from, tc.to, got)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[State]bool{
		StateCheck:  false,
		StateSkip:   false,
		StateInvoke: false,
		StateAbort:  true,
		StateDone:   true,
	}
	for s, exp := range terminal {
		if IsTerminal(s) != exp {
			t.Errorf("IsTerminal(%s): got %t", s, !exp)
		}
	}
	if State(99).String() != "unknown" {
		t.Errorf("unexpected name %q", State(99))
	}
}

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
	"github.com/pkg/errors"
)

// State is the vendoring state of a single module specifier.
type State int

const (
	// StateCheck looks for an already vendored copy.
	StateCheck State = iota

	// StateSkip means a vendored copy exists.
	StateSkip

	// StateInvoke runs the vendoring tool.
	StateInvoke

	// StateAbort stops the whole run.
	StateAbort

	// StateDone means the specifier is vendored.
	StateDone
)

var stateNames = map[State]string{
	StateCheck:  "check",
	StateSkip:   "skip",
	StateInvoke: "invoke",
	StateAbort:  "abort",
	StateDone:   "done",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible
// from s.
func IsTerminal(s State) bool {
	return s == StateAbort || s == StateDone
}

var allowedTransitions = map[State][]State{
	StateCheck:  {StateSkip, StateInvoke, StateAbort},
	StateSkip:   {StateDone},
	StateInvoke: {StateDone, StateAbort},
}

// transition returns to if moving from the state from to the state
// to is allowed, and ErrorInvalidTransition otherwise.
func transition(from, to State) (State, error) {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return to, nil
		}
	}
	return from, errors.Wrapf(ErrorInvalidTransition, "%s -> %s", from, to)
}

/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRequest is returned for malformed request items.
	ErrInvalidRequest = errors.New("cfx: invalid request")
	// ErrResolution is returned when a unit cannot be located or loaded.
	ErrResolution = errors.New("cfx: unit resolution failed")
	// ErrConflict is returned when applied units are structurally incompatible.
	ErrConflict = errors.New("cfx: composition conflict")
	// ErrInvalidConfig is returned for unusable configuration.
	ErrInvalidConfig = errors.New("cfx: invalid config")
	// ErrFrozen is returned when mutating a frozen type.
	ErrFrozen = errors.New("cfx: type is frozen")
)

// ResolutionError reports the unit identifier that failed to resolve.
type ResolutionError struct {
	Unit string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %q", ErrResolution, e.Unit)
	}
	return fmt.Sprintf("%s: %q: %v", ErrResolution, e.Unit, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Is matches ErrResolution.
func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

// ConflictError reports a member two or more units disagree on.
type ConflictError struct {
	// Member is the conflicting member name.
	Member string
	// Units are the unit names involved.
	Units []string
	// Reason is "provides" for duplicate definitions or "requires" for an
	// unsatisfied requirement.
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: member %q (%s) between units [%s]",
		ErrConflict, e.Member, e.Reason, strings.Join(e.Units, ", "))
}

// Is matches ErrConflict.
func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

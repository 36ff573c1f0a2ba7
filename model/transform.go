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

package model

import (
	"fmt"

	"github.com/spf13/cast"

	"dirpx.dev/cfx/apis"
)

// Built-in transform names.
const (
	// TransformStrict makes the constructor reject unknown fields.
	TransformStrict = "strict"
	// TransformReadOnly makes every attribute read-only after construction.
	TransformReadOnly = "readonly"
	// TransformRequired marks the attributes listed in args["attributes"]
	// as required.
	TransformRequired = "required"
)

func builtinTransforms() map[string]TransformFunc {
	return map[string]TransformFunc{
		TransformStrict:   strictTransform,
		TransformReadOnly: readOnlyTransform,
		TransformRequired: requiredTransform,
	}
}

func strictTransform(t *Type, _ map[string]any) error {
	return t.SetStrict()
}

func readOnlyTransform(t *Type, _ map[string]any) error {
	for _, n := range t.order {
		if err := t.SetReadOnly(n); err != nil {
			return err
		}
	}
	return nil
}

func requiredTransform(t *Type, args map[string]any) error {
	names, err := cast.ToStringSliceE(args["attributes"])
	if err != nil {
		return fmt.Errorf("%w: attributes: %w", apis.ErrInvalidConfig, err)
	}
	for _, n := range names {
		if err := t.SetRequired(n); err != nil {
			return err
		}
	}
	return nil
}

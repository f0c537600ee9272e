/*-
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package options validates the assembled model.ScanOptions, following the
// Validator convention from the config package this module descends from.
package options

import (
	"github.com/richyo-codes/pulse-scan-cpp/internal/model"
)

// Validator is implemented by anything ValidateConfig-style callers can
// check before acting on it. model.ScanOptions implements it.
type Validator interface {
	Validate() error
}

// ValidateConfig validates cfg if it implements Validator, mirroring
// pkg/config.ValidateConfig's polymorphic interface{} type assertion.
func ValidateConfig(cfg interface{}) error {
	if v, ok := cfg.(Validator); ok {
		return v.Validate()
	}
	return nil
}

// Validate checks o's invariants (spec.md §3) through the Validator
// interface, rather than calling o.Validate() directly.
func Validate(o *model.ScanOptions) error {
	return ValidateConfig(o)
}

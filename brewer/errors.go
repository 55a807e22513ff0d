// Copyright 2026 The Brewer Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package brewer

import (
	"github.com/brewer-db/brewer/oracle"
	"github.com/brewer-db/brewer/query"
)

// ErrSchema and ErrOracleMiss are re-exported here so callers driving
// the scheduler don't need to import query/oracle just to type-switch
// on error kind.
var (
	ErrSchema     = query.ErrSchema
	ErrOracleMiss = oracle.ErrOracleMiss
)
